package mapview

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/citymap/internal/engine/lighting"
	"github.com/Faultbox/citymap/pkg/math"
)

const (
	// MaxShadowMapSize caps the shadow map resolution.
	MaxShadowMapSize = 4096
	// NightShadowMapSize is the fixed shadow map resolution at night.
	NightShadowMapSize = 512

	shadowExtent = 200
)

// AmbientLight lights every surface evenly.
type AmbientLight struct {
	Color     colorful.Color
	Intensity float32
}

// DirectionalLight is a light infinitely far away, such as the sun.
type DirectionalLight struct {
	Color         colorful.Color
	Intensity     float32
	Direction     math.Vec3 // towards the light
	CastShadow    bool
	ShadowMapSize int
	ShadowExtent  float32 // half-size of the shadow camera, world units
}

// LightRig is the scene-wide lighting.
type LightRig struct {
	Ambient AmbientLight
	Sun     DirectionalLight // side light, the only shadow caster
	Top     DirectionalLight // fill light from above and behind
	Point   float32          // point light intensity multiplier
}

type sunPose struct {
	azimuth, elevation float32
}

var sunPoses = map[TimeOfDay]sunPose{
	Morning:   {azimuth: 100, elevation: 25},
	Afternoon: {azimuth: 160, elevation: 60},
	Sunset:    {azimuth: 250, elevation: 12},
	Night:     {azimuth: 45, elevation: 40},
}

// topDirection points at the top light, above the scene and slightly behind it.
var topDirection = math.Vec3{X: 0, Y: 75, Z: -60}.Normalize()

// NewLightRig derives the lighting for a quality tier and time of day.
func NewLightRig(quality int, tod TimeOfDay, colors Colors, s AdvanceSettings) LightRig {
	pose, ok := sunPoses[tod]
	if !ok {
		pose = sunPoses[Afternoon]
	}

	shadowSize := lighting.ShadowMapSize(quality, MaxShadowMapSize)
	if tod == Night {
		shadowSize = NightShadowMapSize
	}

	return LightRig{
		Ambient: AmbientLight{
			Color:     colors.Ambient,
			Intensity: s.Light.Ambient,
		},
		Sun: DirectionalLight{
			Color:         colors.Sun,
			Intensity:     s.Light.Sun,
			Direction:     lighting.SunDirection(pose.azimuth, pose.elevation),
			CastShadow:    s.Quality.Shadows,
			ShadowMapSize: shadowSize,
			ShadowExtent:  shadowExtent * s.Canvas.GlobalScale,
		},
		Top: DirectionalLight{
			Color:     colors.Top,
			Intensity: s.Light.Top,
			Direction: topDirection,
		},
		Point: s.Light.Point,
	}
}
