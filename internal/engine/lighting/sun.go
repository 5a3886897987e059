// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/citymap/pkg/math"
)

// SunDirection converts azimuth/elevation angles (degrees) to a light direction.
// Azimuth is rotation around the Y axis, elevation is measured from the horizon.
// Returns a normalized direction vector pointing towards the sun.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	azRad := float64(azimuth) * gomath.Pi / 180.0
	elRad := float64(elevation) * gomath.Pi / 180.0

	// Spherical to Cartesian conversion
	return math.Vec3{
		X: float32(gomath.Cos(elRad) * gomath.Sin(azRad)),
		Y: float32(gomath.Sin(elRad)),
		Z: float32(gomath.Cos(elRad) * gomath.Cos(azRad)),
	}
}

// ShadowMapSize returns the shadow map resolution for a quality tier (0-10).
// Each two tiers double the resolution, starting at 256 and capped at max.
func ShadowMapSize(quality, max int) int {
	if quality < 0 {
		quality = 0
	}
	size := 256 << (quality / 2)
	if size > max {
		return max
	}
	return size
}
