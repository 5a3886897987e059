package renderer

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/citymap/pkg/math"
	"github.com/Faultbox/citymap/pkg/scene"
)

const (
	// floatsPerVertex is position (3) + normal (3).
	floatsPerVertex = 6
	cubeVertexCount = 36

	// MaxPointLights is the number of point lights the lit shader accepts.
	MaxPointLights = 8

	minThickness = 0.01
)

// cubeFaces lists the outward normal and the four corners of each face of
// the unit cube centred on the origin, counter-clockwise seen from outside.
var cubeFaces = [6]struct {
	normal  [3]float32
	corners [4][3]float32
}{
	{[3]float32{0, 0, 1}, [4][3]float32{{-.5, -.5, .5}, {.5, -.5, .5}, {.5, .5, .5}, {-.5, .5, .5}}},
	{[3]float32{0, 0, -1}, [4][3]float32{{.5, -.5, -.5}, {-.5, -.5, -.5}, {-.5, .5, -.5}, {.5, .5, -.5}}},
	{[3]float32{1, 0, 0}, [4][3]float32{{.5, -.5, .5}, {.5, -.5, -.5}, {.5, .5, -.5}, {.5, .5, .5}}},
	{[3]float32{-1, 0, 0}, [4][3]float32{{-.5, -.5, -.5}, {-.5, -.5, .5}, {-.5, .5, .5}, {-.5, .5, -.5}}},
	{[3]float32{0, 1, 0}, [4][3]float32{{-.5, .5, .5}, {.5, .5, .5}, {.5, .5, -.5}, {-.5, .5, -.5}}},
	{[3]float32{0, -1, 0}, [4][3]float32{{-.5, -.5, -.5}, {.5, -.5, -.5}, {.5, -.5, .5}, {-.5, -.5, .5}}},
}

// CubeVertices returns interleaved position/normal data for 12 triangles.
func CubeVertices() []float32 {
	out := make([]float32, 0, cubeVertexCount*floatsPerVertex)
	for _, f := range cubeFaces {
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			c := f.corners[i]
			out = append(out, c[0], c[1], c[2], f.normal[0], f.normal[1], f.normal[2])
		}
	}
	return out
}

// quadVertices is a fullscreen triangle strip in clip space.
var quadVertices = []float32{-1, -1, 1, -1, -1, 1, 1, 1}

// ModelMatrix maps the unit cube onto a box. Flat boxes get a minimum
// thickness so they still rasterize.
func ModelMatrix(b scene.AABB) math.Mat4 {
	c, s := b.Center(), b.Size()
	return math.Translate(c.X, c.Y, c.Z).Mul(math.Scale(
		max(s.X, minThickness),
		max(s.Y, minThickness),
		max(s.Z, minThickness),
	))
}

// OutlineMatrix is ModelMatrix grown by a margin on every side.
func OutlineMatrix(b scene.AABB, margin float32) math.Mat4 {
	grown := scene.NewAABB(
		math.Vec3{X: b.Min[0] - margin, Y: b.Min[1] - margin, Z: b.Min[2] - margin},
		math.Vec3{X: b.Max[0] + margin, Y: b.Max[1] + margin, Z: b.Max[2] + margin},
	)
	return ModelMatrix(grown)
}

type drawable struct {
	obj        *scene.Object
	model      math.Mat4
	color      colorful.Color
	castShadow bool
}

// collect walks the scene and returns every visible mesh plus the positions
// of up to MaxPointLights point lights.
func collect(sc *scene.Scene) (draws []drawable, lights []math.Vec3) {
	if sc == nil {
		return nil, nil
	}
	sc.Traverse(func(o *scene.Object) {
		if !o.Visible {
			return
		}
		if o.Kind == scene.KindPointLight {
			if len(lights) < MaxPointLights {
				lights = append(lights, o.Position)
			}
			return
		}
		if o.Material == nil || o.Bounds.Empty() {
			return
		}
		draws = append(draws, drawable{
			obj:        o,
			model:      ModelMatrix(o.Bounds),
			color:      o.Material.Color,
			castShadow: o.CastShadow,
		})
	})
	return draws, lights
}
