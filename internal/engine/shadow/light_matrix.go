package shadow

import (
	"github.com/Faultbox/citymap/pkg/math"
	"github.com/Faultbox/citymap/pkg/scene"
)

// minDepth keeps the light frustum usable for flat or empty scenes.
const minDepth = 10

// LightMatrix computes the view-projection of a directional light.
// dir points towards the light. The orthographic volume is centred on focus
// with the given half-extent and is deep enough to contain bounds.
func LightMatrix(dir, focus math.Vec3, extent float32, bounds scene.AABB) math.Mat4 {
	dir = dir.Normalize()

	depth := float32(minDepth)
	if !bounds.Empty() {
		depth = max(bounds.Radius()+focus.Distance(bounds.Center()), minDepth)
	}

	eye := focus.Add(dir.Scale(depth))

	// Avoid an up vector parallel to the light.
	up := math.Vec3{Y: 1}
	if abs32(dir.Y) > 0.99 {
		up = math.Vec3{Z: 1}
	}

	view := math.LookAt(eye, focus, up)
	proj := math.Ortho(-extent, extent, -extent, extent, 0.1, depth*2)
	return proj.Mul(view)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
