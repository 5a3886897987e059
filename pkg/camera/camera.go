// Package camera provides the perspective map camera and the orbit controls
// that drive it from pointer input.
package camera

import (
	gomath "math"

	"github.com/Faultbox/citymap/pkg/math"
)

// Up is the world up axis.
var Up = math.Vec3{X: 0, Y: 1, Z: 0}

// Camera is a perspective camera with an explicit position and orientation.
// The camera looks down its local -Z axis.
type Camera struct {
	Position   math.Vec3
	Quaternion math.Quat

	FovY   float32 // radians
	Aspect float32
	Near   float32
	Far    float32
}

// New creates a camera at the origin with the identity orientation.
func New(fovY, aspect, near, far float32) *Camera {
	return &Camera{
		Quaternion: math.QuatIdentity(),
		FovY:       fovY,
		Aspect:     aspect,
		Near:       near,
		Far:        far,
	}
}

// LookAt orients the camera towards target.
func (c *Camera) LookAt(target math.Vec3) {
	c.Quaternion = math.QuatLookRotation(c.Position, target, Up)
}

// RotationFor returns the orientation the camera would have at position when
// looking at target, without moving the camera.
func (c *Camera) RotationFor(position, target math.Vec3) math.Quat {
	saved, savedRot := c.Position, c.Quaternion
	c.Position = position
	c.LookAt(target)
	q := c.Quaternion
	c.Position, c.Quaternion = saved, savedRot
	return q
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math.Vec3 {
	return c.Quaternion.Rotate(math.Vec3{Z: -1}).Normalize()
}

// SetAspect updates the aspect ratio from a pixel size.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() math.Mat4 {
	rot := c.Quaternion.ToMat4().Transpose()
	return rot.Mul(math.Translate(-c.Position.X, -c.Position.Y, -c.Position.Z))
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Degrees converts degrees to radians as float32.
func Degrees(deg float64) float32 {
	return float32(deg * gomath.Pi / 180)
}
