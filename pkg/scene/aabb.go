package scene

import (
	gomath "math"

	"github.com/Faultbox/citymap/pkg/math"
)

// AABB represents an axis-aligned bounding box. The zero value is empty.
type AABB struct {
	Min [3]float32
	Max [3]float32
	set bool
}

// NewAABB creates an AABB from two corners, in any order.
func NewAABB(a, b math.Vec3) AABB {
	box := AABB{
		Min: [3]float32{a.X, a.Y, a.Z},
		Max: [3]float32{b.X, b.Y, b.Z},
		set: true,
	}
	for i := 0; i < 3; i++ {
		if box.Min[i] > box.Max[i] {
			box.Min[i], box.Max[i] = box.Max[i], box.Min[i]
		}
	}
	return box
}

// Empty reports whether the box holds no points.
func (b AABB) Empty() bool {
	return !b.set
}

// Center returns the center point of the AABB.
func (b AABB) Center() math.Vec3 {
	return math.Vec3{
		X: (b.Min[0] + b.Max[0]) / 2,
		Y: (b.Min[1] + b.Max[1]) / 2,
		Z: (b.Min[2] + b.Max[2]) / 2,
	}
}

// Size returns the extent along each axis.
func (b AABB) Size() math.Vec3 {
	return math.Vec3{X: b.Max[0] - b.Min[0], Y: b.Max[1] - b.Min[1], Z: b.Max[2] - b.Min[2]}
}

// Radius returns the distance from center to corner (half-diagonal).
func (b AABB) Radius() float32 {
	return b.Size().Length() / 2
}

// Extend grows the box to include p.
func (b AABB) Extend(p math.Vec3) AABB {
	if !b.set {
		return NewAABB(p, p)
	}
	pt := [3]float32{p.X, p.Y, p.Z}
	for i := 0; i < 3; i++ {
		b.Min[i] = float32(gomath.Min(float64(b.Min[i]), float64(pt[i])))
		b.Max[i] = float32(gomath.Max(float64(b.Max[i]), float64(pt[i])))
	}
	return b
}

// Union returns the smallest box containing both boxes.
func (b AABB) Union(other AABB) AABB {
	if !other.set {
		return b
	}
	b = b.Extend(math.Vec3{X: other.Min[0], Y: other.Min[1], Z: other.Min[2]})
	return b.Extend(math.Vec3{X: other.Max[0], Y: other.Max[1], Z: other.Max[2]})
}

// Transform returns the world-space box enclosing all eight transformed corners.
func (b AABB) Transform(m math.Mat4) AABB {
	if !b.set {
		return b
	}
	var out AABB
	for i := 0; i < 8; i++ {
		corner := math.Vec3{X: b.Min[0], Y: b.Min[1], Z: b.Min[2]}
		if i&1 != 0 {
			corner.X = b.Max[0]
		}
		if i&2 != 0 {
			corner.Y = b.Max[1]
		}
		if i&4 != 0 {
			corner.Z = b.Max[2]
		}
		out = out.Extend(m.TransformPoint(corner))
	}
	return out
}
