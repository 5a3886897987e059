package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	n := Quat{X: 1, Y: 2, Z: 3, W: 4}.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatSlerp(t *testing.T) {
	q1 := QuatIdentity()
	q2 := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	if !q1.Slerp(q2, 0).ApproxEqual(q1, 1e-4) {
		t.Errorf("Slerp at t=0 should equal q1")
	}
	if !q1.Slerp(q2, 1).ApproxEqual(q2, 1e-4) {
		t.Errorf("Slerp at t=1 should equal q2")
	}

	half := q1.Slerp(q2, 0.5)
	expectedW := float32(math.Cos(float64(math.Pi / 8)))
	if math.Abs(float64(half.W-expectedW)) > 0.01 {
		t.Errorf("Slerp at t=0.5: expected W ~%v, got %v", expectedW, half.W)
	}
}

func TestQuatFromMat4RoundTrip(t *testing.T) {
	tests := []Quat{
		QuatIdentity(),
		QuatFromAxisAngle(Vec3{0, 1, 0}, 2.5),
		QuatFromAxisAngle(Vec3{1, 0, 0}, -1.2),
		QuatFromAxisAngle(Vec3{0, 0, 1}, 3.1),
		QuatFromAxisAngle(Vec3{1, 1, 0}.Normalize(), 1.9),
	}
	for _, q := range tests {
		got := QuatFromMat4(q.ToMat4())
		if !got.ApproxEqual(q, 1e-5) {
			t.Errorf("QuatFromMat4(%v.ToMat4()) = %v", q, got)
		}
	}
}

func TestQuatLookRotation(t *testing.T) {
	// Looking from +Z towards the origin is the identity orientation.
	q := QuatLookRotation(Vec3{0, 0, 10}, Vec3{}, Vec3{0, 1, 0})
	if !q.ApproxEqual(QuatIdentity(), 1e-5) {
		t.Errorf("expected identity, got %v", q)
	}

	// The rotated -Z axis must point at the target.
	eye := Vec3{30, 40, -20}
	target := Vec3{5, 0, 5}
	q = QuatLookRotation(eye, target, Vec3{0, 1, 0})
	forward := q.Rotate(Vec3{0, 0, -1})
	want := target.Sub(eye).Normalize()
	if !forward.ApproxEqual(want, 1e-4) {
		t.Errorf("forward = %v, want %v", forward, want)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestVec3Lerp(t *testing.T) {
	got := Vec3{0, 0, 0}.Lerp(Vec3{10, 20, 30}, 0.5)
	if !got.ApproxEqual(Vec3{5, 10, 15}, 1e-5) {
		t.Errorf("Lerp = %v", got)
	}
}

func TestVec3Cross(t *testing.T) {
	got := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}
