package math

import (
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformPoint(Vec3{1, 2, 3})
	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}
}

func TestComposeScalesBeforeTranslating(t *testing.T) {
	m := Compose(Vec3{10, 0, 0}, QuatIdentity(), Vec3{2, 2, 2})
	got := m.TransformPoint(Vec3{1, 1, 1})
	want := Vec3{12, 2, 2}
	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Compose: got %v, want %v", got, want)
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(1, 2, 3).Transpose()
	if m[3] != 1 || m[7] != 2 || m[11] != 3 {
		t.Errorf("Transpose moved translation to %v", m)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := Compose(Vec3{3, -4, 5}, QuatFromAxisAngle(Vec3{0, 1, 0}, 0.7), Vec3{2, 2, 2})
	p := Vec3{1, 2, 3}
	got := m.Inverse().TransformPoint(m.TransformPoint(p))
	if !got.ApproxEqual(p, 1e-4) {
		t.Errorf("inverse round trip: got %v, want %v", got, p)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(1.0, 1.5, 0.1, 100)
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{0, 0, 5}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})
	got := m.TransformPoint(eye)
	if !got.ApproxEqual(Vec3{}, 1e-5) {
		t.Errorf("LookAt should map eye to origin, got %v", got)
	}
}
