package math

import "math"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	halfAngle := angle / 2
	s := float32(math.Sin(float64(halfAngle)))
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: float32(math.Cos(float64(halfAngle))),
	}
}

// QuatFromMat4 extracts the rotation of the upper-left 3x3 block.
// The block must be a pure rotation (orthonormal, unscaled).
func QuatFromMat4(m Mat4) Quat {
	m11, m12, m13 := m[0], m[4], m[8]
	m21, m22, m23 := m[1], m[5], m[9]
	m31, m32, m33 := m[2], m[6], m[10]

	trace := m11 + m22 + m33
	var q Quat
	switch {
	case trace > 0:
		s := 0.5 / sqrt32(trace+1)
		q = Quat{W: 0.25 / s, X: (m32 - m23) * s, Y: (m13 - m31) * s, Z: (m21 - m12) * s}
	case m11 > m22 && m11 > m33:
		s := 2 * sqrt32(1+m11-m22-m33)
		q = Quat{W: (m32 - m23) / s, X: 0.25 * s, Y: (m12 + m21) / s, Z: (m13 + m31) / s}
	case m22 > m33:
		s := 2 * sqrt32(1+m22-m11-m33)
		q = Quat{W: (m13 - m31) / s, X: (m12 + m21) / s, Y: 0.25 * s, Z: (m23 + m32) / s}
	default:
		s := 2 * sqrt32(1+m33-m11-m22)
		q = Quat{W: (m21 - m12) / s, X: (m13 + m31) / s, Y: (m23 + m32) / s, Z: 0.25 * s}
	}
	return q.Normalize()
}

// QuatLookRotation returns the world rotation of an object at eye whose local
// -Z axis points at target.
func QuatLookRotation(eye, target, up Vec3) Quat {
	f := target.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	if s.Length() == 0 {
		// Looking straight along up; pick any perpendicular right axis.
		s = f.Cross(Vec3{X: 0, Y: 0, Z: 1}).Normalize()
	}
	u := s.Cross(f)

	return QuatFromMat4(Mat4{
		s.X, s.Y, s.Z, 0,
		u.X, u.Y, u.Z, 0,
		-f.X, -f.Y, -f.Z, 0,
		0, 0, 0, 1,
	})
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// ApproxEqual reports whether q and other describe the same rotation within eps.
// q and -q are the same rotation.
func (q Quat) ApproxEqual(other Quat, eps float32) bool {
	return 1-abs32(q.Normalize().Dot(other.Normalize())) <= eps
}

// Slerp performs spherical linear interpolation between two quaternions.
// t should be in range [0, 1].
func (q Quat) Slerp(other Quat, t float32) Quat {
	dot := q.Dot(other)

	// Take the shorter path.
	if dot < 0 {
		other = Quat{X: -other.X, Y: -other.Y, Z: -other.Z, W: -other.W}
		dot = -dot
	}

	// Nearly parallel: fall back to normalized lerp.
	if dot > 0.9995 {
		return Quat{
			X: q.X + t*(other.X-q.X),
			Y: q.Y + t*(other.Y-q.Y),
			Z: q.Z + t*(other.Z-q.Z),
			W: q.W + t*(other.W-q.W),
		}.Normalize()
	}

	theta0 := float32(math.Acos(float64(dot)))
	theta := theta0 * t
	sinTheta := float32(math.Sin(float64(theta)))
	sinTheta0 := float32(math.Sin(float64(theta0)))

	s0 := float32(math.Cos(float64(theta))) - dot*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0

	return Quat{
		X: q.X*s0 + other.X*s1,
		Y: q.Y*s0 + other.Y*s1,
		Z: q.Z*s0 + other.Z*s1,
		W: q.W*s0 + other.W*s1,
	}
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()

	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	return q.ToMat4().TransformPoint(v)
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}
