package mathutil

import "math"

// Quat represents a unit quaternion (x, y, z, w).
type Quat [4]float64

// QuatIdentity is the no-rotation quaternion.
var QuatIdentity = Quat{0, 0, 0, 1}

// QuatFromAxisAngle builds a rotation of angle radians around a unit axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	s := math.Sin(angle * 0.5)
	return Quat{axis[0] * s, axis[1] * s, axis[2] * s, math.Cos(angle * 0.5)}
}

// QuatFromEulerYXZ converts intrinsic Euler angles (radians) applied in Y, X, Z order.
// This is the order used for device orientation: heading, then pitch, then roll.
func QuatFromEulerYXZ(x, y, z float64) Quat {
	c1, s1 := math.Cos(x*0.5), math.Sin(x*0.5)
	c2, s2 := math.Cos(y*0.5), math.Sin(y*0.5)
	c3, s3 := math.Cos(z*0.5), math.Sin(z*0.5)

	return Quat{
		s1*c2*c3 + c1*s2*s3, // x
		c1*s2*c3 - s1*c2*s3, // y
		c1*c2*s3 - s1*s2*c3, // z
		c1*c2*c3 + s1*s2*s3, // w
	}
}

// Mul returns a*b (apply b first, then a).
func (a Quat) Mul(b Quat) Quat {
	ax, ay, az, aw := a[0], a[1], a[2], a[3]
	bx, by, bz, bw := b[0], b[1], b[2], b[3]

	return Quat{
		ax*bw + aw*bx + ay*bz - az*by,
		ay*bw + aw*by + az*bx - ax*bz,
		az*bw + aw*bz + ax*by - ay*bx,
		aw*bw - ax*bx - ay*by - az*bz,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	qx, qy, qz, qw := q[0], q[1], q[2], q[3]

	tx := 2 * (qy*v[2] - qz*v[1])
	ty := 2 * (qz*v[0] - qx*v[2])
	tz := 2 * (qx*v[1] - qy*v[0])

	return Vec3{
		v[0] + qw*tx + qy*tz - qz*ty,
		v[1] + qw*ty + qz*tx - qx*tz,
		v[2] + qw*tz + qx*ty - qy*tx,
	}
}

// Normalize rescales q to unit length.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if l < 1e-12 {
		return QuatIdentity
	}
	return Quat{q[0] / l, q[1] / l, q[2] / l, q[3] / l}
}
