package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Epsilon is the general guard used before dividing by a length, weight sum or time span.
	Epsilon float32 = 1e-6

	// AngleEpsilon is the smallest rotation angle (radians) worth applying. Smaller swings are skipped.
	AngleEpsilon float32 = 1e-5
)

// Position extracts the translation column of a column-major transform matrix.
//
// Parameters:
//   - m: the transform matrix
//
// Returns:
//   - mgl32.Vec3: the translation component
func Position(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m[12], m[13], m[14]}
}

// RotationFromMatrix extracts the rotation of a transform matrix that may carry scale.
// The three basis columns are normalized before conversion so scaled parents do not skew the result.
// A degenerate basis (any zero-length column) yields the identity rotation.
//
// Parameters:
//   - m: the transform matrix
//
// Returns:
//   - mgl32.Quat: the unit rotation quaternion
func RotationFromMatrix(m mgl32.Mat4) mgl32.Quat {
	x, okX := SafeNormalize(mgl32.Vec3{m[0], m[1], m[2]})
	y, okY := SafeNormalize(mgl32.Vec3{m[4], m[5], m[6]})
	z, okZ := SafeNormalize(mgl32.Vec3{m[8], m[9], m[10]})
	if !okX || !okY || !okZ {
		return mgl32.QuatIdent()
	}
	r := mgl32.Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		0, 0, 0, 1,
	}
	return NormalizeQuat(mgl32.Mat4ToQuat(r))
}

// SafeNormalize normalizes v, reporting false instead of producing NaN when v is (near) zero length.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - mgl32.Vec3: the unit vector, or the zero vector when v is degenerate
//   - bool: true if v could be normalized
func SafeNormalize(v mgl32.Vec3) (mgl32.Vec3, bool) {
	l := v.Len()
	if l < Epsilon || math.IsNaN(float64(l)) {
		return mgl32.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// NormalizeQuat returns q scaled to unit length, falling back to identity for a zero or non-finite quaternion.
//
// Parameters:
//   - q: the quaternion to normalize
//
// Returns:
//   - mgl32.Quat: the unit quaternion
func NormalizeQuat(q mgl32.Quat) mgl32.Quat {
	l := q.Len()
	if l < Epsilon || math.IsNaN(float64(l)) || math.IsInf(float64(l), 0) {
		return mgl32.QuatIdent()
	}
	return mgl32.Quat{W: q.W / l, V: q.V.Mul(1 / l)}
}

// Slerp interpolates between two unit quaternions along the shortest arc and always returns a unit quaternion.
// t is clamped to [0, 1].
//
// Parameters:
//   - a: the start rotation
//   - b: the end rotation
//   - t: the interpolation factor
//
// Returns:
//   - mgl32.Quat: the interpolated unit rotation
func Slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	if t <= 0 {
		return NormalizeQuat(a)
	}
	if t >= 1 {
		return NormalizeQuat(b)
	}
	return NormalizeQuat(mgl32.QuatSlerp(a, b, t))
}

// LerpVec3 linearly interpolates between two vectors.
//
// Parameters:
//   - a: the start vector
//   - b: the end vector
//   - t: the interpolation factor
//
// Returns:
//   - mgl32.Vec3: a + (b - a) * t
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{
		a[0] + t*(b[0]-a[0]),
		a[1] + t*(b[1]-a[1]),
		a[2] + t*(b[2]-a[2]),
	}
}

// ComposeTRS builds a column-major transform matrix T * R * S.
//
// Parameters:
//   - t: the translation
//   - r: the rotation
//   - s: the scale
//
// Returns:
//   - mgl32.Mat4: the composed matrix
func ComposeTRS(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	m := NormalizeQuat(r).Mat4()
	for i := 0; i < 3; i++ {
		m[i] *= s[0]
		m[4+i] *= s[1]
		m[8+i] *= s[2]
	}
	m[12], m[13], m[14] = t[0], t[1], t[2]
	return m
}

// SwingBetween computes the rotation axis and angle that swings direction from onto direction to.
// It reports false for degenerate inputs (zero-length directions, near-zero angle or a near-zero axis),
// in which case the caller should skip the rotation.
//
// Parameters:
//   - from: the current direction
//   - to: the desired direction
//
// Returns:
//   - mgl32.Vec3: the unit rotation axis
//   - float32: the rotation angle in radians
//   - bool: true if a usable rotation was found
func SwingBetween(from, to mgl32.Vec3) (mgl32.Vec3, float32, bool) {
	f, okF := SafeNormalize(from)
	d, okD := SafeNormalize(to)
	if !okF || !okD {
		return mgl32.Vec3{}, 0, false
	}
	cos := mgl32.Clamp(f.Dot(d), -1, 1)
	angle := float32(math.Acos(float64(cos)))
	if angle < AngleEpsilon {
		return mgl32.Vec3{}, 0, false
	}
	axis, ok := SafeNormalize(f.Cross(d))
	if !ok {
		return mgl32.Vec3{}, 0, false
	}
	return axis, angle, true
}

// WorldToLocalRotation applies a world-space rotation delta to a joint whose parent has the given
// global rotation, returning the joint's new local rotation: inverse(parent) * delta * parent * local.
//
// Parameters:
//   - delta: the world-space rotation to apply
//   - parent: the parent joint's global rotation (identity for roots)
//   - local: the joint's current local rotation
//
// Returns:
//   - mgl32.Quat: the new unit local rotation
func WorldToLocalRotation(delta, parent, local mgl32.Quat) mgl32.Quat {
	return NormalizeQuat(parent.Inverse().Mul(delta).Mul(parent).Mul(local))
}
