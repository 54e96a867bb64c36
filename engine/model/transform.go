package model

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

// IdentityTransform returns the transform with zero translation, identity rotation and unit scale.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix composes the transform into a column-major T * R * S matrix.
//
// Returns:
//   - mgl32.Mat4: the local transform matrix
func (t Transform) Matrix() mgl32.Mat4 {
	return common.ComposeTRS(t.Translation, t.Rotation, t.Scale)
}

// BlendTransform interpolates two transforms: translation and scale are lerped, rotation is slerped.
//
// Parameters:
//   - a: the transform at t = 0
//   - b: the transform at t = 1
//   - t: the blend factor in [0, 1]
//
// Returns:
//   - Transform: the blended transform
func BlendTransform(a, b Transform, t float32) Transform {
	return Transform{
		Translation: common.LerpVec3(a.Translation, b.Translation, t),
		Rotation:    common.Slerp(a.Rotation, b.Rotation, t),
		Scale:       common.LerpVec3(a.Scale, b.Scale, t),
	}
}

// BlendPoses writes BlendTransform(a[i], b[i], t) into out for every joint. All slices must have the same length.
//
// Parameters:
//   - out: destination pose
//   - a: the pose at t = 0
//   - b: the pose at t = 1
//   - t: the blend factor, clamped to [0, 1]
func BlendPoses(out, a, b []Transform, t float32) {
	t = mgl32.Clamp(t, 0, 1)
	for i := range out {
		out[i] = BlendTransform(a[i], b[i], t)
	}
}

// ResetPose initializes out from base, or to identity transforms where base is shorter (or nil).
//
// Parameters:
//   - out: destination pose
//   - base: the base pose to copy, may be nil
func ResetPose(out, base []Transform) {
	n := copy(out, base)
	for i := n; i < len(out); i++ {
		out[i] = IdentityTransform()
	}
}

// PoseToMatrices composes every transform of a pose into its local matrix.
//
// Parameters:
//   - out: destination local matrices, same length as pose
//   - pose: the local TRS pose
func PoseToMatrices(out []mgl32.Mat4, pose []Transform) {
	for i := range out {
		out[i] = pose[i].Matrix()
	}
}
