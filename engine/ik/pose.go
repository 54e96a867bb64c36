package ik

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrJointNotFound is returned by Setup calls when a named joint is missing from the skeleton.
var ErrJointNotFound = errors.New("joint not found")

// Pose is the pose state IK reads and rewrites: local TRS transforms plus their local and
// model-space matrices. Global must be current for Local before a solve; every rotation a solver
// writes is followed by a forward-kinematics refresh so it stays current.
type Pose struct {
	Skeleton      *model.Skeleton
	Local         []model.Transform
	LocalMatrices []mgl32.Mat4
	Global        []mgl32.Mat4
}

// Position returns a joint's model-space position.
//
// Parameters:
//   - joint: the joint index
//
// Returns:
//   - mgl32.Vec3: the position
func (p *Pose) Position(joint int) mgl32.Vec3 {
	return common.Position(p.Global[joint])
}

// parentRotation returns the model-space rotation of a joint's parent, or identity for roots.
func (p *Pose) parentRotation(joint int) mgl32.Quat {
	if parent := p.Skeleton.Joints[joint].ParentIndex; parent >= 0 {
		return common.RotationFromMatrix(p.Global[parent])
	}
	return mgl32.QuatIdent()
}

// rotate applies a model-space rotation delta to a joint and refreshes forward kinematics from it.
func (p *Pose) rotate(joint int, delta mgl32.Quat) {
	p.Local[joint].Rotation = common.WorldToLocalRotation(delta, p.parentRotation(joint), p.Local[joint].Rotation)
	p.LocalMatrices[joint] = p.Local[joint].Matrix()
	p.Skeleton.UpdateGlobalTransformsFrom(joint, p.LocalMatrices, p.Global)
}

// findJoints resolves joint names, reporting every missing one.
func findJoints(skel *model.Skeleton, names ...string) ([]int, error) {
	indices := make([]int, len(names))
	var errs []error
	for i, name := range names {
		indices[i] = skel.FindJointIndex(name)
		if indices[i] < 0 {
			errs = append(errs, fmt.Errorf("%w: %q", ErrJointNotFound, name))
		}
	}
	return indices, errors.Join(errs...)
}
