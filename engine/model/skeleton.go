package model

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxJoints is the largest skeleton the bone palette can carry to the GPU.
const MaxJoints = 128

var (
	// ErrJointOrder is returned when a joint's parent does not precede it.
	ErrJointOrder = errors.New("joints are not in parent-before-child order")

	// ErrTooManyJoints is returned when a skeleton exceeds MaxJoints.
	ErrTooManyJoints = errors.New("skeleton exceeds the maximum joint count")
)

// Skeleton is a joint hierarchy stored as a flat, topologically ordered array.
// Parent links are indices into the same array, so one forward pass resolves global transforms.
// A Skeleton is immutable after NewSkeleton and may be shared by any number of entities.
type Skeleton struct {
	// Joints is the array of all joints, parents before children.
	Joints []Joint

	// RootJointIndices are indices of joints with no parent.
	RootJointIndices []int
}

// NewSkeleton validates the joint ordering and builds a Skeleton.
//
// Parameters:
//   - joints: the joint list, parents before children
//
// Returns:
//   - *Skeleton: the skeleton
//   - error: ErrJointOrder or ErrTooManyJoints when the input is unusable
func NewSkeleton(joints []Joint) (*Skeleton, error) {
	if len(joints) > MaxJoints {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyJoints, len(joints), MaxJoints)
	}
	s := &Skeleton{Joints: joints}
	for i, j := range joints {
		if j.ParentIndex >= i || j.ParentIndex < -1 {
			return nil, fmt.Errorf("%w: joint %d (%q) has parent %d", ErrJointOrder, i, j.Name, j.ParentIndex)
		}
		if j.ParentIndex < 0 {
			s.RootJointIndices = append(s.RootJointIndices, i)
		}
	}
	return s, nil
}

// JointCount returns the number of joints in the skeleton.
//
// Returns:
//   - int: the joint count
func (s *Skeleton) JointCount() int {
	return len(s.Joints)
}

// FindJointIndex returns the index of the joint with the given name, or -1 if none matches.
// This is a linear search intended for setup time only.
//
// Parameters:
//   - name: the joint name
//
// Returns:
//   - int: the joint index, or -1
func (s *Skeleton) FindJointIndex(name string) int {
	for i := range s.Joints {
		if s.Joints[i].Name == name {
			return i
		}
	}
	return -1
}

// FirstChild returns the index of the first joint whose parent is the given joint, or -1 for leaves.
//
// Parameters:
//   - index: the parent joint index
//
// Returns:
//   - int: the first child index, or -1
func (s *Skeleton) FirstChild(index int) int {
	for i := index + 1; i < len(s.Joints); i++ {
		if s.Joints[i].ParentIndex == index {
			return i
		}
	}
	return -1
}

// BindPose copies every joint's local bind transform into out, which must hold JointCount elements.
//
// Parameters:
//   - out: destination pose
func (s *Skeleton) BindPose(out []Transform) {
	for i := range s.Joints {
		out[i] = s.Joints[i].LocalBind
	}
}

// ComputeGlobalTransforms resolves model-space transforms from local matrices in one forward pass.
// global[i] = global[parent] * local[i], with roots taking their local matrix as-is.
//
// Parameters:
//   - local: local joint matrices, JointCount elements
//   - global: destination model-space matrices, JointCount elements
func (s *Skeleton) ComputeGlobalTransforms(local, global []mgl32.Mat4) {
	s.UpdateGlobalTransformsFrom(0, local, global)
}

// UpdateGlobalTransformsFrom recomputes global transforms for joint start and every later joint.
// Earlier joints must already hold valid global transforms.
//
// Parameters:
//   - start: the first joint to recompute
//   - local: local joint matrices
//   - global: model-space matrices, updated in place
func (s *Skeleton) UpdateGlobalTransformsFrom(start int, local, global []mgl32.Mat4) {
	for i := start; i < len(s.Joints); i++ {
		if p := s.Joints[i].ParentIndex; p >= 0 {
			global[i] = global[p].Mul4(local[i])
		} else {
			global[i] = local[i]
		}
	}
}

// ComputeBoneMatrices produces skinning matrices: bone[i] = global[i] * inverseBind[i].
// In column-vector form this is the transpose of the row-vector product inverseBind * global,
// stored column-major as WGSL mat4x4<f32> expects.
//
// Parameters:
//   - global: model-space joint matrices
//   - out: destination skinning matrices
func (s *Skeleton) ComputeBoneMatrices(global, out []mgl32.Mat4) {
	for i := range s.Joints {
		out[i] = global[i].Mul4(s.Joints[i].InverseBindMatrix)
	}
}

// InverseBindFromPose fills every joint's InverseBindMatrix from its local bind transforms.
// Importers usually provide inverse bind matrices; this is for skeletons assembled by hand.
func (s *Skeleton) InverseBindFromPose() {
	local := make([]mgl32.Mat4, len(s.Joints))
	global := make([]mgl32.Mat4, len(s.Joints))
	for i := range s.Joints {
		local[i] = s.Joints[i].LocalBind.Matrix()
	}
	s.ComputeGlobalTransforms(local, global)
	for i := range s.Joints {
		s.Joints[i].InverseBindMatrix = global[i].Inv()
	}
}
