package retarget

import (
	"errors"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrNoSkeleton is returned when Setup is given a nil skeleton.
	ErrNoSkeleton = errors.New("retarget requires both skeletons")

	// ErrNoSharedBones is returned when no canonical bone is mapped on both skeletons.
	ErrNoSharedBones = errors.New("no humanoid bone is mapped on both skeletons")

	// ErrAvatarJoint is returned when an Avatar references a joint its skeleton does not have.
	ErrAvatarJoint = errors.New("avatar joint index out of range")
)

// rig is the bind data of one side of a retarget.
type rig struct {
	skeleton *model.Skeleton
	avatar   Avatar
	bind     []model.Transform
	lengths  []float32
}

// newRig precomputes a skeleton's bind transforms and bone lengths.
// A joint's bone length is the bind-space distance to its first child; leaves and zero-length bones use 1.
func newRig(skeleton *model.Skeleton, avatar Avatar) (rig, error) {
	n := skeleton.JointCount()
	for bone, j := range avatar {
		if j >= n {
			return rig{}, fmt.Errorf("%w: %s -> %d of %d joints", ErrAvatarJoint, HumanoidBone(bone), j, n)
		}
	}
	r := rig{
		skeleton: skeleton,
		avatar:   avatar,
		bind:     make([]model.Transform, n),
		lengths:  make([]float32, n),
	}
	skeleton.BindPose(r.bind)

	local := make([]mgl32.Mat4, n)
	global := make([]mgl32.Mat4, n)
	model.PoseToMatrices(local, r.bind)
	skeleton.ComputeGlobalTransforms(local, global)

	for i := range n {
		r.lengths[i] = 1
		child := skeleton.FirstChild(i)
		if child < 0 {
			continue
		}
		if l := r3.Norm(r3.Sub(toR3(common.Position(global[child])), toR3(common.Position(global[i])))); l > float64(common.Epsilon) {
			r.lengths[i] = float32(l)
		}
	}
	return r, nil
}

func toR3(v mgl32.Vec3) r3.Vec {
	return r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

// retargeter is the implementation of the Retargeter interface.
type retargeter struct {
	source, target rig
	pairs          [][2]int
	setUp          bool

	hipsTranslationOnly bool
}

// Retargeter defines the interface for transcribing poses between two humanoid skeletons.
//
// For every canonical bone mapped on both skeletons, the source joint's offset from its own bind pose
// is carried onto the target joint's bind pose: rotations as inverse(sourceBind) * sourceAnimated
// applied after the target bind rotation, translations scaled by the ratio of bone lengths, and scale
// as a ratio to the source bind scale. Joints without a shared bone keep the target bind pose.
type Retargeter interface {
	// Setup precomputes both skeletons' bind poses and bone lengths and pairs their mapped joints.
	// On failure the Retargeter stays not set up and RetargetLocalPose is a no-op.
	//
	// Parameters:
	//   - source: the skeleton poses come from
	//   - sourceAvatar: the source bone mapping
	//   - target: the skeleton poses are written for
	//   - targetAvatar: the target bone mapping
	//
	// Returns:
	//   - error: ErrNoSkeleton, ErrAvatarJoint or ErrNoSharedBones
	Setup(source *model.Skeleton, sourceAvatar Avatar, target *model.Skeleton, targetAvatar Avatar) error

	// IsSetUp reports whether Setup succeeded.
	//
	// Returns:
	//   - bool: true if set up
	IsSetUp() bool

	// SharedBoneCount returns how many canonical bones are mapped on both skeletons.
	//
	// Returns:
	//   - int: the shared bone count
	SharedBoneCount() int

	// RetargetLocalPose writes the target-skeleton equivalent of a source local pose.
	//
	// Parameters:
	//   - src: the source local pose, one transform per source joint
	//   - out: the destination local pose, one transform per target joint
	RetargetLocalPose(src, out []model.Transform)
}

var _ Retargeter = &retargeter{}

// NewRetargeter creates a new Retargeter with the specified options applied.
// The result must be Setup before it has any effect.
//
// Parameters:
//   - options: a variadic list of RetargeterBuilderOption functions to configure the Retargeter
//
// Returns:
//   - Retargeter: a new instance of Retargeter configured with the provided options
func NewRetargeter(options ...RetargeterBuilderOption) Retargeter {
	r := &retargeter{}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *retargeter) Setup(source *model.Skeleton, sourceAvatar Avatar, target *model.Skeleton, targetAvatar Avatar) error {
	r.setUp = false
	r.pairs = r.pairs[:0]
	if source == nil || target == nil {
		return ErrNoSkeleton
	}

	var err error
	if r.source, err = newRig(source, sourceAvatar); err != nil {
		log.Printf("[Retarget] source setup failed: %v", err)
		return err
	}
	if r.target, err = newRig(target, targetAvatar); err != nil {
		log.Printf("[Retarget] target setup failed: %v", err)
		return err
	}

	for bone := range HumanoidBoneCount {
		s, t := sourceAvatar[bone], targetAvatar[bone]
		if s >= 0 && t >= 0 {
			r.pairs = append(r.pairs, [2]int{s, t})
		}
	}
	if len(r.pairs) == 0 {
		log.Printf("[Retarget] %v", ErrNoSharedBones)
		return ErrNoSharedBones
	}
	r.setUp = true
	return nil
}

func (r *retargeter) IsSetUp() bool {
	return r.setUp
}

func (r *retargeter) SharedBoneCount() int {
	return len(r.pairs)
}

func (r *retargeter) RetargetLocalPose(src, out []model.Transform) {
	if !r.setUp {
		return
	}
	copy(out, r.target.bind)
	hips := r.source.avatar[Hips]

	for _, p := range r.pairs {
		s, t := p[0], p[1]
		sb, tb := r.source.bind[s], r.target.bind[t]
		pose := src[s]

		delta := sb.Rotation.Inverse().Mul(pose.Rotation)
		out[t].Rotation = common.NormalizeQuat(tb.Rotation.Mul(delta))

		if !r.hipsTranslationOnly || s == hips {
			ratio := r.target.lengths[t] / r.source.lengths[s]
			out[t].Translation = tb.Translation.Add(pose.Translation.Sub(sb.Translation).Mul(ratio))
		}

		for k := range 3 {
			if sb.Scale[k] > common.Epsilon || sb.Scale[k] < -common.Epsilon {
				out[t].Scale[k] = tb.Scale[k] * pose.Scale[k] / sb.Scale[k]
			}
		}
	}
}
