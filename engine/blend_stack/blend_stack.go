package blend_stack

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// blendStack is the implementation of the BlendStack interface.
type blendStack struct {
	layers  [MaxLayers]Layer
	groups  []uint8
	scratch []model.Transform
}

// BlendStack defines the interface for layered clip composition.
//
// A BlendStack holds up to MaxLayers layers applied in ascending index order on top of the bind
// pose, so higher layers composite over lower ones. Typical use is a full-body locomotion layer at
// index 0 and a masked upper-body layer above it. Each joint belongs to one of 32 joint groups and
// each layer's mask selects the groups it touches.
//
// A BlendStack is per-entity runtime state and is not safe for concurrent use.
type BlendStack interface {
	// SetLayer fills a layer slot with a clip, starting it from time zero at speed 1.
	// The layer's mask is reset to AllGroups.
	//
	// Parameters:
	//   - index: the layer slot in [0, MaxLayers)
	//   - clip: the clip to play, nil clears the layer
	//   - mode: how the layer composites
	//   - weight: the layer's influence
	//   - loop: whether the clip loops
	//
	// Returns:
	//   - error: ErrLayerIndex if the index is out of range
	SetLayer(index int, clip *model.AnimationClip, mode BlendMode, weight float32, loop bool) error

	// Layer returns a pointer to a layer slot for direct adjustment, or nil for an out-of-range index.
	//
	// Parameters:
	//   - index: the layer slot
	//
	// Returns:
	//   - *Layer: the layer or nil
	Layer(index int) *Layer

	// SetWeight sets a layer's weight. No-op for an out-of-range index.
	//
	// Parameters:
	//   - index: the layer slot
	//   - weight: the new weight
	SetWeight(index int, weight float32)

	// SetMask sets a layer's joint group mask. No-op for an out-of-range index.
	//
	// Parameters:
	//   - index: the layer slot
	//   - mask: bit g includes joint group g
	SetMask(index int, mask uint32)

	// SetSpeed sets a layer's playback speed. No-op for an out-of-range index.
	//
	// Parameters:
	//   - index: the layer slot
	//   - speed: the speed multiplier, negative plays backwards
	SetSpeed(index int, speed float32)

	// ClearLayer removes a layer's clip, making it inactive.
	//
	// Parameters:
	//   - index: the layer slot
	ClearLayer(index int)

	// ActiveLayerCount returns the number of layers holding a clip.
	//
	// Returns:
	//   - int: the active layer count
	ActiveLayerCount() int

	// SetJointGroup assigns one joint to a joint group. Joints start in group 0.
	//
	// Parameters:
	//   - joint: the joint index
	//   - group: the group in [0, MaxJointGroups)
	//
	// Returns:
	//   - error: ErrJointGroup for an invalid group, or an error for an invalid joint
	SetJointGroup(joint, group int) error

	// SetJointGroupRecursive assigns a joint and all of its descendants to a joint group.
	//
	// Parameters:
	//   - skeleton: the skeleton the joint indices refer to
	//   - joint: the subtree root joint index
	//   - group: the group in [0, MaxJointGroups)
	//
	// Returns:
	//   - error: ErrJointGroup for an invalid group, or an error for an invalid joint
	SetJointGroupRecursive(skeleton *model.Skeleton, joint, group int) error

	// JointGroup returns the group a joint belongs to, or -1 for an invalid joint.
	//
	// Parameters:
	//   - joint: the joint index
	//
	// Returns:
	//   - int: the joint group
	JointGroup(joint int) int

	// Resize sizes the per-joint buffers for a skeleton's joint count.
	// Existing group assignments are kept for joints that still exist.
	//
	// Parameters:
	//   - jointCount: the joint count
	Resize(jointCount int)

	// Update advances every active layer by dt and composites them onto the bind pose into out.
	// Layers at weight zero or below keep advancing but contribute nothing.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//   - bind: the skeleton's bind pose
	//   - out: destination pose, same length as bind
	Update(dt float32, bind, out []model.Transform)
}

var _ BlendStack = &blendStack{}

// NewBlendStack creates a new BlendStack with the specified options applied.
// All layers start empty.
//
// Parameters:
//   - options: a variadic list of BlendStackBuilderOption functions to configure the BlendStack
//
// Returns:
//   - BlendStack: a new instance of BlendStack configured with the provided options
func NewBlendStack(options ...BlendStackBuilderOption) BlendStack {
	b := &blendStack{}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *blendStack) SetLayer(index int, clip *model.AnimationClip, mode BlendMode, weight float32, loop bool) error {
	if index < 0 || index >= MaxLayers {
		return fmt.Errorf("%w: %d", ErrLayerIndex, index)
	}
	b.layers[index] = Layer{
		State:     model.ClipState{Clip: clip, Speed: 1, Loop: loop},
		Weight:    weight,
		Mode:      mode,
		GroupMask: AllGroups,
	}
	return nil
}

func (b *blendStack) Layer(index int) *Layer {
	if index < 0 || index >= MaxLayers {
		return nil
	}
	return &b.layers[index]
}

func (b *blendStack) SetWeight(index int, weight float32) {
	if l := b.Layer(index); l != nil {
		l.Weight = weight
	}
}

func (b *blendStack) SetMask(index int, mask uint32) {
	if l := b.Layer(index); l != nil {
		l.GroupMask = mask
	}
}

func (b *blendStack) SetSpeed(index int, speed float32) {
	if l := b.Layer(index); l != nil {
		l.State.Speed = speed
	}
}

func (b *blendStack) ClearLayer(index int) {
	if l := b.Layer(index); l != nil {
		*l = Layer{}
	}
}

func (b *blendStack) ActiveLayerCount() int {
	n := 0
	for i := range b.layers {
		if b.layers[i].Active() {
			n++
		}
	}
	return n
}

func (b *blendStack) SetJointGroup(joint, group int) error {
	if group < 0 || group >= MaxJointGroups {
		return fmt.Errorf("%w: %d", ErrJointGroup, group)
	}
	if joint < 0 || joint >= len(b.groups) {
		return fmt.Errorf("joint %d out of range for %d joints", joint, len(b.groups))
	}
	b.groups[joint] = uint8(group)
	return nil
}

func (b *blendStack) SetJointGroupRecursive(skeleton *model.Skeleton, joint, group int) error {
	if skeleton == nil || joint < 0 || joint >= len(skeleton.Joints) {
		return fmt.Errorf("joint %d out of range for the skeleton", joint)
	}
	if err := b.SetJointGroup(joint, group); err != nil {
		return err
	}
	// Topological order means every descendant follows its ancestor, so one forward scan finds the subtree.
	inSubtree := make([]bool, len(skeleton.Joints))
	inSubtree[joint] = true
	for i := joint + 1; i < len(skeleton.Joints) && i < len(b.groups); i++ {
		if p := skeleton.Joints[i].ParentIndex; p >= 0 && inSubtree[p] {
			inSubtree[i] = true
			b.groups[i] = uint8(group)
		}
	}
	return nil
}

func (b *blendStack) JointGroup(joint int) int {
	if joint < 0 || joint >= len(b.groups) {
		return -1
	}
	return int(b.groups[joint])
}

func (b *blendStack) Resize(jointCount int) {
	b.groups = common.Resize(b.groups, jointCount)
	b.scratch = common.Resize(b.scratch, jointCount)
}

func (b *blendStack) Update(dt float32, bind, out []model.Transform) {
	model.ResetPose(out, bind)
	if len(b.scratch) < len(out) {
		b.Resize(len(out))
	}
	pose := b.scratch[:len(out)]

	for i := range b.layers {
		l := &b.layers[i]
		if !l.Active() {
			continue
		}
		l.State.Advance(dt)
		if l.Weight <= 0 {
			continue
		}
		l.State.Sample(pose, bind)

		for j := range out {
			if !l.includes(b.groups[j]) {
				continue
			}
			switch l.Mode {
			case BlendModeAdditive:
				out[j] = addTransform(out[j], pose[j], bind[j], l.Weight)
			default:
				out[j] = model.BlendTransform(out[j], pose[j], min(l.Weight, 1))
			}
		}
	}
}

// addTransform applies the layer pose's offset from the bind pose onto current, scaled by w.
// Rotation offsets compose as current * slerp(identity, inverse(bind) * layer, w).
func addTransform(current, layer, bind model.Transform, w float32) model.Transform {
	return model.Transform{
		Translation: current.Translation.Add(layer.Translation.Sub(bind.Translation).Mul(w)),
		Rotation:    common.NormalizeQuat(current.Rotation.Mul(scaleRotation(bind.Rotation.Inverse().Mul(layer.Rotation), w))),
		Scale:       current.Scale.Add(layer.Scale.Sub(bind.Scale).Mul(w)),
	}
}

// scaleRotation scales the angle of a rotation by w along the shortest arc, extrapolating for w > 1.
func scaleRotation(q mgl32.Quat, w float32) mgl32.Quat {
	q = common.NormalizeQuat(q)
	if q.W < 0 {
		q = mgl32.Quat{W: -q.W, V: q.V.Mul(-1)}
	}
	axis, ok := common.SafeNormalize(q.V)
	if !ok {
		return mgl32.QuatIdent()
	}
	angle := 2 * float32(math.Acos(float64(mgl32.Clamp(q.W, -1, 1))))
	return mgl32.QuatRotate(angle*w, axis)
}
