package blend_stack

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

const (
	// MaxLayers is the number of layer slots in a BlendStack.
	MaxLayers = 8

	// MaxJointGroups is the number of joint groups a layer mask can address.
	MaxJointGroups = 32

	// AllGroups is the layer mask that includes every joint group.
	AllGroups uint32 = 0xFFFFFFFF
)

var (
	// ErrLayerIndex is returned for a layer index outside [0, MaxLayers).
	ErrLayerIndex = errors.New("layer index out of range")

	// ErrJointGroup is returned for a joint group outside [0, MaxJointGroups).
	ErrJointGroup = errors.New("joint group out of range")
)

// BlendMode selects how a layer composites onto the layers below it.
type BlendMode int

const (
	// BlendModeOverride interpolates from the pose below toward the layer's pose by the layer weight.
	BlendModeOverride BlendMode = iota

	// BlendModeAdditive adds the layer's offset from the bind pose, scaled by the layer weight.
	BlendModeAdditive
)

// String returns the name of the blend mode.
func (m BlendMode) String() string {
	switch m {
	case BlendModeOverride:
		return "override"
	case BlendModeAdditive:
		return "additive"
	default:
		return "unknown"
	}
}

// Layer is one slot of a BlendStack. A layer without a clip is inactive.
type Layer struct {
	// State is the layer's clip and its playback time, speed and loop flag.
	State model.ClipState

	// Weight is the layer's influence. Override layers clamp it to 1; additive layers scale their delta by it.
	Weight float32

	// Mode is how the layer composites.
	Mode BlendMode

	// GroupMask selects the joint groups the layer affects: bit g includes group g.
	GroupMask uint32
}

// Active reports whether the layer has a clip to play.
//
// Returns:
//   - bool: true if the layer has a clip
func (l *Layer) Active() bool {
	return l.State.Clip != nil
}

// includes reports whether the mask gates in the given joint group.
func (l *Layer) includes(group uint8) bool {
	return l.GroupMask&(1<<group) != 0
}
