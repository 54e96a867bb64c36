package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// AnimatorMode identifies what produces an Animator's local pose each frame.
type AnimatorMode int

const (
	// ModeSimple plays one clip at a time with optional cross-fades.
	ModeSimple AnimatorMode = iota

	// ModeBlendStack delegates to an attached blend_stack.BlendStack.
	ModeBlendStack

	// ModeStateMachine delegates to an attached state_machine.StateMachine.
	ModeStateMachine
)

// String returns the name of the mode.
func (m AnimatorMode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	case ModeBlendStack:
		return "blend_stack"
	case ModeStateMachine:
		return "state_machine"
	default:
		return "unknown"
	}
}

// poseSource is a delegate that produces the local pose in the blend stack and state machine modes.
type poseSource interface {
	Update(dt float32, base, out []model.Transform)
	Resize(jointCount int)
}

// Snapshot is a detached copy of an Animator's pose buffers, safe to keep across updates.
type Snapshot struct {
	Mode AnimatorMode

	// Clip and Time describe simple-mode playback; Clip is empty in the other modes.
	Clip string
	Time float32

	Local  []model.Transform
	Global []mgl32.Mat4
	Bones  []mgl32.Mat4
}
