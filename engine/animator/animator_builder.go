package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/blend_stack"
	"github.com/Carmen-Shannon/oxy-anim/engine/ik"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/state_machine"
)

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithSkeleton is an option builder that sets the skeleton to animate.
//
// Parameters:
//   - skeleton: the skeleton
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the skeleton option to an animator
func WithSkeleton(skeleton *model.Skeleton) AnimatorBuilderOption {
	return func(a *animator) {
		a.skeleton = skeleton
	}
}

// WithModel is an option builder that animates a Model's skeleton.
//
// Parameters:
//   - m: the Model whose skeleton is animated
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the model option to an animator
func WithModel(m model.Model) AnimatorBuilderOption {
	return func(a *animator) {
		if m != nil {
			a.skeleton = m.Skeleton()
		}
	}
}

// WithBlendStack is an option builder that starts the Animator in ModeBlendStack.
//
// Parameters:
//   - stack: the blend stack to delegate to
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the blend stack option to an animator
func WithBlendStack(stack blend_stack.BlendStack) AnimatorBuilderOption {
	return func(a *animator) {
		a.setBlendStack(stack)
	}
}

// WithStateMachine is an option builder that starts the Animator in ModeStateMachine.
//
// Parameters:
//   - machine: the state machine to delegate to
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the state machine option to an animator
func WithStateMachine(machine state_machine.StateMachine) AnimatorBuilderOption {
	return func(a *animator) {
		a.setStateMachine(machine)
	}
}

// WithFootIK is an option builder that attaches foot grounding.
//
// Parameters:
//   - footIK: a FootIK set up against the animated skeleton
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the foot IK option to an animator
func WithFootIK(footIK ik.FootIK) AnimatorBuilderOption {
	return func(a *animator) {
		a.footIK = footIK
	}
}

// WithLookAtIK is an option builder that attaches look-at.
//
// Parameters:
//   - lookAtIK: a LookAtIK set up against the animated skeleton
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the look-at option to an animator
func WithLookAtIK(lookAtIK ik.LookAtIK) AnimatorBuilderOption {
	return func(a *animator) {
		a.lookAtIK = lookAtIK
	}
}

// WithRootLock is an option builder that pins the root joint's X/Z translation and/or rotation to bind.
//
// Parameters:
//   - position: whether X/Z translation is locked
//   - rotation: whether rotation is locked
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the root lock option to an animator
func WithRootLock(position, rotation bool) AnimatorBuilderOption {
	return func(a *animator) {
		a.lockPosition, a.lockRotation = position, rotation
	}
}

// WithRootJoint is an option builder that names the joint the root lock applies to.
// Without it the first root joint of the skeleton is used.
//
// Parameters:
//   - name: the joint name
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the root joint option to an animator
func WithRootJoint(name string) AnimatorBuilderOption {
	return func(a *animator) {
		a.rootJointName = name
	}
}

// WithSpeed is an option builder that sets the playback speed multiplier.
//
// Parameters:
//   - speed: the multiplier
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the speed option to an animator
func WithSpeed(speed float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.speed = speed
	}
}
