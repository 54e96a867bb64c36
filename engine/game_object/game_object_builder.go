package game_object

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithEnabled sets whether the GameObject is updated by its Scene.
//
// Parameters:
//   - enabled: true to update the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithModel sets the Model for this GameObject. An attached Animator without a skeleton
// is pointed at the Model's skeleton.
//
// Parameters:
//   - m: the Model to associate
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Model
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mdl = m
	}
}

// WithAnimator sets the Animator for this GameObject.
//
// Parameters:
//   - anim: the Animator that drives this object's pose
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Animator
func WithAnimator(anim animator.Animator) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.animator = anim
	}
}

// WithPosition sets the world position of the GameObject.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = mgl32.Vec3{x, y, z}
	}
}

// WithYaw sets the rotation of the GameObject about the world +Y axis.
//
// Parameters:
//   - yaw: the rotation in radians
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the yaw
func WithYaw(yaw float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.yaw = yaw
	}
}

// WithScale sets the uniform scale of the GameObject. Non-positive values are ignored.
//
// Parameters:
//   - scale: the scale factor
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(scale float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		if scale > 0 {
			obj.scale = scale
		}
	}
}
