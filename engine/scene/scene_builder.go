package scene

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/ik"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is advanced by Update.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithGround sets the world-space ground query that objects' FootIK is wired to on Add.
// Apply it before WithObjects so the initial objects are wired too.
//
// Parameters:
//   - ground: the ground query
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithGround(ground ik.GroundFunc) SceneBuilderOption {
	return func(s *scene) {
		s.ground = ground
	}
}

// WithObjects adds initial objects to the scene.
// Objects without IDs will be assigned new IDs.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			s.add(obj)
		}
	}
}

// WithWorkers sets the number of worker goroutines Update fans entities out to.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.updateWorkers = n
	}
}

// WithProfiling attaches a Profiler that records each Update and logs a summary every second.
//
// Parameters:
//   - enabled: true to profile updates
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithProfiling(enabled bool) SceneBuilderOption {
	return func(s *scene) {
		if !enabled {
			s.profiler = nil
			return
		}
		s.profiler = profiler.NewProfiler()
	}
}
