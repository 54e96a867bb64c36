package blend_tree

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// BlendTreeBuilderOption is a functional option for configuring a BlendTree during construction.
type BlendTreeBuilderOption func(*blendTree)

// WithNode1D is an option builder that adds a clip at a threshold on a 1D tree's parameter axis.
//
// Parameters:
//   - clip: the clip to sample
//   - threshold: the parameter value at which the clip plays at full weight
//
// Returns:
//   - BlendTreeBuilderOption: a function that appends the node to a blend tree
func WithNode1D(clip *model.AnimationClip, threshold float32) BlendTreeBuilderOption {
	return func(b *blendTree) {
		b.nodes = append(b.nodes, Node{Clip: clip, Threshold: threshold})
	}
}

// WithNode2D is an option builder that adds a clip at a point in a 2D tree's parameter plane.
//
// Parameters:
//   - clip: the clip to sample
//   - x: the node's position on the X parameter
//   - y: the node's position on the Y parameter
//
// Returns:
//   - BlendTreeBuilderOption: a function that appends the node to a blend tree
func WithNode2D(clip *model.AnimationClip, x, y float32) BlendTreeBuilderOption {
	return func(b *blendTree) {
		b.nodes = append(b.nodes, Node{Clip: clip, Position: mgl32.Vec2{x, y}})
	}
}

// WithParameter is an option builder that names the float parameter driving a 1D tree
// (or the X axis of a 2D tree).
//
// Parameters:
//   - name: the parameter name looked up by the state machine
//
// Returns:
//   - BlendTreeBuilderOption: a function that applies the parameter name to a blend tree
func WithParameter(name string) BlendTreeBuilderOption {
	return func(b *blendTree) {
		b.parameterX = name
	}
}

// WithParameters is an option builder that names both float parameters driving a 2D tree.
//
// Parameters:
//   - x: the parameter name for the X axis
//   - y: the parameter name for the Y axis
//
// Returns:
//   - BlendTreeBuilderOption: a function that applies the parameter names to a blend tree
func WithParameters(x, y string) BlendTreeBuilderOption {
	return func(b *blendTree) {
		b.parameterX = x
		b.parameterY = y
	}
}

// WithRange is an option builder that sets the range a 1D parameter is clamped to.
// Without it the range spans the lowest to the highest node threshold.
//
// Parameters:
//   - minValue: the lower bound
//   - maxValue: the upper bound
//
// Returns:
//   - BlendTreeBuilderOption: a function that applies the range to a blend tree
func WithRange(minValue, maxValue float32) BlendTreeBuilderOption {
	return func(b *blendTree) {
		b.minValue, b.maxValue = minValue, maxValue
		b.hasRange = true
	}
}
