package blend_tree

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// BlendTreeType identifies how a BlendTree maps its parameter onto node weights.
type BlendTreeType int

const (
	// BlendTreeType1D blends the two nodes whose thresholds bracket a scalar parameter.
	BlendTreeType1D BlendTreeType = iota

	// BlendTreeType2D blends up to three nodes nearest a 2D parameter point.
	BlendTreeType2D
)

// String returns the name of the tree type.
func (t BlendTreeType) String() string {
	switch t {
	case BlendTreeType1D:
		return "1D"
	case BlendTreeType2D:
		return "2D"
	default:
		return "unknown"
	}
}

// Node is one clip placed in the tree's parameter space.
type Node struct {
	// Clip is the clip sampled for this node.
	Clip *model.AnimationClip

	// Threshold is the node's position on the parameter axis of a 1D tree.
	Threshold float32

	// Position is the node's position in the parameter plane of a 2D tree.
	Position mgl32.Vec2
}

// Workspace holds the scratch poses an evaluation samples nodes into.
// A Workspace is owned by one caller; the zero value is ready to use and grows on demand.
type Workspace struct {
	poses [3][]model.Transform
}

// pose returns scratch pose i sized to n joints.
func (w *Workspace) pose(i, n int) []model.Transform {
	w.poses[i] = common.Resize(w.poses[i], n)
	return w.poses[i]
}
