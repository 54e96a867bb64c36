package blend_tree

import (
	"cmp"
	"math"
	"slices"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// blendTree is the implementation of the BlendTree interface.
type blendTree struct {
	treeType BlendTreeType
	nodes    []Node

	parameterX, parameterY string

	minValue, maxValue float32
	hasRange           bool

	duration float32
}

// BlendTree defines the interface for a parametric blend across several clips.
//
// A BlendTree is definition data. It is immutable after NewBlendTree and holds no per-entity state:
// the parameter value and playback time are passed into every Evaluate call, and scratch memory
// comes from the caller's Workspace. One tree can therefore be shared by any number of animators.
type BlendTree interface {
	// Type returns whether this is a 1D or 2D tree.
	//
	// Returns:
	//   - BlendTreeType: the tree type
	Type() BlendTreeType

	// Nodes returns the tree's nodes. 1D nodes are sorted by threshold.
	//
	// Returns:
	//   - []Node: the nodes, which must not be modified
	Nodes() []Node

	// ParameterX returns the name of the float parameter driving the tree (the X axis for 2D trees).
	//
	// Returns:
	//   - string: the parameter name, empty when unset
	ParameterX() string

	// ParameterY returns the name of the float parameter driving the Y axis of a 2D tree.
	//
	// Returns:
	//   - string: the parameter name, empty when unset
	ParameterY() string

	// Duration returns the longest duration among the referenced clips.
	// Evaluate treats this as the length of one full cycle of the tree.
	//
	// Returns:
	//   - float32: the duration in seconds
	Duration() float32

	// Evaluate samples the tree into out for a parameter value and a playback time.
	// Each node is sampled at the same normalized phase (time / Duration) of its own clip so
	// clips of different lengths stay in step. Unanimated components keep the base pose.
	//
	// Parameters:
	//   - param: the parameter value; 1D trees read only the X component
	//   - time: the playback time in seconds within [0, Duration]
	//   - out: destination pose
	//   - base: the pose unanimated components fall back to, may be nil
	//   - ws: scratch memory owned by the caller, may be nil
	Evaluate(param mgl32.Vec2, time float32, out, base []model.Transform, ws *Workspace)
}

var _ BlendTree = &blendTree{}

// NewBlendTree creates a new BlendTree of the given type with the specified options applied.
// 1D nodes are sorted by threshold; a 1D tree without WithRange clamps its parameter to the
// lowest and highest thresholds.
//
// Parameters:
//   - treeType: the tree type (BlendTreeType1D or BlendTreeType2D)
//   - options: a variadic list of BlendTreeBuilderOption functions to configure the BlendTree
//
// Returns:
//   - BlendTree: a new instance of BlendTree configured with the provided options
func NewBlendTree(treeType BlendTreeType, options ...BlendTreeBuilderOption) BlendTree {
	b := &blendTree{treeType: treeType}
	for _, opt := range options {
		opt(b)
	}
	if b.treeType == BlendTreeType1D {
		slices.SortStableFunc(b.nodes, func(x, y Node) int {
			return cmp.Compare(x.Threshold, y.Threshold)
		})
		if !b.hasRange && len(b.nodes) > 0 {
			b.minValue = b.nodes[0].Threshold
			b.maxValue = b.nodes[len(b.nodes)-1].Threshold
		}
	}
	for _, n := range b.nodes {
		if n.Clip != nil && n.Clip.Duration > b.duration {
			b.duration = n.Clip.Duration
		}
	}
	return b
}

func (b *blendTree) Type() BlendTreeType {
	return b.treeType
}

func (b *blendTree) Nodes() []Node {
	return b.nodes
}

func (b *blendTree) ParameterX() string {
	return b.parameterX
}

func (b *blendTree) ParameterY() string {
	return b.parameterY
}

func (b *blendTree) Duration() float32 {
	return b.duration
}

func (b *blendTree) Evaluate(param mgl32.Vec2, time float32, out, base []model.Transform, ws *Workspace) {
	if ws == nil {
		ws = &Workspace{}
	}
	switch {
	case len(b.nodes) == 0:
		model.ResetPose(out, base)
	case len(b.nodes) == 1:
		b.sampleNode(0, time, out, base)
	case b.treeType == BlendTreeType2D:
		b.evaluate2D(param, time, out, base, ws)
	default:
		b.evaluate1D(param[0], time, out, base, ws)
	}
}

// sampleNode samples node i at the tree's current phase.
func (b *blendTree) sampleNode(i int, time float32, out, base []model.Transform) {
	clip := b.nodes[i].Clip
	var t float32
	if clip != nil && b.duration > common.Epsilon {
		t = time / b.duration * clip.Duration
	}
	clip.SampleTRS(t, len(out), out, base)
}

func (b *blendTree) evaluate1D(param, time float32, out, base []model.Transform, ws *Workspace) {
	p := mgl32.Clamp(param, b.minValue, b.maxValue)
	last := len(b.nodes) - 1
	if p <= b.nodes[0].Threshold {
		b.sampleNode(0, time, out, base)
		return
	}
	if p >= b.nodes[last].Threshold {
		b.sampleNode(last, time, out, base)
		return
	}

	lo := 0
	for lo < last-1 && p > b.nodes[lo+1].Threshold {
		lo++
	}
	hi := lo + 1
	var t float32
	if width := b.nodes[hi].Threshold - b.nodes[lo].Threshold; width > common.Epsilon {
		t = (p - b.nodes[lo].Threshold) / width
	}

	a, c := ws.pose(0, len(out)), ws.pose(1, len(out))
	b.sampleNode(lo, time, a, base)
	b.sampleNode(hi, time, c, base)
	model.BlendPoses(out, a, c, t)
}

func (b *blendTree) evaluate2D(param mgl32.Vec2, time float32, out, base []model.Transform, ws *Workspace) {
	nearest, dist, k := b.nearestNodes(param)
	if dist[0] < common.Epsilon {
		b.sampleNode(nearest[0], time, out, base)
		return
	}

	var weights [3]float32
	if k == 3 {
		var ok bool
		weights, ok = barycentric(param,
			b.nodes[nearest[0]].Position,
			b.nodes[nearest[1]].Position,
			b.nodes[nearest[2]].Position)
		if !ok {
			weights = inverseDistance(dist, k)
		}
	} else {
		weights = inverseDistance(dist, k)
	}

	var poses [3][]model.Transform
	for i := range k {
		poses[i] = ws.pose(i, len(out))
		b.sampleNode(nearest[i], time, poses[i], base)
	}
	if k == 2 {
		model.BlendPoses(out, poses[0], poses[1], weights[1])
		return
	}
	blend3(out, poses[0], poses[1], poses[2], weights)
}

// nearestNodes returns the indices of up to three nodes closest to p, nearest first,
// with their distances and how many were found.
func (b *blendTree) nearestNodes(p mgl32.Vec2) (idx [3]int, dist [3]float32, k int) {
	var d2 [3]float32
	for i := range b.nodes {
		d := b.nodes[i].Position.Sub(p)
		sq := d.Dot(d)
		j := k
		if k < 3 {
			k++
		} else if sq >= d2[2] {
			continue
		} else {
			j = 2
		}
		for j > 0 && d2[j-1] > sq {
			idx[j], d2[j] = idx[j-1], d2[j-1]
			j--
		}
		idx[j], d2[j] = i, sq
	}
	for i := range k {
		dist[i] = float32(math.Sqrt(float64(d2[i])))
	}
	return idx, dist, k
}

// inverseDistance weights the first k nodes by 1/distance, normalized to sum to one.
func inverseDistance(dist [3]float32, k int) [3]float32 {
	var w [3]float32
	var sum float32
	for i := range k {
		w[i] = 1 / max(dist[i], common.Epsilon)
		sum += w[i]
	}
	for i := range k {
		w[i] /= sum
	}
	return w
}

// barycentric computes p's barycentric weights in triangle (a, b, c). Negative weights (p outside the
// triangle) are clamped to zero and the rest renormalized. It reports false for a degenerate triangle.
func barycentric(p, a, b, c mgl32.Vec2) ([3]float32, bool) {
	denom := (b[1]-c[1])*(a[0]-c[0]) + (c[0]-b[0])*(a[1]-c[1])
	if float32(math.Abs(float64(denom))) < common.Epsilon {
		return [3]float32{}, false
	}
	w0 := ((b[1]-c[1])*(p[0]-c[0]) + (c[0]-b[0])*(p[1]-c[1])) / denom
	w1 := ((c[1]-a[1])*(p[0]-c[0]) + (a[0]-c[0])*(p[1]-c[1])) / denom
	w := [3]float32{max(w0, 0), max(w1, 0), max(1-w0-w1, 0)}
	sum := w[0] + w[1] + w[2]
	if sum < common.Epsilon {
		return [3]float32{}, false
	}
	for i := range w {
		w[i] /= sum
	}
	return w, true
}

// blend3 mixes three poses with weights summing to one. Translation and scale are weighted sums;
// rotation slerps a toward b, then that result toward c, approximating a three-way quaternion average.
func blend3(out, a, b, c []model.Transform, w [3]float32) {
	var tAB float32
	if ab := w[0] + w[1]; ab > common.Epsilon {
		tAB = w[1] / ab
	}
	for i := range out {
		out[i] = model.Transform{
			Translation: a[i].Translation.Mul(w[0]).Add(b[i].Translation.Mul(w[1])).Add(c[i].Translation.Mul(w[2])),
			Rotation:    common.Slerp(common.Slerp(a[i].Rotation, b[i].Rotation, tAB), c[i].Rotation, w[2]),
			Scale:       a[i].Scale.Mul(w[0]).Add(b[i].Scale.Mul(w[1])).Add(c[i].Scale.Mul(w[2])),
		}
	}
}
