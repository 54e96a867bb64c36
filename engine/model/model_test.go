package model

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-4

func near(a, b float32) bool {
	return scalar.EqualWithinAbs(float64(a), float64(b), tol)
}

func newChainSkeleton(t *testing.T) *Skeleton {
	t.Helper()
	bind := func(y float32) Transform {
		tr := IdentityTransform()
		tr.Translation = mgl32.Vec3{0, y, 0}
		return tr
	}
	skel, err := NewSkeleton([]Joint{
		{Name: "root", ParentIndex: -1, LocalBind: bind(0)},
		{Name: "mid", ParentIndex: 0, LocalBind: bind(1)},
		{Name: "tip", ParentIndex: 1, LocalBind: bind(1)},
	})
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	skel.InverseBindFromPose()
	return skel
}

func newBendClip() *AnimationClip {
	return &AnimationClip{
		Name:     "bend",
		Duration: 1,
		Channels: []AnimationChannel{{
			JointIndex: 1,
			RotationKeys: []QuaternionKeyframe{
				{Time: 0, Value: mgl32.QuatIdent()},
				{Time: 1, Value: mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 0, 1})},
			},
		}},
	}
}

func TestNewSkeletonRejectsOutOfOrderJoints(t *testing.T) {
	_, err := NewSkeleton([]Joint{
		{Name: "child", ParentIndex: 1},
		{Name: "root", ParentIndex: -1},
	})
	if !errors.Is(err, ErrJointOrder) {
		t.Fatalf("expected ErrJointOrder, got %v", err)
	}
}

func TestSkeletonLookups(t *testing.T) {
	skel := newChainSkeleton(t)
	if got := skel.FindJointIndex("tip"); got != 2 {
		t.Errorf("FindJointIndex(tip) = %d, want 2", got)
	}
	if got := skel.FindJointIndex("missing"); got != -1 {
		t.Errorf("FindJointIndex(missing) = %d, want -1", got)
	}
	if got := skel.FirstChild(0); got != 1 {
		t.Errorf("FirstChild(0) = %d, want 1", got)
	}
	if got := skel.FirstChild(2); got != -1 {
		t.Errorf("FirstChild(2) = %d, want -1", got)
	}
	if len(skel.RootJointIndices) != 1 || skel.RootJointIndices[0] != 0 {
		t.Errorf("RootJointIndices = %v, want [0]", skel.RootJointIndices)
	}
}

func TestSampleClampsOutsideKeyRange(t *testing.T) {
	clip := &AnimationClip{
		Duration: 2,
		Channels: []AnimationChannel{{
			JointIndex: 0,
			PositionKeys: []VectorKeyframe{
				{Time: 0.5, Value: mgl32.Vec3{1, 0, 0}},
				{Time: 1.5, Value: mgl32.Vec3{3, 0, 0}},
			},
		}},
	}
	out := make([]Transform, 1)
	cases := []struct {
		name string
		time float32
		want float32
	}{
		{"before first key", 0, 1},
		{"on first key", 0.5, 1},
		{"midway", 1, 2},
		{"after last key", 2, 3},
		{"far past end", 100, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clip.SampleTRS(tc.time, 1, out, nil)
			if !near(out[0].Translation[0], tc.want) {
				t.Errorf("x = %v, want %v", out[0].Translation[0], tc.want)
			}
		})
	}
}

func TestSampleHoldsBaseForUnkeyedComponents(t *testing.T) {
	base := []Transform{IdentityTransform(), IdentityTransform()}
	base[0].Translation = mgl32.Vec3{5, 6, 7}
	base[0].Scale = mgl32.Vec3{2, 2, 2}
	base[1].Translation = mgl32.Vec3{9, 9, 9}
	clip := &AnimationClip{
		Duration: 1,
		Channels: []AnimationChannel{{
			JointIndex:   0,
			RotationKeys: []QuaternionKeyframe{{Time: 0, Value: mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0})}},
		}},
	}
	out := make([]Transform, 2)
	clip.SampleTRS(0.3, 2, out, base)

	if out[0].Translation != base[0].Translation || out[0].Scale != base[0].Scale {
		t.Errorf("unkeyed components changed: %+v", out[0])
	}
	if !out[0].Rotation.ApproxEqualThreshold(mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0}), tol) {
		t.Errorf("single rotation key not held: %v", out[0].Rotation)
	}
	if out[1] != base[1] {
		t.Errorf("joint without channel should keep base, got %+v", out[1])
	}
}

func TestSampleWithoutBaseUsesIdentity(t *testing.T) {
	out := make([]Transform, 2)
	(&AnimationClip{Duration: 1}).SampleTRS(0.5, 2, out, nil)
	for i, tr := range out {
		if tr != IdentityTransform() {
			t.Errorf("joint %d = %+v, want identity", i, tr)
		}
	}
}

func TestInterpolatedRotationsStayUnit(t *testing.T) {
	pairs := [][2]mgl32.Quat{
		{mgl32.QuatIdent(), mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 0, 1})},
		{mgl32.QuatRotate(3, mgl32.Vec3{1, 0, 0}), mgl32.QuatRotate(-3, mgl32.Vec3{1, 0, 0})},
		{mgl32.QuatRotate(0.001, mgl32.Vec3{0, 1, 0}), mgl32.QuatIdent()},
		{mgl32.QuatRotate(2, mgl32.Vec3{0, 1, 0}.Normalize()), mgl32.QuatRotate(1, mgl32.Vec3{1, 1, 1}.Normalize())},
	}
	for _, p := range pairs {
		for step := 0; step <= 20; step++ {
			q := BlendTransform(Transform{Rotation: p[0]}, Transform{Rotation: p[1]}, float32(step)/20).Rotation
			if !near(q.Len(), 1) {
				t.Fatalf("slerp(%v, %v, %v) has length %v", p[0], p[1], float32(step)/20, q.Len())
			}
		}
	}
}

func TestAdvanceClipTime(t *testing.T) {
	cases := []struct {
		name                  string
		time, delta, duration float32
		loop                  bool
		want                  float32
	}{
		{"plain step", 0.2, 0.3, 1, false, 0.5},
		{"clamps at end", 0.8, 0.5, 1, false, 1},
		{"clamps at start", 0.1, -0.5, 1, false, 0},
		{"wraps forward", 0.8, 0.5, 1, true, 0.3},
		{"wraps backward", 0.1, -0.3, 1, true, 0.8},
		{"exact end wraps", 0.5, 0.5, 1, true, 0},
		{"no duration", 0.5, 0.5, 0, true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AdvanceClipTime(tc.time, tc.delta, tc.duration, tc.loop); !near(got, tc.want) {
				t.Errorf("AdvanceClipTime = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClipStateAdvanceReportsUnwrappedPhase(t *testing.T) {
	s := ClipState{Clip: &AnimationClip{Duration: 2}, Time: 1.8, Speed: 1, Loop: true}
	raw := s.Advance(0.4)
	if !near(raw, 1.1) {
		t.Errorf("raw phase = %v, want 1.1", raw)
	}
	if !near(s.Time, 0.2) {
		t.Errorf("time = %v, want 0.2", s.Time)
	}
}

func TestThreeJointChainEndToEnd(t *testing.T) {
	skel := newChainSkeleton(t)
	n := skel.JointCount()
	bind := make([]Transform, n)
	skel.BindPose(bind)

	pose := make([]Transform, n)
	newBendClip().SampleTRS(0.5, n, pose, bind)

	local := make([]mgl32.Mat4, n)
	global := make([]mgl32.Mat4, n)
	PoseToMatrices(local, pose)
	skel.ComputeGlobalTransforms(local, global)

	angle, axis := pose[1].Rotation.Normalize().W, pose[1].Rotation.V
	if !near(2*float32(math.Acos(float64(angle))), math.Pi/4) {
		t.Errorf("mid rotation angle = %v, want pi/4", 2*math.Acos(float64(angle)))
	}
	if !near(axis[0], 0) || !near(axis[1], 0) || axis[2] <= 0 {
		t.Errorf("mid rotation axis = %v, want +Z", axis)
	}

	s := float32(math.Sqrt2 / 2)
	wantTip := mgl32.Vec3{-s, 1 + s, 0}
	gotTip := mgl32.Vec3{global[2][12], global[2][13], global[2][14]}
	if !gotTip.ApproxEqualThreshold(wantTip, tol) {
		t.Errorf("tip position = %v, want %v", gotTip, wantTip)
	}
	if global[0] != local[0] {
		t.Errorf("root global %v differs from local %v", global[0], local[0])
	}

	bones := make([]mgl32.Mat4, n)
	skel.ComputeBoneMatrices(global, bones)
	if !bones[0].ApproxEqualThreshold(mgl32.Ident4(), tol) {
		t.Errorf("unanimated root bone matrix = %v, want identity", bones[0])
	}
}

func TestBindPoseBoneMatricesAreIdentity(t *testing.T) {
	skel := newChainSkeleton(t)
	n := skel.JointCount()
	pose := make([]Transform, n)
	skel.BindPose(pose)
	local := make([]mgl32.Mat4, n)
	global := make([]mgl32.Mat4, n)
	bones := make([]mgl32.Mat4, n)
	PoseToMatrices(local, pose)
	skel.ComputeGlobalTransforms(local, global)
	skel.ComputeBoneMatrices(global, bones)
	for i, b := range bones {
		if !b.ApproxEqualThreshold(mgl32.Ident4(), tol) {
			t.Errorf("bone %d = %v, want identity", i, b)
		}
	}
}

func TestBonePalette(t *testing.T) {
	var p BonePalette
	p.Set([]mgl32.Mat4{mgl32.Translate3D(1, 2, 3), mgl32.Ident4()})
	if p.Count != 2 {
		t.Fatalf("Count = %d, want 2", p.Count)
	}
	if got := len(p.Bytes()); got != 128 {
		t.Errorf("len(Bytes) = %d, want 128", got)
	}
	if p.Size() != MaxJoints*64 {
		t.Errorf("Size = %d, want %d", p.Size(), MaxJoints*64)
	}
	if p.Matrices[5] != mgl32.Ident4() {
		t.Errorf("unused tail should be identity")
	}
}

func TestModelLookup(t *testing.T) {
	clip := newBendClip()
	m := NewModel(WithSkeleton(newChainSkeleton(t)), WithAnimations(clip))
	if m.Name() != "model" {
		t.Errorf("default name = %q", m.Name())
	}
	if m.Animation("bend") != clip || m.GetAnimationIndex("bend") != 0 {
		t.Errorf("clip lookup failed")
	}
	if m.Animation("nope") != nil || m.GetAnimationIndex("nope") != -1 {
		t.Errorf("missing clip lookup should fail")
	}
	if names := m.AnimationNames(); len(names) != 1 || names[0] != "bend" {
		t.Errorf("AnimationNames = %v", names)
	}
}
