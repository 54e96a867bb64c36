package retarget

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-4

var humanoidParents = [HumanoidBoneCount]int{
	Hips: -1, Spine: int(Hips), Chest: int(Spine), UpperChest: int(Chest), Neck: int(UpperChest), Head: int(Neck),
	LeftShoulder: int(UpperChest), LeftUpperArm: int(LeftShoulder), LeftLowerArm: int(LeftUpperArm), LeftHand: int(LeftLowerArm),
	RightShoulder: int(UpperChest), RightUpperArm: int(RightShoulder), RightLowerArm: int(RightUpperArm), RightHand: int(RightLowerArm),
	LeftUpperLeg: int(Hips), LeftLowerLeg: int(LeftUpperLeg), LeftFoot: int(LeftLowerLeg), LeftToes: int(LeftFoot),
	RightUpperLeg: int(Hips), RightLowerLeg: int(RightUpperLeg), RightFoot: int(RightLowerLeg), RightToes: int(RightFoot),
}

var humanoidOffsets = [HumanoidBoneCount]mgl32.Vec3{
	Hips: {0, 1, 0}, Spine: {0, 0.1, 0}, Chest: {0, 0.15, 0}, UpperChest: {0, 0.15, 0}, Neck: {0, 0.15, 0}, Head: {0, 0.1, 0},
	LeftShoulder: {0.05, 0.1, 0}, LeftUpperArm: {0.1, 0, 0}, LeftLowerArm: {0.28, 0, 0}, LeftHand: {0.25, 0, 0},
	RightShoulder: {-0.05, 0.1, 0}, RightUpperArm: {-0.1, 0, 0}, RightLowerArm: {-0.28, 0, 0}, RightHand: {-0.25, 0, 0},
	LeftUpperLeg: {0.1, -0.05, 0}, LeftLowerLeg: {0, -0.45, 0}, LeftFoot: {0, -0.42, 0}, LeftToes: {0, -0.05, 0.12},
	RightUpperLeg: {-0.1, -0.05, 0}, RightLowerLeg: {0, -0.45, 0}, RightFoot: {0, -0.42, 0}, RightToes: {0, -0.05, 0.12},
}

var mixamoNames = [HumanoidBoneCount]string{
	"mixamorig:Hips", "mixamorig:Spine", "mixamorig:Spine1", "mixamorig:Spine2", "mixamorig:Neck", "mixamorig:Head",
	"mixamorig:LeftShoulder", "mixamorig:LeftArm", "mixamorig:LeftForeArm", "mixamorig:LeftHand",
	"mixamorig:RightShoulder", "mixamorig:RightArm", "mixamorig:RightForeArm", "mixamorig:RightHand",
	"mixamorig:LeftUpLeg", "mixamorig:LeftLeg", "mixamorig:LeftFoot", "mixamorig:LeftToeBase",
	"mixamorig:RightUpLeg", "mixamorig:RightLeg", "mixamorig:RightFoot", "mixamorig:RightToeBase",
}

var unrealNames = [HumanoidBoneCount]string{
	"pelvis", "spine_01", "spine_02", "spine_03", "neck_01", "head",
	"clavicle_l", "upperarm_l", "lowerarm_l", "hand_l",
	"clavicle_r", "upperarm_r", "lowerarm_r", "hand_r",
	"thigh_l", "calf_l", "foot_l", "ball_l",
	"thigh_r", "calf_r", "foot_r", "ball_r",
}

// newHumanoid builds a humanoid whose joint i is canonical bone i, scaled uniformly, with an extra
// unmapped "prop" joint parented to the right hand.
func newHumanoid(t *testing.T, names [HumanoidBoneCount]string, scale float32, armRoll float32) *model.Skeleton {
	t.Helper()
	joints := make([]model.Joint, 0, HumanoidBoneCount+1)
	for b := range HumanoidBoneCount {
		bind := model.IdentityTransform()
		bind.Translation = humanoidOffsets[b].Mul(scale)
		if b == LeftUpperArm || b == RightUpperArm {
			bind.Rotation = mgl32.QuatRotate(armRoll, mgl32.Vec3{1, 0, 0})
		}
		joints = append(joints, model.Joint{Name: names[b], ParentIndex: humanoidParents[b], LocalBind: bind})
	}
	prop := model.IdentityTransform()
	prop.Translation = mgl32.Vec3{0, 0.1, 0}
	joints = append(joints, model.Joint{Name: "prop", ParentIndex: int(RightHand), LocalBind: prop})

	skel, err := model.NewSkeleton(joints)
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	return skel
}

func assertIdentityMapping(t *testing.T, a Avatar) {
	t.Helper()
	for b := range HumanoidBoneCount {
		if a.Joint(b) != int(b) {
			t.Errorf("%s mapped to joint %d, want %d", b, a.Joint(b), int(b))
		}
	}
}

func TestAutoMapMixamo(t *testing.T) {
	a := AutoMap(newHumanoid(t, mixamoNames, 1, 0))
	assertIdentityMapping(t, a)
	if a.MappedCount() != int(HumanoidBoneCount) {
		t.Errorf("MappedCount = %d", a.MappedCount())
	}
}

func TestAutoMapUnreal(t *testing.T) {
	assertIdentityMapping(t, AutoMap(newHumanoid(t, unrealNames, 1, 0)))
}

func TestAutoMapBipedPrefixes(t *testing.T) {
	skel, err := model.NewSkeleton([]model.Joint{
		{Name: "Bip01", ParentIndex: -1},
		{Name: "Bip01 Pelvis", ParentIndex: 0},
		{Name: "Bip01 Spine", ParentIndex: 1},
		{Name: "Bip01 L Thigh", ParentIndex: 1},
		{Name: "Bip01 L Calf", ParentIndex: 3},
		{Name: "Bip01 R Thigh", ParentIndex: 1},
	})
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	a := AutoMap(skel)
	want := map[HumanoidBone]int{Hips: 1, Spine: 2, LeftUpperLeg: 3, LeftLowerLeg: 4, RightUpperLeg: 5, Head: -1}
	for bone, j := range want {
		if a.Joint(bone) != j {
			t.Errorf("%s = %d, want %d", bone, a.Joint(bone), j)
		}
	}
}

func TestParseHumanoidBone(t *testing.T) {
	cases := map[string]HumanoidBone{
		"hips":           Hips,
		"upperChest":     UpperChest,
		"UPPERCHEST":     UpperChest,
		"left_upper_arm": LeftUpperArm,
		"rightToes":      RightToes,
	}
	for name, want := range cases {
		if got, ok := ParseHumanoidBone(name); !ok || got != want {
			t.Errorf("ParseHumanoidBone(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ParseHumanoidBone("tail"); ok {
		t.Errorf("tail should not parse")
	}
}

func TestBoneMapRoundTrip(t *testing.T) {
	skel := newHumanoid(t, mixamoNames, 1, 0)
	a := AutoMap(skel)

	var buf bytes.Buffer
	if err := a.MarshalBoneMap(skel, &buf); err != nil {
		t.Fatalf("MarshalBoneMap: %v", err)
	}
	bm, err := LoadBoneMap(&buf)
	if err != nil {
		t.Fatalf("LoadBoneMap: %v", err)
	}
	if got := AvatarFromBoneMap(skel, bm, false); got != a {
		t.Errorf("round trip = %v, want %v", got, a)
	}
}

func TestAvatarFromBoneMapSkipsAndFills(t *testing.T) {
	skel := newHumanoid(t, unrealNames, 1, 0)
	bm, err := LoadBoneMap(strings.NewReader(`{"hips": "pelvis", "tail": "tail_01", "head": "skull"}`))
	if err != nil {
		t.Fatalf("LoadBoneMap: %v", err)
	}

	a := AvatarFromBoneMap(skel, bm, false)
	if a.Joint(Hips) != int(Hips) || a.MappedCount() != 1 {
		t.Errorf("without autoFill: %v", a)
	}
	assertIdentityMapping(t, AvatarFromBoneMap(skel, bm, true))

	if _, err := LoadBoneMap(strings.NewReader(`{"hips": `)); err == nil {
		t.Errorf("malformed JSON should fail")
	}
}

func TestRetargetBindPoseReproducesTargetBind(t *testing.T) {
	source := newHumanoid(t, mixamoNames, 1, 0)
	target := newHumanoid(t, unrealNames, 1.3, -1.2)

	r := NewRetargeter()
	if err := r.Setup(source, AutoMap(source), target, AutoMap(target)); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if r.SharedBoneCount() != int(HumanoidBoneCount) {
		t.Fatalf("SharedBoneCount = %d", r.SharedBoneCount())
	}

	src := make([]model.Transform, source.JointCount())
	source.BindPose(src)
	out := make([]model.Transform, target.JointCount())
	r.RetargetLocalPose(src, out)

	for j := range out {
		want := target.Joints[j].LocalBind
		if !out[j].Translation.ApproxEqualThreshold(want.Translation, tol) ||
			!out[j].Rotation.ApproxEqualThreshold(want.Rotation, tol) ||
			!out[j].Scale.ApproxEqualThreshold(want.Scale, tol) {
			t.Errorf("joint %d (%s) = %+v, want %+v", j, target.Joints[j].Name, out[j], want)
		}
	}
}

func TestRetargetTransfersDeltas(t *testing.T) {
	source := newHumanoid(t, mixamoNames, 1, 0)
	target := newHumanoid(t, unrealNames, 2, -0.5)
	r := NewRetargeter()
	if err := r.Setup(source, AutoMap(source), target, AutoMap(target)); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	src := make([]model.Transform, source.JointCount())
	source.BindPose(src)
	bend := mgl32.QuatRotate(math.Pi/4, mgl32.Vec3{0, 0, 1})
	src[LeftUpperArm].Rotation = bend
	src[Hips].Translation = src[Hips].Translation.Add(mgl32.Vec3{0, 0, 0.5})
	src[Head].Scale = mgl32.Vec3{2, 2, 2}

	out := make([]model.Transform, target.JointCount())
	r.RetargetLocalPose(src, out)

	wantRot := target.Joints[LeftUpperArm].LocalBind.Rotation.Mul(bend)
	if !out[LeftUpperArm].Rotation.ApproxEqualThreshold(wantRot, tol) {
		t.Errorf("arm rotation = %v, want %v", out[LeftUpperArm].Rotation, wantRot)
	}
	// Hips bone length doubles with the target scale, so the offset does too.
	if z := out[Hips].Translation[2]; !scalar.EqualWithinAbs(float64(z), 1, tol) {
		t.Errorf("hips z = %v, want 1", z)
	}
	if !out[Head].Scale.ApproxEqualThreshold(mgl32.Vec3{2, 2, 2}, tol) {
		t.Errorf("head scale = %v", out[Head].Scale)
	}
}

func TestRetargetHipsTranslationOnly(t *testing.T) {
	source := newHumanoid(t, mixamoNames, 1, 0)
	target := newHumanoid(t, unrealNames, 1, 0)
	r := NewRetargeter(WithHipsTranslationOnly(true))
	_ = r.Setup(source, AutoMap(source), target, AutoMap(target))

	src := make([]model.Transform, source.JointCount())
	source.BindPose(src)
	src[Spine].Translation = mgl32.Vec3{0, 0.5, 0}
	out := make([]model.Transform, target.JointCount())
	r.RetargetLocalPose(src, out)
	if out[Spine].Translation != target.Joints[Spine].LocalBind.Translation {
		t.Errorf("spine translation moved: %v", out[Spine].Translation)
	}
}

func TestRetargetSetupFailures(t *testing.T) {
	source := newHumanoid(t, mixamoNames, 1, 0)
	r := NewRetargeter()
	if err := r.Setup(source, AutoMap(source), source, NewAvatar()); !errors.Is(err, ErrNoSharedBones) {
		t.Errorf("Setup with empty avatar err = %v", err)
	}
	if r.IsSetUp() {
		t.Errorf("IsSetUp after failure")
	}
	out := []model.Transform{{Translation: mgl32.Vec3{9, 9, 9}}}
	r.RetargetLocalPose(nil, out)
	if out[0].Translation != (mgl32.Vec3{9, 9, 9}) {
		t.Errorf("RetargetLocalPose wrote while not set up")
	}
	if err := r.Setup(nil, NewAvatar(), source, NewAvatar()); !errors.Is(err, ErrNoSkeleton) {
		t.Errorf("Setup(nil) err = %v", err)
	}
}
