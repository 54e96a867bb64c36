package retarget

import "strings"

// HumanoidBone is one of the canonical bones a humanoid skeleton is mapped onto.
type HumanoidBone int

const (
	Hips HumanoidBone = iota
	Spine
	Chest
	UpperChest
	Neck
	Head
	LeftShoulder
	LeftUpperArm
	LeftLowerArm
	LeftHand
	RightShoulder
	RightUpperArm
	RightLowerArm
	RightHand
	LeftUpperLeg
	LeftLowerLeg
	LeftFoot
	LeftToes
	RightUpperLeg
	RightLowerLeg
	RightFoot
	RightToes

	// HumanoidBoneCount is the number of canonical bones.
	HumanoidBoneCount
)

// boneNames are the VRM humanoid names, also used as the keys of a BoneMap.
var boneNames = [HumanoidBoneCount]string{
	"hips", "spine", "chest", "upperChest", "neck", "head",
	"leftShoulder", "leftUpperArm", "leftLowerArm", "leftHand",
	"rightShoulder", "rightUpperArm", "rightLowerArm", "rightHand",
	"leftUpperLeg", "leftLowerLeg", "leftFoot", "leftToes",
	"rightUpperLeg", "rightLowerLeg", "rightFoot", "rightToes",
}

// String returns the bone's humanoid name, e.g. "leftUpperArm".
func (b HumanoidBone) String() string {
	if b < 0 || b >= HumanoidBoneCount {
		return "unknown"
	}
	return boneNames[b]
}

// ParseHumanoidBone resolves a humanoid name to its bone, ignoring case and separators.
//
// Parameters:
//   - name: the humanoid name, e.g. "leftUpperArm" or "left_upper_arm"
//
// Returns:
//   - HumanoidBone: the bone
//   - bool: false if the name is not a canonical bone
func ParseHumanoidBone(name string) (HumanoidBone, bool) {
	key := normalizeName(name)
	for b := range HumanoidBoneCount {
		if strings.EqualFold(boneNames[b], key) {
			return b, true
		}
	}
	return -1, false
}

// dccPrefixes are exporter namespaces stripped from joint names before matching, together with any
// digits that follow them ("mixamorig1", "bip01").
var dccPrefixes = []string{"mixamorig", "armature", "ccbase", "orgdef", "def", "bip"}

// normalizeName lowercases a name and drops everything but letters and digits.
func normalizeName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// matchKey normalizes a joint name and strips any exporter prefixes from it.
func matchKey(name string) string {
	key := normalizeName(name)
	for stripped := true; stripped; {
		stripped = false
		for _, p := range dccPrefixes {
			if !strings.HasPrefix(key, p) {
				continue
			}
			if rest := strings.TrimLeft(key[len(p):], "0123456789"); rest != "" {
				key = rest
				stripped = true
				break
			}
		}
	}
	return key
}

// sided expands limb base names into the left or right spellings used by common exporters:
// "leftarm", "larm", "arml" and "armleft".
func sided(side string, bases ...string) []string {
	out := make([]string, 0, len(bases)*4)
	for _, b := range bases {
		out = append(out, side+b, side[:1]+b, b+side[:1], b+side)
	}
	return out
}

// boneCandidates lists, per bone, the normalized joint names auto mapping accepts, in priority order.
// They cover VRM, Mixamo, Unreal, 3ds Max Biped and Blender rigs.
var boneCandidates = func() [HumanoidBoneCount][]string {
	var c [HumanoidBoneCount][]string
	c[Hips] = []string{"hips", "pelvis", "hip"}
	c[Spine] = []string{"spine", "spine01", "waist"}
	c[Chest] = []string{"chest", "spine1", "spine02", "spine001"}
	c[UpperChest] = []string{"upperchest", "spine2", "spine03", "spine002"}
	c[Neck] = []string{"neck", "neck01", "necktwist01", "neck1"}
	c[Head] = []string{"head"}

	for _, s := range []struct {
		side                           string
		shoulder, upperArm, lowerArm   HumanoidBone
		hand, upperLeg, lowerLeg, foot HumanoidBone
		toes                           HumanoidBone
	}{
		{"left", LeftShoulder, LeftUpperArm, LeftLowerArm, LeftHand, LeftUpperLeg, LeftLowerLeg, LeftFoot, LeftToes},
		{"right", RightShoulder, RightUpperArm, RightLowerArm, RightHand, RightUpperLeg, RightLowerLeg, RightFoot, RightToes},
	} {
		c[s.shoulder] = sided(s.side, "shoulder", "clavicle", "collar")
		c[s.upperArm] = sided(s.side, "upperarm", "arm", "uparm")
		c[s.lowerArm] = sided(s.side, "lowerarm", "forearm", "elbow")
		c[s.hand] = sided(s.side, "hand", "wrist")
		c[s.upperLeg] = sided(s.side, "upperleg", "upleg", "thigh")
		c[s.lowerLeg] = sided(s.side, "lowerleg", "leg", "calf", "shin", "knee")
		c[s.foot] = sided(s.side, "foot", "ankle")
		c[s.toes] = sided(s.side, "toes", "toebase", "toe", "toe0", "ball")
	}
	return c
}()
