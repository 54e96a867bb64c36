package retarget

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// Avatar maps each canonical bone to a joint index of one skeleton, -1 where unmapped.
type Avatar [HumanoidBoneCount]int

// NewAvatar returns an Avatar with every bone unmapped.
//
// Returns:
//   - Avatar: the empty avatar
func NewAvatar() Avatar {
	var a Avatar
	for i := range a {
		a[i] = -1
	}
	return a
}

// Joint returns the joint mapped to a bone, or -1.
//
// Parameters:
//   - bone: the canonical bone
//
// Returns:
//   - int: the joint index or -1
func (a *Avatar) Joint(bone HumanoidBone) int {
	if bone < 0 || bone >= HumanoidBoneCount {
		return -1
	}
	return a[bone]
}

// MappedCount returns how many bones are mapped.
//
// Returns:
//   - int: the mapped bone count
func (a *Avatar) MappedCount() int {
	n := 0
	for _, j := range a {
		if j >= 0 {
			n++
		}
	}
	return n
}

// isUsed reports whether a joint is already mapped to some bone.
func (a *Avatar) isUsed(joint int) bool {
	for _, j := range a {
		if j == joint {
			return true
		}
	}
	return false
}

// AutoMap derives an Avatar from joint names. Names are lowercased, stripped to letters and digits and
// cleared of exporter prefixes such as "mixamorig:" or "Bip01", then matched exactly against each bone's
// candidate spellings in priority order. A joint is mapped to at most one bone.
//
// Parameters:
//   - skeleton: the skeleton to map
//
// Returns:
//   - Avatar: the derived mapping
func AutoMap(skeleton *model.Skeleton) Avatar {
	a := NewAvatar()
	a.fill(skeleton)
	return a
}

// fill maps every still-unmapped bone it can find a candidate joint for.
func (a *Avatar) fill(skeleton *model.Skeleton) {
	byKey := make(map[string]int, len(skeleton.Joints))
	for i := range skeleton.Joints {
		key := matchKey(skeleton.Joints[i].Name)
		if _, seen := byKey[key]; !seen && key != "" {
			byKey[key] = i
		}
	}
	for bone := range HumanoidBoneCount {
		if a[bone] >= 0 {
			continue
		}
		for _, candidate := range boneCandidates[bone] {
			if j, ok := byKey[candidate]; ok && !a.isUsed(j) {
				a[bone] = j
				break
			}
		}
	}
}

// BoneMap is the on-disk bone table: humanoid bone names (see HumanoidBone.String) to joint names.
type BoneMap map[string]string

// LoadBoneMap decodes a JSON object of humanoid bone names to joint names.
//
// Parameters:
//   - r: the JSON source
//
// Returns:
//   - BoneMap: the decoded table
//   - error: an error if the JSON is malformed
func LoadBoneMap(r io.Reader) (BoneMap, error) {
	var bm BoneMap
	if err := json.NewDecoder(r).Decode(&bm); err != nil {
		return nil, fmt.Errorf("failed to decode bone map: %w", err)
	}
	return bm, nil
}

// AvatarFromBoneMap resolves a BoneMap against a skeleton. Unknown bone names and joint names missing
// from the skeleton are logged and skipped. With autoFill, bones the table leaves unmapped are then
// filled by AutoMap's name matching.
//
// Parameters:
//   - skeleton: the skeleton the joint names refer to
//   - bm: the bone table
//   - autoFill: whether to auto map bones the table leaves out
//
// Returns:
//   - Avatar: the resolved mapping
func AvatarFromBoneMap(skeleton *model.Skeleton, bm BoneMap, autoFill bool) Avatar {
	a := NewAvatar()
	for name, jointName := range bm {
		bone, ok := ParseHumanoidBone(name)
		if !ok {
			log.Printf("[Retarget] unknown humanoid bone %q in bone map, skipping", name)
			continue
		}
		j := skeleton.FindJointIndex(jointName)
		if j < 0 {
			log.Printf("[Retarget] bone map entry %s -> %q has no matching joint, skipping", bone, jointName)
			continue
		}
		a[bone] = j
	}
	if autoFill {
		a.fill(skeleton)
	}
	return a
}

// BoneMap converts the Avatar back into a bone table for a skeleton, omitting unmapped bones.
//
// Parameters:
//   - skeleton: the skeleton the joint indices refer to
//
// Returns:
//   - BoneMap: the bone table
func (a *Avatar) BoneMap(skeleton *model.Skeleton) BoneMap {
	bm := make(BoneMap, HumanoidBoneCount)
	for bone, j := range a {
		if j >= 0 && j < len(skeleton.Joints) {
			bm[HumanoidBone(bone).String()] = skeleton.Joints[j].Name
		}
	}
	return bm
}

// MarshalBoneMap writes the Avatar as an indented JSON bone table that LoadBoneMap can read back.
//
// Parameters:
//   - skeleton: the skeleton the joint indices refer to
//   - w: the destination
//
// Returns:
//   - error: an error if writing fails
func (a *Avatar) MarshalBoneMap(skeleton *model.Skeleton, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a.BoneMap(skeleton)); err != nil {
		return fmt.Errorf("failed to encode bone map: %w", err)
	}
	return nil
}
