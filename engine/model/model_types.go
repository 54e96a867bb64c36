package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// --- Transform & Skeleton Types ---

// Transform represents a decomposed translation-rotation-scale transform for animation interpolation.
type Transform struct {
	// Translation is the position offset relative to the parent joint.
	Translation mgl32.Vec3

	// Rotation is the orientation as a unit quaternion.
	Rotation mgl32.Quat

	// Scale is the scale factor along each axis.
	Scale mgl32.Vec3
}

// Joint represents a single joint in a skeleton hierarchy.
type Joint struct {
	// Name is the joint's identifier (for setup-time lookups and bone mapping).
	Name string

	// ParentIndex is the index of the parent joint (-1 for root joints).
	// Joints are stored parent-before-child, so ParentIndex is always lower than the joint's own index.
	ParentIndex int

	// InverseBindMatrix transforms from model space to joint space at bind pose.
	InverseBindMatrix mgl32.Mat4

	// LocalBind is the joint's bind (rest) transform relative to its parent.
	LocalBind Transform
}

// --- Animation Types ---

// AnimationClip represents a single animation (walk, run, attack, etc.).
// Clips are immutable after load and may be shared by any number of entities.
type AnimationClip struct {
	// Name is the animation identifier.
	Name string

	// Duration is the total length of the animation in seconds.
	Duration float32

	// Channels contains keyframe data for the animated joints. Joints without a channel hold their base value.
	Channels []AnimationChannel
}

// AnimationChannel contains keyframe data for a single joint.
// An empty key slice means that component holds its base value; the other components still animate.
type AnimationChannel struct {
	// JointIndex is the index of the joint this channel animates.
	JointIndex int

	// PositionKeys are keyframes for translation, ascending by time.
	PositionKeys []VectorKeyframe

	// RotationKeys are keyframes for rotation, ascending by time.
	RotationKeys []QuaternionKeyframe

	// ScaleKeys are keyframes for scale, ascending by time.
	ScaleKeys []VectorKeyframe
}

// VectorKeyframe stores a 3D vector value at a specific time.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the 3D vector value at this keyframe.
	Value mgl32.Vec3
}

// QuaternionKeyframe stores a quaternion rotation at a specific time.
type QuaternionKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the unit quaternion value at this keyframe.
	Value mgl32.Quat
}

// ClipState is the runtime playback state of one clip: which clip, where in it, how fast and whether it loops.
type ClipState struct {
	Clip  *AnimationClip
	Time  float32
	Speed float32
	Loop  bool
}
