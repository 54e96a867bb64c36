package animator

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/blend_stack"
	"github.com/Carmen-Shannon/oxy-anim/engine/ik"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/state_machine"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tiendc/go-deepcopy"
)

// animator is the implementation of the Animator interface.
type animator struct {
	mu *sync.Mutex

	skeleton *model.Skeleton
	mode     AnimatorMode
	stack    blend_stack.BlendStack
	machine  state_machine.StateMachine
	simple   simplePlayback

	speed           float32
	paused, stopped bool

	lockPosition, lockRotation bool
	rootJointName              string
	rootJoint                  int

	footIK   ik.FootIK
	lookAtIK ik.LookAtIK

	bind, local, from, to []model.Transform
	localMatrices, global []mgl32.Mat4
	bones                 []mgl32.Mat4
	palette               model.BonePalette
}

// Animator defines the public interface for per-entity skeletal animation.
//
// Each Update runs one fixed pipeline: the active mode produces a local pose, the root lock is applied,
// forward kinematics resolves model-space transforms, FootIK then LookAtIK adjust the pose, and skinning
// matrices are produced for the renderer. The mode follows from which delegate is attached: a BlendStack,
// a StateMachine, or neither for Simple playback driven by Play and CrossFade.
//
// An Animator exclusively owns its pose buffers. Slices returned by LocalPose, GlobalTransforms and
// BoneMatrices alias those buffers and are only valid until the next Update; Snapshot returns a
// detached copy. All methods are safe for concurrent use.
type Animator interface {
	// Skeleton retrieves the skeleton being animated.
	//
	// Returns:
	//   - *model.Skeleton: the skeleton or nil
	Skeleton() *model.Skeleton

	// SetSkeleton assigns the skeleton to animate, resizing every pose buffer and attached delegate
	// and resetting the pose to the new bind pose.
	//
	// Parameters:
	//   - skeleton: the skeleton
	SetSkeleton(skeleton *model.Skeleton)

	// Mode returns which source produces the local pose.
	//
	// Returns:
	//   - AnimatorMode: the current mode
	Mode() AnimatorMode

	// SetBlendStack attaches a blend stack, switching to ModeBlendStack and detaching any state machine.
	// Passing nil returns to ModeSimple.
	//
	// Parameters:
	//   - stack: the blend stack or nil
	SetBlendStack(stack blend_stack.BlendStack)

	// BlendStack returns the attached blend stack, or nil.
	//
	// Returns:
	//   - blend_stack.BlendStack: the blend stack or nil
	BlendStack() blend_stack.BlendStack

	// SetStateMachine attaches a state machine, switching to ModeStateMachine and detaching any blend stack.
	// Passing nil returns to ModeSimple.
	//
	// Parameters:
	//   - machine: the state machine or nil
	SetStateMachine(machine state_machine.StateMachine)

	// StateMachine returns the attached state machine, or nil.
	//
	// Returns:
	//   - state_machine.StateMachine: the state machine or nil
	StateMachine() state_machine.StateMachine

	// Play starts a clip from time zero in Simple mode, cancelling any fade.
	//
	// Parameters:
	//   - clip: the clip to play
	//   - loop: whether the clip loops
	Play(clip *model.AnimationClip, loop bool)

	// CrossFade fades from the playing clip to another over the given duration in Simple mode.
	// With nothing playing it behaves like Play. Durations below a small epsilon are raised to it.
	//
	// Parameters:
	//   - clip: the clip to fade to
	//   - duration: the fade length in seconds
	//   - loop: whether the new clip loops
	CrossFade(clip *model.AnimationClip, duration float32, loop bool)

	// Stop halts animation and holds the bind pose. Simple playback is cleared; delegates are kept and
	// resume with Resume.
	Stop()

	// Pause freezes playback time. The pipeline still runs, so IK keeps tracking its targets.
	Pause()

	// Resume continues after Pause or Stop.
	Resume()

	// IsPaused reports whether playback is paused.
	//
	// Returns:
	//   - bool: true if paused
	IsPaused() bool

	// IsPlaying reports whether a pose source is active: a clip in Simple mode or an attached delegate,
	// and not stopped.
	//
	// Returns:
	//   - bool: true if playing
	IsPlaying() bool

	// IsFading reports whether a Simple mode cross-fade is running.
	//
	// Returns:
	//   - bool: true while fading
	IsFading() bool

	// FadeProgress returns the Simple mode cross-fade progress.
	//
	// Returns:
	//   - float32: progress in [0, 1], 0 when not fading
	FadeProgress() float32

	// CurrentClip returns the clip playing in Simple mode, or nil.
	//
	// Returns:
	//   - *model.AnimationClip: the clip or nil
	CurrentClip() *model.AnimationClip

	// Time returns the Simple mode playback time of the current clip.
	//
	// Returns:
	//   - float32: the time in seconds
	Time() float32

	// SetSpeed sets the playback speed multiplier applied to every mode.
	//
	// Parameters:
	//   - speed: the multiplier (1 = normal, negative plays backwards)
	SetSpeed(speed float32)

	// Speed returns the playback speed multiplier.
	//
	// Returns:
	//   - float32: the multiplier
	Speed() float32

	// SetRootLock pins the root joint's horizontal (X/Z) translation and/or its rotation to the bind pose,
	// for clips whose root motion is driven by game logic instead.
	//
	// Parameters:
	//   - position: whether X/Z translation is locked
	//   - rotation: whether rotation is locked
	SetRootLock(position, rotation bool)

	// SetFootIK attaches foot grounding, or detaches it with nil.
	//
	// Parameters:
	//   - footIK: a FootIK that has been Setup against this skeleton
	SetFootIK(footIK ik.FootIK)

	// FootIK returns the attached foot grounding, or nil.
	//
	// Returns:
	//   - ik.FootIK: the FootIK or nil
	FootIK() ik.FootIK

	// SetLookAtIK attaches look-at, or detaches it with nil.
	//
	// Parameters:
	//   - lookAtIK: a LookAtIK that has been Setup against this skeleton
	SetLookAtIK(lookAtIK ik.LookAtIK)

	// LookAtIK returns the attached look-at, or nil.
	//
	// Returns:
	//   - ik.LookAtIK: the LookAtIK or nil
	LookAtIK() ik.LookAtIK

	// Update advances animation by dt seconds and recomputes every pose buffer.
	// No-op without a skeleton.
	//
	// Parameters:
	//   - dt: elapsed time since the last update in seconds
	Update(dt float32)

	// LocalPose returns the final local TRS pose of the last Update, after IK.
	//
	// Returns:
	//   - []model.Transform: the pose, aliased to the animator's buffer
	LocalPose() []model.Transform

	// GlobalTransforms returns the model-space joint matrices of the last Update.
	//
	// Returns:
	//   - []mgl32.Mat4: the matrices, aliased to the animator's buffer
	GlobalTransforms() []mgl32.Mat4

	// BoneMatrices returns the skinning matrices of the last Update.
	//
	// Returns:
	//   - []mgl32.Mat4: the matrices, aliased to the animator's buffer
	BoneMatrices() []mgl32.Mat4

	// Palette returns the fixed-capacity bone palette for GPU upload.
	//
	// Returns:
	//   - *model.BonePalette: the palette, aliased to the animator's buffer
	Palette() *model.BonePalette

	// Snapshot returns a deep copy of the pose buffers and Simple playback position.
	//
	// Returns:
	//   - Snapshot: the detached copy
	Snapshot() Snapshot
}

var _ Animator = &animator{}

// NewAnimator creates a new Animator instance with the specified options applied.
// The mode follows from the delegate options given; without any the Animator starts in ModeSimple.
//
// Parameters:
//   - options: variadic list of AnimatorBuilderOption functions to configure the Animator
//
// Returns:
//   - Animator: a new instance of Animator configured with the provided options
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animator{
		mu:        &sync.Mutex{},
		speed:     1,
		rootJoint: -1,
	}
	for _, opt := range options {
		opt(a)
	}
	a.resize()
	return a
}

// resize sizes every buffer and delegate for the current skeleton and resets the pose to bind.
func (a *animator) resize() {
	n := 0
	if a.skeleton != nil {
		n = a.skeleton.JointCount()
	}
	a.bind = common.Resize(a.bind, n)
	a.local = common.Resize(a.local, n)
	a.from = common.Resize(a.from, n)
	a.to = common.Resize(a.to, n)
	a.localMatrices = common.Resize(a.localMatrices, n)
	a.global = common.Resize(a.global, n)
	a.bones = common.Resize(a.bones, n)
	if a.skeleton == nil {
		a.palette.Set(nil)
		return
	}

	a.skeleton.BindPose(a.bind)
	copy(a.local, a.bind)
	if src := a.source(); src != nil {
		src.Resize(n)
	}

	a.rootJoint = -1
	if a.rootJointName != "" {
		if a.rootJoint = a.skeleton.FindJointIndex(a.rootJointName); a.rootJoint < 0 {
			log.Printf("[Animator] root joint %q not found, falling back to the first root", a.rootJointName)
		}
	}
	if a.rootJoint < 0 && len(a.skeleton.RootJointIndices) > 0 {
		a.rootJoint = a.skeleton.RootJointIndices[0]
	}
	a.finish()
}

// source returns the attached delegate, or nil in ModeSimple.
func (a *animator) source() poseSource {
	switch a.mode {
	case ModeBlendStack:
		return a.stack
	case ModeStateMachine:
		return a.machine
	default:
		return nil
	}
}

func (a *animator) Skeleton() *model.Skeleton {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.skeleton
}

func (a *animator) SetSkeleton(skeleton *model.Skeleton) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.skeleton = skeleton
	a.resize()
}

func (a *animator) Mode() AnimatorMode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *animator) SetBlendStack(stack blend_stack.BlendStack) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.setBlendStack(stack)
}

func (a *animator) setBlendStack(stack blend_stack.BlendStack) {
	a.stack, a.machine = stack, nil
	a.mode = ModeSimple
	if stack != nil {
		a.mode = ModeBlendStack
		stack.Resize(len(a.local))
	}
}

func (a *animator) BlendStack() blend_stack.BlendStack {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stack
}

func (a *animator) SetStateMachine(machine state_machine.StateMachine) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.setStateMachine(machine)
}

func (a *animator) setStateMachine(machine state_machine.StateMachine) {
	a.machine, a.stack = machine, nil
	a.mode = ModeSimple
	if machine != nil {
		a.mode = ModeStateMachine
		machine.Resize(len(a.local))
	}
}

func (a *animator) StateMachine() state_machine.StateMachine {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.machine
}

func (a *animator) Play(clip *model.AnimationClip, loop bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.simple.play(clip, loop)
	a.stopped = false
}

func (a *animator) CrossFade(clip *model.AnimationClip, duration float32, loop bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.simple.crossFade(clip, duration, loop)
	a.stopped = false
}

func (a *animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.simple.stop()
	a.stopped = true
}

func (a *animator) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paused = true
}

func (a *animator) Resume() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paused = false
	a.stopped = false
}

func (a *animator) IsPaused() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paused
}

func (a *animator) IsPlaying() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return false
	}
	return a.source() != nil || a.simple.current.Clip != nil
}

func (a *animator) IsFading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.simple.fading
}

func (a *animator) FadeProgress() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.simple.progress()
}

func (a *animator) CurrentClip() *model.AnimationClip {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.simple.current.Clip
}

func (a *animator) Time() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.simple.current.Time
}

func (a *animator) SetSpeed(speed float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.speed = speed
}

func (a *animator) Speed() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.speed
}

func (a *animator) SetRootLock(position, rotation bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lockPosition, a.lockRotation = position, rotation
}

func (a *animator) SetFootIK(footIK ik.FootIK) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.footIK = footIK
}

func (a *animator) FootIK() ik.FootIK {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.footIK
}

func (a *animator) SetLookAtIK(lookAtIK ik.LookAtIK) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lookAtIK = lookAtIK
}

func (a *animator) LookAtIK() ik.LookAtIK {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lookAtIK
}

func (a *animator) Update(dt float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.skeleton == nil {
		return
	}

	step := dt * a.speed
	if a.paused {
		step = 0
	}
	switch src := a.source(); {
	case a.stopped:
		model.ResetPose(a.local, a.bind)
	case src != nil:
		src.Update(step, a.bind, a.local)
	default:
		a.simple.update(step, a.bind, a.local, a.from, a.to)
	}

	a.applyRootLock()
	model.PoseToMatrices(a.localMatrices, a.local)
	a.skeleton.ComputeGlobalTransforms(a.localMatrices, a.global)

	pose := ik.Pose{
		Skeleton:      a.skeleton,
		Local:         a.local,
		LocalMatrices: a.localMatrices,
		Global:        a.global,
	}
	if a.footIK != nil {
		a.footIK.Apply(&pose)
	}
	if a.lookAtIK != nil {
		a.lookAtIK.Apply(&pose)
	}

	a.skeleton.ComputeBoneMatrices(a.global, a.bones)
	a.palette.Set(a.bones)
}

// applyRootLock resets the locked components of the root joint to the bind pose.
func (a *animator) applyRootLock() {
	if a.rootJoint < 0 || (!a.lockPosition && !a.lockRotation) {
		return
	}
	root, bind := &a.local[a.rootJoint], a.bind[a.rootJoint]
	if a.lockPosition {
		root.Translation[0] = bind.Translation[0]
		root.Translation[2] = bind.Translation[2]
	}
	if a.lockRotation {
		root.Rotation = bind.Rotation
	}
}

// finish recomputes the matrix buffers from the current local pose without running IK.
func (a *animator) finish() {
	model.PoseToMatrices(a.localMatrices, a.local)
	a.skeleton.ComputeGlobalTransforms(a.localMatrices, a.global)
	a.skeleton.ComputeBoneMatrices(a.global, a.bones)
	a.palette.Set(a.bones)
}

func (a *animator) LocalPose() []model.Transform {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.local
}

func (a *animator) GlobalTransforms() []mgl32.Mat4 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.global
}

func (a *animator) BoneMatrices() []mgl32.Mat4 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bones
}

func (a *animator) Palette() *model.BonePalette {
	a.mu.Lock()
	defer a.mu.Unlock()
	return &a.palette
}

func (a *animator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	src := Snapshot{
		Mode:   a.mode,
		Time:   a.simple.current.Time,
		Local:  a.local,
		Global: a.global,
		Bones:  a.bones,
	}
	if a.mode == ModeSimple && a.simple.current.Clip != nil {
		src.Clip = a.simple.current.Clip.Name
	}
	var out Snapshot
	if err := deepcopy.Copy(&out, &src); err != nil {
		log.Printf("[Animator] snapshot copy failed: %v", err)
	}
	return out
}
