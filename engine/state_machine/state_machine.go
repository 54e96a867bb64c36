package state_machine

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/blend_tree"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// statePlayback is the playback position within one state.
type statePlayback struct {
	index int
	time  float32
}

// stateMachine is the implementation of the StateMachine interface.
type stateMachine struct {
	def    *Definition
	params *Parameters

	current, next statePlayback

	transitioning     bool
	elapsed, duration float32

	normalized float32

	from, to []model.Transform
	ws       blend_tree.Workspace
}

// StateMachine defines the interface for the per-entity runtime of a state machine Definition.
//
// The machine is always either playing one state or cross-fading between two. It starts playing
// state 0. While playing, each Update advances the state, samples it, then checks the state's
// transitions in declaration order followed by AnyState transitions; the first one whose conditions
// hold starts a cross-fade. While cross-fading no transitions are evaluated, so a transition cannot
// be interrupted.
//
// A StateMachine is not safe for concurrent use, except through its Parameters store.
type StateMachine interface {
	// Definition returns the shared topology this machine runs.
	//
	// Returns:
	//   - *Definition: the definition
	Definition() *Definition

	// Parameters returns the float and trigger store transitions and blend trees read from.
	//
	// Returns:
	//   - *Parameters: the parameter store
	Parameters() *Parameters

	// CurrentState returns the index of the playing state (the source state while cross-fading).
	//
	// Returns:
	//   - int: the state index
	CurrentState() int

	// CurrentStateName returns the name of the playing state.
	//
	// Returns:
	//   - string: the state name
	CurrentStateName() string

	// NextState returns the destination of the running cross-fade, or -1 when not transitioning.
	//
	// Returns:
	//   - int: the state index or -1
	NextState() int

	// IsTransitioning reports whether a cross-fade is running.
	//
	// Returns:
	//   - bool: true while cross-fading
	IsTransitioning() bool

	// TransitionProgress returns how far the running cross-fade has progressed.
	//
	// Returns:
	//   - float32: progress in [0, 1], 0 when not transitioning
	TransitionProgress() float32

	// NormalizedTime returns the current state's time divided by its duration as of the last Update,
	// before any loop wrap.
	//
	// Returns:
	//   - float32: the normalized time
	NormalizedTime() float32

	// Play immediately enters the named state from time zero, cancelling any cross-fade.
	//
	// Parameters:
	//   - name: the state name
	//
	// Returns:
	//   - error: ErrUnknownState if no state has that name
	Play(name string) error

	// Resize sizes the scratch poses for a skeleton's joint count.
	//
	// Parameters:
	//   - jointCount: the joint count
	Resize(jointCount int)

	// Update advances the machine by dt and writes the resulting pose into out.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//   - base: the pose unanimated components fall back to, normally the bind pose
	//   - out: destination pose
	Update(dt float32, base, out []model.Transform)
}

var _ StateMachine = &stateMachine{}

// NewStateMachine creates a new StateMachine running the given definition with the specified options applied.
//
// Parameters:
//   - def: the state machine topology
//   - options: a variadic list of StateMachineBuilderOption functions to configure the StateMachine
//
// Returns:
//   - StateMachine: a new instance of StateMachine playing the initial state
func NewStateMachine(def *Definition, options ...StateMachineBuilderOption) StateMachine {
	s := &stateMachine{def: def}
	for _, opt := range options {
		opt(s)
	}
	if s.params == nil {
		s.params = NewParameters()
	}
	return s
}

func (s *stateMachine) Definition() *Definition {
	return s.def
}

func (s *stateMachine) Parameters() *Parameters {
	return s.params
}

func (s *stateMachine) CurrentState() int {
	return s.current.index
}

func (s *stateMachine) CurrentStateName() string {
	return s.def.States[s.current.index].Name
}

func (s *stateMachine) NextState() int {
	if !s.transitioning {
		return -1
	}
	return s.next.index
}

func (s *stateMachine) IsTransitioning() bool {
	return s.transitioning
}

func (s *stateMachine) TransitionProgress() float32 {
	if !s.transitioning {
		return 0
	}
	return min(s.elapsed/s.duration, 1)
}

func (s *stateMachine) NormalizedTime() float32 {
	return s.normalized
}

func (s *stateMachine) Play(name string) error {
	i := s.def.StateIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	s.current = statePlayback{index: i}
	s.transitioning = false
	s.elapsed = 0
	s.normalized = 0
	return nil
}

func (s *stateMachine) Resize(jointCount int) {
	s.from = common.Resize(s.from, jointCount)
	s.to = common.Resize(s.to, jointCount)
}

func (s *stateMachine) Update(dt float32, base, out []model.Transform) {
	if len(s.from) < len(out) {
		s.Resize(len(out))
	}

	if !s.transitioning {
		s.normalized = s.advance(&s.current, dt)
		s.sample(s.current, out, base)
		if t, ok := s.findTransition(); ok {
			s.next = statePlayback{index: t.To}
			s.duration = max(t.Duration, common.Epsilon)
			s.elapsed = 0
			s.transitioning = true
		}
		return
	}

	s.normalized = s.advance(&s.current, dt)
	s.advance(&s.next, dt)
	s.elapsed += dt
	t := min(s.elapsed/s.duration, 1)

	from, to := s.from[:len(out)], s.to[:len(out)]
	s.sample(s.current, from, base)
	s.sample(s.next, to, base)
	model.BlendPoses(out, from, to, t)

	if t >= 1 {
		s.current = s.next
		s.transitioning = false
		s.elapsed = 0
	}
}

// advance steps a state's time and returns its normalized time before any loop wrap.
func (s *stateMachine) advance(p *statePlayback, dt float32) float32 {
	st := &s.def.States[p.index]
	duration := motionDuration(st.Motion)
	if duration <= 0 {
		p.time = 0
		return 0
	}
	delta := dt * st.Speed
	raw := (p.time + delta) / duration
	p.time = model.AdvanceClipTime(p.time, delta, duration, st.Loop)
	return raw
}

// sample writes a state's pose at its current time into out.
func (s *stateMachine) sample(p statePlayback, out, base []model.Transform) {
	switch m := s.def.States[p.index].Motion.(type) {
	case ClipMotion:
		m.Clip.SampleTRS(p.time, len(out), out, base)
	case BlendTreeMotion:
		if m.Tree == nil {
			model.ResetPose(out, base)
			return
		}
		param := mgl32.Vec2{s.params.Float(m.Tree.ParameterX()), s.params.Float(m.Tree.ParameterY())}
		m.Tree.Evaluate(param, p.time, out, base, &s.ws)
	default:
		model.ResetPose(out, base)
	}
}

// findTransition returns the first transition out of the current state whose conditions hold,
// checking the state's own transitions before AnyState ones. A fired trigger is consumed.
func (s *stateMachine) findTransition() (Transition, bool) {
	for _, from := range [2]int{s.current.index, AnyState} {
		for _, t := range s.def.Transitions {
			if t.From != from || (from == AnyState && t.To == s.current.index) {
				continue
			}
			if s.ready(t) {
				if t.Trigger != "" {
					s.params.consumeTrigger(t.Trigger)
				}
				return t, true
			}
		}
	}
	return Transition{}, false
}

// ready reports whether every condition a transition declares holds.
func (s *stateMachine) ready(t Transition) bool {
	if t.Trigger == "" && !t.HasExitTime {
		return false
	}
	if t.HasExitTime && s.normalized < t.ExitTime {
		return false
	}
	return t.Trigger == "" || s.params.IsTriggerSet(t.Trigger)
}

func motionDuration(m Motion) float32 {
	if m == nil {
		return 0
	}
	return m.Duration()
}
