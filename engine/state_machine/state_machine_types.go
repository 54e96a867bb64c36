package state_machine

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/blend_tree"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// AnyState is the From index of a transition that may fire from whichever state is playing.
const AnyState = -1

var (
	// ErrNoStates is returned for a definition without states.
	ErrNoStates = errors.New("state machine has no states")

	// ErrStateIndex is returned for a transition referencing a state that does not exist.
	ErrStateIndex = errors.New("state index out of range")

	// ErrUnknownState is returned when a state name does not match any state.
	ErrUnknownState = errors.New("unknown state")
)

// Motion is what a state plays: either a ClipMotion or a BlendTreeMotion.
type Motion interface {
	// Duration returns the length of one cycle of the motion in seconds.
	Duration() float32

	isMotion()
}

// ClipMotion plays a single clip.
type ClipMotion struct {
	Clip *model.AnimationClip
}

// Duration returns the clip's duration.
func (m ClipMotion) Duration() float32 {
	if m.Clip == nil {
		return 0
	}
	return m.Clip.Duration
}

func (ClipMotion) isMotion() {}

// BlendTreeMotion plays a blend tree driven by the machine's float parameters.
type BlendTreeMotion struct {
	Tree blend_tree.BlendTree
}

// Duration returns the tree's duration.
func (m BlendTreeMotion) Duration() float32 {
	if m.Tree == nil {
		return 0
	}
	return m.Tree.Duration()
}

func (BlendTreeMotion) isMotion() {}

// State is a named node of the state machine.
type State struct {
	Name   string
	Motion Motion
	Loop   bool

	// Speed scales playback; zero is treated as 1.
	Speed float32
}

// Transition is a directed edge between two states.
// A transition fires when every condition it declares holds: its trigger is raised (when Trigger is set)
// and the source state's normalized time has reached ExitTime (when HasExitTime is set).
// A transition declaring neither condition never fires.
type Transition struct {
	// From is the source state index, or AnyState.
	From int

	// To is the destination state index.
	To int

	// Duration is the cross-fade length in seconds.
	Duration float32

	// Trigger names the trigger parameter this transition waits for and consumes.
	Trigger string

	// HasExitTime enables the ExitTime condition.
	HasExitTime bool

	// ExitTime is the normalized source time (time / duration) at which the transition may fire.
	ExitTime float32
}

// Definition is the immutable topology of a state machine, shareable across entities.
type Definition struct {
	States      []State
	Transitions []Transition
}

// NewDefinition validates states and transitions and builds a Definition.
// States with zero speed get speed 1.
//
// Parameters:
//   - states: the states, the first is the initial state
//   - transitions: the transitions, evaluated in declaration order
//
// Returns:
//   - *Definition: the definition
//   - error: ErrNoStates or ErrStateIndex when the topology is unusable
func NewDefinition(states []State, transitions []Transition) (*Definition, error) {
	if len(states) == 0 {
		return nil, ErrNoStates
	}
	d := &Definition{
		States:      make([]State, len(states)),
		Transitions: make([]Transition, len(transitions)),
	}
	copy(d.States, states)
	copy(d.Transitions, transitions)
	for i := range d.States {
		if d.States[i].Speed == 0 {
			d.States[i].Speed = 1
		}
	}
	for i, t := range d.Transitions {
		if t.From != AnyState && (t.From < 0 || t.From >= len(states)) {
			return nil, fmt.Errorf("%w: transition %d from %d", ErrStateIndex, i, t.From)
		}
		if t.To < 0 || t.To >= len(states) {
			return nil, fmt.Errorf("%w: transition %d to %d", ErrStateIndex, i, t.To)
		}
	}
	return d, nil
}

// StateIndex returns the index of the named state, or -1.
//
// Parameters:
//   - name: the state name
//
// Returns:
//   - int: the state index or -1
func (d *Definition) StateIndex(name string) int {
	for i := range d.States {
		if d.States[i].Name == name {
			return i
		}
	}
	return -1
}
