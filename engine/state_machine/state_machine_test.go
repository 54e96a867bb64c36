package state_machine

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/blend_tree"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-4

// holdClip keeps joint 0 at a fixed X offset for its whole duration.
func holdClip(name string, duration, x float32) *model.AnimationClip {
	return &model.AnimationClip{
		Name:     name,
		Duration: duration,
		Channels: []model.AnimationChannel{{
			JointIndex:   0,
			PositionKeys: []model.VectorKeyframe{{Time: 0, Value: mgl32.Vec3{x, 0, 0}}},
		}},
	}
}

func mustDefinition(t *testing.T, states []State, transitions []Transition) *Definition {
	t.Helper()
	def, err := NewDefinition(states, transitions)
	if err != nil {
		t.Fatalf("NewDefinition: %v", err)
	}
	return def
}

func x(out []model.Transform) float32 {
	return out[0].Translation[0]
}

func TestTriggerIsConsumed(t *testing.T) {
	def := mustDefinition(t,
		[]State{
			{Name: "idle", Motion: ClipMotion{Clip: holdClip("idle", 1, 0)}, Loop: true},
			{Name: "jump", Motion: ClipMotion{Clip: holdClip("jump", 1, 1)}, Loop: true},
		},
		[]Transition{
			{From: 0, To: 1, Duration: 0.1, Trigger: "jump"},
			{From: 1, To: 0, Duration: 0.1, Trigger: "jump"},
		})
	sm := NewStateMachine(def, WithJointCount(1))
	out := make([]model.Transform, 1)

	sm.Parameters().SetTrigger("jump")
	sm.Update(0.016, nil, out)
	if !sm.IsTransitioning() || sm.NextState() != 1 {
		t.Fatalf("trigger did not start the transition")
	}
	if sm.Parameters().IsTriggerSet("jump") {
		t.Fatalf("trigger was not consumed")
	}

	sm.Update(0.2, nil, out)
	if sm.IsTransitioning() || sm.CurrentStateName() != "jump" {
		t.Fatalf("transition did not complete, in %q", sm.CurrentStateName())
	}
	for range 10 {
		sm.Update(0.1, nil, out)
	}
	if sm.CurrentStateName() != "jump" || sm.IsTransitioning() {
		t.Errorf("consumed trigger refired, now in %q", sm.CurrentStateName())
	}
}

func TestExitTimeBoundaryIsInclusive(t *testing.T) {
	def := mustDefinition(t,
		[]State{
			{Name: "a", Motion: ClipMotion{Clip: holdClip("a", 1, 0)}},
			{Name: "b", Motion: ClipMotion{Clip: holdClip("b", 1, 1)}},
		},
		[]Transition{{From: 0, To: 1, Duration: 0.25, HasExitTime: true, ExitTime: 1}})
	sm := NewStateMachine(def)
	out := make([]model.Transform, 1)

	sm.Update(0.5, nil, out)
	if sm.IsTransitioning() {
		t.Fatalf("fired before exit time at %v", sm.NormalizedTime())
	}
	sm.Update(0.5, nil, out)
	if !sm.IsTransitioning() {
		t.Fatalf("did not fire at exit time %v", sm.NormalizedTime())
	}
}

func TestExitTimeSeesLoopWrap(t *testing.T) {
	def := mustDefinition(t,
		[]State{
			{Name: "a", Motion: ClipMotion{Clip: holdClip("a", 1, 0)}, Loop: true},
			{Name: "b", Motion: ClipMotion{Clip: holdClip("b", 1, 1)}},
		},
		[]Transition{{From: 0, To: 1, Duration: 0.25, HasExitTime: true, ExitTime: 0.9}})
	sm := NewStateMachine(def)
	out := make([]model.Transform, 1)

	sm.Update(0.8, nil, out)
	if sm.IsTransitioning() {
		t.Fatalf("fired early")
	}
	sm.Update(0.3, nil, out)
	if !sm.IsTransitioning() {
		t.Fatalf("a step wrapping past the exit time did not fire, normalized %v", sm.NormalizedTime())
	}
}

func TestCrossFadeBlendsAndPromotes(t *testing.T) {
	def := mustDefinition(t,
		[]State{
			{Name: "a", Motion: ClipMotion{Clip: holdClip("a", 1, 0)}, Loop: true},
			{Name: "b", Motion: ClipMotion{Clip: holdClip("b", 1, 2)}, Loop: true},
		},
		[]Transition{{From: 0, To: 1, Duration: 1, Trigger: "go"}})
	sm := NewStateMachine(def)
	out := make([]model.Transform, 1)

	sm.Parameters().SetTrigger("go")
	sm.Update(0, nil, out)
	sm.Update(0.5, nil, out)
	if !scalar.EqualWithinAbs(float64(x(out)), 1, tol) {
		t.Errorf("mid-fade x = %v, want 1", x(out))
	}
	if !scalar.EqualWithinAbs(float64(sm.TransitionProgress()), 0.5, tol) {
		t.Errorf("progress = %v, want 0.5", sm.TransitionProgress())
	}
	sm.Update(0.5, nil, out)
	if !scalar.EqualWithinAbs(float64(x(out)), 2, tol) || sm.CurrentState() != 1 || sm.IsTransitioning() {
		t.Errorf("fade did not finish on b: x = %v, state %d", x(out), sm.CurrentState())
	}
}

func TestTransitionsDoNotInterruptTransitions(t *testing.T) {
	def := mustDefinition(t,
		[]State{
			{Name: "a", Motion: ClipMotion{Clip: holdClip("a", 1, 0)}, Loop: true},
			{Name: "b", Motion: ClipMotion{Clip: holdClip("b", 1, 1)}, Loop: true},
			{Name: "c", Motion: ClipMotion{Clip: holdClip("c", 1, 2)}, Loop: true},
		},
		[]Transition{
			{From: 0, To: 1, Duration: 1, Trigger: "b"},
			{From: AnyState, To: 2, Duration: 0.1, Trigger: "c"},
		})
	sm := NewStateMachine(def)
	out := make([]model.Transform, 1)

	sm.Parameters().SetTrigger("b")
	sm.Update(0.1, nil, out)
	sm.Parameters().SetTrigger("c")
	sm.Update(0.5, nil, out)
	if sm.NextState() != 1 {
		t.Fatalf("transition was interrupted, next = %d", sm.NextState())
	}
	sm.Update(0.6, nil, out)
	if sm.CurrentState() != 1 {
		t.Fatalf("expected to land on b, in %d", sm.CurrentState())
	}
	sm.Update(0.1, nil, out)
	if sm.NextState() != 2 {
		t.Errorf("pending trigger should fire once playing again, next = %d", sm.NextState())
	}
}

func TestOwnTransitionsBeforeAnyState(t *testing.T) {
	def := mustDefinition(t,
		[]State{
			{Name: "a", Motion: ClipMotion{Clip: holdClip("a", 1, 0)}},
			{Name: "b", Motion: ClipMotion{Clip: holdClip("b", 1, 1)}},
			{Name: "c", Motion: ClipMotion{Clip: holdClip("c", 1, 2)}},
		},
		[]Transition{
			{From: AnyState, To: 2, Duration: 0.1, Trigger: "go"},
			{From: 0, To: 1, Duration: 0.1, Trigger: "go"},
		})
	sm := NewStateMachine(def)
	sm.Parameters().SetTrigger("go")
	sm.Update(0.1, nil, make([]model.Transform, 1))
	if sm.NextState() != 1 {
		t.Errorf("next = %d, want the state's own transition to b", sm.NextState())
	}
}

func TestTransitionWithoutConditionsNeverFires(t *testing.T) {
	def := mustDefinition(t,
		[]State{
			{Name: "a", Motion: ClipMotion{Clip: holdClip("a", 1, 0)}, Loop: true},
			{Name: "b", Motion: ClipMotion{Clip: holdClip("b", 1, 1)}},
		},
		[]Transition{{From: 0, To: 1, Duration: 0.1}})
	sm := NewStateMachine(def)
	out := make([]model.Transform, 1)
	for range 30 {
		sm.Update(0.1, nil, out)
	}
	if sm.IsTransitioning() || sm.CurrentState() != 0 {
		t.Errorf("unconditional transition fired")
	}
}

func TestBlendTreeStateReadsParameters(t *testing.T) {
	tree := blend_tree.NewBlendTree(blend_tree.BlendTreeType1D,
		blend_tree.WithNode1D(holdClip("walk", 1, 0), 0),
		blend_tree.WithNode1D(holdClip("run", 1, 4), 1),
		blend_tree.WithParameter("speed"))
	def := mustDefinition(t, []State{{Name: "move", Motion: BlendTreeMotion{Tree: tree}, Loop: true}}, nil)
	params := NewParameters()
	sm := NewStateMachine(def, WithParameters(params))

	params.SetFloat("speed", 0.25)
	out := make([]model.Transform, 1)
	sm.Update(0.1, nil, out)
	if !scalar.EqualWithinAbs(float64(x(out)), 1, tol) {
		t.Errorf("x = %v, want 1", x(out))
	}
}

func TestPlayAndDefinitionErrors(t *testing.T) {
	if _, err := NewDefinition(nil, nil); !errors.Is(err, ErrNoStates) {
		t.Errorf("empty definition err = %v", err)
	}
	states := []State{{Name: "a"}}
	if _, err := NewDefinition(states, []Transition{{From: 0, To: 3}}); !errors.Is(err, ErrStateIndex) {
		t.Errorf("bad transition err = %v", err)
	}

	def := mustDefinition(t, []State{{Name: "a"}, {Name: "b"}}, nil)
	if def.States[0].Speed != 1 {
		t.Errorf("zero speed not defaulted")
	}
	sm := NewStateMachine(def)
	if err := sm.Play("missing"); !errors.Is(err, ErrUnknownState) {
		t.Errorf("Play(missing) err = %v", err)
	}
	if err := sm.Play("b"); err != nil || sm.CurrentState() != 1 {
		t.Errorf("Play(b) = %v, state %d", err, sm.CurrentState())
	}
}
