package state_machine

// StateMachineBuilderOption is a functional option for configuring a StateMachine during construction.
type StateMachineBuilderOption func(*stateMachine)

// WithParameters is an option builder that shares an existing parameter store with the StateMachine.
// Without it the StateMachine creates its own.
//
// Parameters:
//   - params: the parameter store
//
// Returns:
//   - StateMachineBuilderOption: a function that applies the parameter store to a state machine
func WithParameters(params *Parameters) StateMachineBuilderOption {
	return func(s *stateMachine) {
		s.params = params
	}
}

// WithInitialState is an option builder that starts the StateMachine in the given state instead of state 0.
// Out-of-range indices are ignored.
//
// Parameters:
//   - index: the state index
//
// Returns:
//   - StateMachineBuilderOption: a function that applies the initial state to a state machine
func WithInitialState(index int) StateMachineBuilderOption {
	return func(s *stateMachine) {
		if index >= 0 && index < len(s.def.States) {
			s.current = statePlayback{index: index}
		}
	}
}

// WithJointCount is an option builder that sizes the StateMachine's scratch poses up front.
//
// Parameters:
//   - count: the skeleton's joint count
//
// Returns:
//   - StateMachineBuilderOption: a function that applies the joint count to a state machine
func WithJointCount(count int) StateMachineBuilderOption {
	return func(s *stateMachine) {
		s.Resize(count)
	}
}
