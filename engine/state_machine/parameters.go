package state_machine

import "sync"

// Parameters is the named float and trigger store a StateMachine reads its conditions from.
// Game logic writes it from any goroutine; the owning state machine reads and consumes triggers
// during Update.
type Parameters struct {
	mu       sync.Mutex
	floats   map[string]float32
	triggers map[string]bool
}

// NewParameters creates an empty parameter store.
//
// Returns:
//   - *Parameters: the store
func NewParameters() *Parameters {
	return &Parameters{
		floats:   make(map[string]float32),
		triggers: make(map[string]bool),
	}
}

// SetFloat sets a float parameter.
//
// Parameters:
//   - name: the parameter name
//   - value: the new value
func (p *Parameters) SetFloat(name string, value float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.floats[name] = value
}

// Float returns a float parameter, or 0 if it was never set.
//
// Parameters:
//   - name: the parameter name
//
// Returns:
//   - float32: the value
func (p *Parameters) Float(name string) float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.floats[name]
}

// SetTrigger raises a trigger. It stays raised until a transition consumes it or ResetTrigger clears it.
//
// Parameters:
//   - name: the trigger name
func (p *Parameters) SetTrigger(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers[name] = true
}

// ResetTrigger lowers a trigger without firing anything.
//
// Parameters:
//   - name: the trigger name
func (p *Parameters) ResetTrigger(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.triggers, name)
}

// IsTriggerSet reports whether a trigger is raised.
//
// Parameters:
//   - name: the trigger name
//
// Returns:
//   - bool: true if the trigger is raised
func (p *Parameters) IsTriggerSet(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.triggers[name]
}

// consumeTrigger lowers a trigger and reports whether it was raised.
func (p *Parameters) consumeTrigger(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	set := p.triggers[name]
	delete(p.triggers, name)
	return set
}
