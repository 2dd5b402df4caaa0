package sandbox

import "fmt"

// --- Lifecycle state machine ---
//
// A sandbox moves idle -> creating -> ready, may drop to error from
// creating or ready, and ends in closed from any live state. closed is
// terminal.

// State is the lifecycle phase of a sandbox.
type State string

const (
	StateIdle     State = "idle"
	StateCreating State = "creating"
	StateReady    State = "ready"
	StateError    State = "error"
	StateClosed   State = "closed"
)

var transitions = map[State][]State{
	StateIdle:     {StateCreating, StateClosed},
	StateCreating: {StateReady, StateError, StateClosed},
	StateReady:    {StateError, StateClosed},
	StateError:    {StateClosed},
	StateClosed:   {},
}

// CanTransition reports whether moving from s to next is allowed.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// checkTransition returns an error describing a forbidden move.
func checkTransition(id string, from, to State) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("sandbox %q: invalid transition %s -> %s", id, from, to)
	}
	return nil
}
