// Package lifecycle defines the states one run instance moves through and
// enforces the order of transitions.
package lifecycle

import "fmt"

// State of a run instance.
type State int

const (
	Pending State = iota
	SettingUp
	Running
	TearingDown
	Passed
	Failed
	Skipped
	Errored
	// Deferred marks an instance that asked for a dependency which has not
	// run yet. It is executed again in a later pass and never reported.
	Deferred
	// NotApplicable marks an instance whose argument types do not fit the
	// test. It is never reported.
	NotApplicable
)

var stateNames = map[State]string{
	Pending:       "pending",
	SettingUp:     "setting up",
	Running:       "running",
	TearingDown:   "tearing down",
	Passed:        "passed",
	Failed:        "failed",
	Skipped:       "skipped",
	Errored:       "errored",
	Deferred:      "deferred",
	NotApplicable: "not applicable",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether s is a final outcome.
func (s State) Terminal() bool {
	return s >= Passed
}

// Reported reports whether instances ending in s produce a result.
func (s State) Reported() bool {
	return s >= Passed && s <= Errored
}

// Failing reports whether s fails the run.
func (s State) Failing() bool {
	return s == Failed || s == Errored
}

// AfterTeardownError is the outcome once a teardown failed: a passing
// instance becomes errored, any other outcome stands.
func AfterTeardownError(s State) State {
	if s == Passed {
		return Errored
	}
	return s
}

// TransitionError is returned for a move the machine does not allow.
type TransitionError struct {
	From, To State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// Machine tracks one instance. The outcome is decided while setting up or
// running and settled once tearing down has finished.
type Machine struct {
	state   State
	outcome State
}

func NewMachine() *Machine {
	return &Machine{state: Pending, outcome: Pending}
}

func (m *Machine) State() State {
	return m.state
}

// Outcome returns the decided outcome, Pending while undecided.
func (m *Machine) Outcome() State {
	return m.outcome
}

// Enter moves to one of the non-terminal phases.
func (m *Machine) Enter(next State) error {
	allowed := false
	switch next {
	case SettingUp:
		allowed = m.state == Pending
	case Running:
		allowed = m.state == SettingUp
	case TearingDown:
		allowed = m.state == SettingUp || m.state == Running
	}
	if !allowed {
		return &TransitionError{From: m.state, To: next}
	}
	m.state = next
	return nil
}

// Decide records the outcome of the setup or run phase. The first decision
// wins; later ones are ignored.
func (m *Machine) Decide(outcome State) {
	if m.outcome == Pending && outcome.Terminal() {
		m.outcome = outcome
	}
}

// TeardownFailed applies a teardown error to the decided outcome.
func (m *Machine) TeardownFailed() {
	if m.outcome == Pending {
		m.outcome = Passed
	}
	m.outcome = AfterTeardownError(m.outcome)
}

// Settle ends the instance. Reaching the end of the run phase without a
// decision means the instance passed.
func (m *Machine) Settle() (State, error) {
	if m.state != TearingDown {
		return m.state, &TransitionError{From: m.state, To: m.outcome}
	}
	if m.outcome == Pending {
		m.outcome = Passed
	}
	m.state = m.outcome
	return m.state, nil
}
