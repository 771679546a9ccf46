package runner

import (
	"time"

	"github.com/abdul-hamid-achik/fixspec/packages/core/lifecycle"
)

// TestResult is the outcome of one run instance, or of a node that could
// not be bound.
type TestResult struct {
	// ID is the position of the node in the tree.
	ID string
	// Name is the qualified name of the test.
	Name string
	// Run lists the run variants of the instance, e.g. "a1/b2".
	Run      string
	File     string
	State    lifecycle.State
	Message  string
	Duration time.Duration
}

// Passed reports whether the instance passed.
func (r *TestResult) Passed() bool {
	return r.State == lifecycle.Passed
}

// Skipped reports whether the instance was skipped.
func (r *TestResult) Skipped() bool {
	return r.State == lifecycle.Skipped
}

// DisplayName is the name with the run variants appended.
func (r *TestResult) DisplayName() string {
	if r.Run == "" {
		return r.Name
	}
	return r.Name + " [" + r.Run + "]"
}

type RunResult struct {
	RunID    string
	Suite    string
	Results  []*TestResult
	Duration time.Duration
	Passed   int
	Failed   int
	Skipped  int
	Errored  int
}

// Success reports whether no instance failed or errored.
func (r *RunResult) Success() bool {
	return r.Failed == 0 && r.Errored == 0
}

// Total is the number of reported results.
func (r *RunResult) Total() int {
	return len(r.Results)
}

// Recount recomputes the counters from Results.
func (r *RunResult) Recount() {
	r.Passed, r.Failed, r.Skipped, r.Errored = 0, 0, 0, 0
	for _, res := range r.Results {
		switch res.State {
		case lifecycle.Passed:
			r.Passed++
		case lifecycle.Failed:
			r.Failed++
		case lifecycle.Skipped:
			r.Skipped++
		case lifecycle.Errored:
			r.Errored++
		}
	}
}
