package assertions

import (
	"errors"
	"fmt"
)

// Failure is raised when an assertion does not hold.
type Failure struct {
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

// Skipped is raised to stop an execution without failing it.
type Skipped struct {
	Reason string
}

func (s *Skipped) Error() string {
	if s.Reason == "" {
		return "skipped"
	}
	return "skipped: " + s.Reason
}

// Fail raises an assertion failure with the given message.
func Fail(msg string) {
	panic(&Failure{Message: msg})
}

// Failf raises an assertion failure with a formatted message.
func Failf(format string, args ...any) {
	panic(&Failure{Message: fmt.Sprintf(format, args...)})
}

// Skip stops the current execution and reports it as skipped.
func Skip(reason string) {
	panic(&Skipped{Reason: reason})
}

// Skipf is Skip with a formatted reason.
func Skipf(format string, args ...any) {
	panic(&Skipped{Reason: fmt.Sprintf(format, args...)})
}

// AsFailure reports whether v, typically a recovered panic value, is an
// assertion failure.
func AsFailure(v any) (*Failure, bool) {
	err, ok := v.(error)
	if !ok {
		return nil, false
	}
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// AsSkipped reports whether v is a skip signal.
func AsSkipped(v any) (*Skipped, bool) {
	err, ok := v.(error)
	if !ok {
		return nil, false
	}
	var s *Skipped
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}
