package testctx

import (
	"fmt"

	"github.com/abdul-hamid-achik/fixspec/packages/core/expand"
	"github.com/abdul-hamid-achik/fixspec/packages/core/lifecycle"
	"github.com/abdul-hamid-achik/fixspec/packages/core/names"
)

// DependencyError is raised when a required name matches no test.
type DependencyError struct {
	Ref string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("unresolved dependency: %v", e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// DependencyFailedError is raised when a required test did not pass.
type DependencyFailedError struct {
	Ref   string
	Key   names.Key
	Path  expand.Path
	State lifecycle.State
}

func (e *DependencyFailedError) Error() string {
	target := e.Key.String()
	if len(e.Path) > 0 {
		target += " (" + e.Path.String() + ")"
	}
	return fmt.Sprintf("this test depends on '%s', which did not pass (%s)", target, e.State)
}

// Postponed is raised when a required test has instances that have not
// run yet. The runner executes the caller again once they have.
type Postponed struct {
	Key     names.Key
	Missing []expand.Path
}

func (p *Postponed) Error() string {
	return fmt.Sprintf("waiting for %s", p.Key)
}

// UsageError reports an operation that is not available in the current
// scope, such as Set called from a file-level fixture.
type UsageError struct {
	Op string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s is only available inside a test", e.Op)
}
