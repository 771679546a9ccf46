package testctx

import "fmt"

// Cleaner defers actions to the end of a test.
type Cleaner interface {
	Teardown(fn func())
}

type cleanups struct {
	fns []func()
}

// Teardown registers fn to run after the test body, whatever its outcome.
func (c *cleanups) Teardown(fn func()) {
	if fn != nil {
		c.fns = append(c.fns, fn)
	}
}

// run executes the registered actions, last registered first. A panicking
// action does not stop the ones registered before it.
func (c *cleanups) run() []error {
	var errs []error
	for i := len(c.fns) - 1; i >= 0; i-- {
		if err := runCleanup(c.fns[i]); err != nil {
			errs = append(errs, err)
		}
	}
	c.fns = nil
	return errs
}

func runCleanup(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	fn()
	return nil
}
