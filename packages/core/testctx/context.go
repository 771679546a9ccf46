package testctx

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/fixspec/packages/assertions"
	"github.com/abdul-hamid-achik/fixspec/packages/core/depstore"
	"github.com/abdul-hamid-achik/fixspec/packages/core/expand"
	"github.com/abdul-hamid-achik/fixspec/packages/core/names"
)

var (
	_ StateSharer   = (*Context)(nil)
	_ Cleaner       = (*Context)(nil)
	_ SubtestRunner = (*Context)(nil)
)

// Options identify the test instance a Context belongs to.
type Options struct {
	Caller names.Key
	Path   expand.Path
	Index  *names.Index
	Store  *depstore.Store
}

// Context is created for one test execution and discarded once its
// teardown has run.
type Context struct {
	sharing  *sharing
	cleanups *cleanups
	subtests *subtests
}

// New returns the Context of one test instance.
func New(opts Options) *Context {
	return &Context{
		sharing: &sharing{
			caller: opts.Caller,
			path:   opts.Path,
			index:  opts.Index,
			store:  opts.Store,
		},
		cleanups: &cleanups{},
		subtests: &subtests{},
	}
}

// NewScope returns a Context for fixtures that are shared by several tests,
// such as setup_file. Only Teardown is available; its actions run when the
// scope closes.
func NewScope() *Context {
	return New(Options{})
}

// Set publishes value for tests that require this one.
func (c *Context) Set(value any) {
	c.sharing.Set(value)
}

// Requires returns the values published by the named tests.
func (c *Context) Requires(refs ...string) map[string]any {
	return c.sharing.Requires(refs...)
}

// Require returns the value published by one test.
func (c *Context) Require(ref string) any {
	return c.sharing.Require(ref)
}

// Teardown registers fn to run after the test.
func (c *Context) Teardown(fn func()) {
	c.cleanups.Teardown(fn)
}

// Subtest runs fn, recording its assertion failures.
func (c *Context) Subtest(fn func()) {
	c.subtests.Subtest(fn)
}

// Errorf records a failure and lets the test continue.
func (c *Context) Errorf(format string, args ...any) {
	c.subtests.record(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// FailNow ends the test as failed. Messages recorded before are kept.
func (c *Context) FailNow() {
	panic(&assertions.Failure{})
}

// Helper exists for testify's tHelper interface.
func (c *Context) Helper() {}

// Failures returns the messages recorded by Subtest and Errorf.
func (c *Context) Failures() []string {
	return c.subtests.failures
}

// Failed reports whether a failure was recorded by Subtest or Errorf,
// with or without a message.
func (c *Context) Failed() bool {
	return c.subtests.failed
}

// Published returns the value passed to Set, if any.
func (c *Context) Published() (any, bool) {
	return c.sharing.value, c.sharing.published
}

// RunCleanups executes the registered teardown actions, last first.
func (c *Context) RunCleanups() []error {
	return c.cleanups.run()
}
