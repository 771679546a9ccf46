package runner

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/abdul-hamid-achik/fixspec/packages/assertions"
	"github.com/abdul-hamid-achik/fixspec/packages/core/expand"
	"github.com/abdul-hamid-achik/fixspec/packages/core/fixture"
	"github.com/abdul-hamid-achik/fixspec/packages/core/lifecycle"
	"github.com/abdul-hamid-achik/fixspec/packages/core/suite"
	"github.com/abdul-hamid-achik/fixspec/packages/core/testctx"
)

// runTest executes one instance of test n: the per-test setup of its
// parent, the test itself and the teardown chain.
func (e *execution) runTest(n *suite.Node, parent *fixture.Binding, recv reflect.Value, path expand.Path, args []any) {
	if !e.isSelected(n, path) || e.done(n, path) || e.halted() {
		return
	}
	b := e.plan.bindings[n]
	start := time.Now()

	tctx := testctx.New(testctx.Options{
		Caller: n.Key(),
		Path:   path,
		Index:  e.plan.index,
		Store:  e.store,
	})
	m := lifecycle.NewMachine()
	var msg string
	var wait *testctx.Postponed

	fail := func(err error, running bool) {
		state, text, postponed := classify(err, running)
		m.Decide(state)
		msg, wait = text, postponed
	}

	_ = m.Enter(lifecycle.SettingUp)
	testArgs := args
	entered := true
	if parent.Setup != nil {
		out, err := e.invoke(parent.Setup, recv, args, tctx)
		var argErr *fixture.ArgumentError
		switch {
		case errors.As(err, &argErr) && argErr.Kind == fixture.TypeMismatch:
			m.Decide(lifecycle.NotApplicable)
			msg, entered = err.Error(), false
		case err != nil:
			fail(err, false)
			entered = false
		default:
			testArgs = out
		}
	}

	if m.Outcome() == lifecycle.Pending {
		_ = m.Enter(lifecycle.Running)
		e.runBody(b.Test, recv, testArgs, tctx, m, fail, &msg)
	}

	_ = m.Enter(lifecycle.TearingDown)
	for _, err := range tctx.RunCleanups() {
		m.TeardownFailed()
		msg = joinMessages(msg, "teardown action: "+err.Error())
	}
	if entered && parent.Teardown != nil {
		if _, err := e.invoke(parent.Teardown, recv, testArgs, tctx); err != nil {
			m.TeardownFailed()
			msg = joinMessages(msg, parent.Teardown.Name+": "+err.Error())
		}
	}

	state, err := m.Settle()
	if err != nil {
		state, msg = lifecycle.Errored, err.Error()
	}

	if state == lifecycle.Deferred {
		e.deferred = append(e.deferred, deferral{node: n, path: path, wait: wait})
		return
	}
	e.finish(n, path, state, msg, time.Since(start), tctx)
}

func (e *execution) runBody(test *fixture.Callable, recv reflect.Value, args []any, tctx *testctx.Context, m *lifecycle.Machine, fail func(error, bool), msg *string) {
	if err := test.Accepts(args); err != nil {
		var argErr *fixture.ArgumentError
		if errors.As(err, &argErr) && argErr.Kind == fixture.TypeMismatch {
			m.Decide(lifecycle.NotApplicable)
			*msg = err.Error()
			return
		}
		fail(err, true)
		return
	}

	err := protect(func() error {
		_, _, err := test.Call(recv, args, tctx)
		return err
	})

	failures := tctx.Failures()
	switch {
	case err == nil && tctx.Failed():
		m.Decide(lifecycle.Failed)
		*msg = joinMessages(failures...)
		if *msg == "" {
			*msg = fmt.Sprintf("%s failed", test.Name)
		}
	case err == nil:
		m.Decide(lifecycle.Passed)
	default:
		fail(err, true)
		if f, ok := assertions.AsFailure(err); ok {
			*msg = joinMessages(append(failures, f.Message)...)
			if *msg == "" {
				*msg = fmt.Sprintf("%s failed", test.Name)
			}
		}
	}
}

func (e *execution) isSelected(n *suite.Node, path expand.Path) bool {
	for _, p := range e.selected[n] {
		if p.Equal(path) {
			return true
		}
	}
	return false
}
