package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/fixspec/packages/assertions"
	"github.com/abdul-hamid-achik/fixspec/packages/core/depstore"
	"github.com/abdul-hamid-achik/fixspec/packages/core/expand"
	"github.com/abdul-hamid-achik/fixspec/packages/core/fixture"
	"github.com/abdul-hamid-achik/fixspec/packages/core/lifecycle"
	"github.com/abdul-hamid-achik/fixspec/packages/core/suite"
	"github.com/abdul-hamid-achik/fixspec/packages/core/testctx"
	"github.com/abdul-hamid-achik/fixspec/packages/log"
)

var errHalted = errors.New("run halted")

// execution is the state of one Run call.
type execution struct {
	ctx    context.Context
	config *Config
	logger *slog.Logger
	plan   *plan
	store  *depstore.Store

	// selected holds the instances to execute in the current pass.
	selected map[*suite.Node][]expand.Path
	outcomes []*outcome
	deferred []deferral
	stopped  bool
}

type outcome struct {
	node   *suite.Node
	path   expand.Path
	entry  *depstore.Entry
	result *TestResult
}

type deferral struct {
	node *suite.Node
	path expand.Path
	wait *testctx.Postponed
}

func (e *execution) halted() bool {
	if !e.stopped && e.ctx.Err() != nil {
		e.logger.Warn("run cancelled", log.Error(e.ctx.Err()))
		e.stopped = true
	}
	return e.stopped
}

func (e *execution) done(n *suite.Node, path expand.Path) bool {
	_, ok := e.store.Get(n.Key(), path)
	return ok
}

// pending calls fn for every selected instance beneath n whose path starts
// with prefix and has no outcome yet. fn returns false to stop.
func (e *execution) pending(n *suite.Node, prefix expand.Path, fn func(*suite.Node, expand.Path) bool) {
	more := true
	suite.Walk(n, func(c *suite.Node) bool {
		if !more {
			return false
		}
		if c.Kind != suite.KindTest {
			return true
		}
		for _, p := range e.selected[c] {
			if p.HasPrefix(prefix) && !e.done(c, p) {
				if more = fn(c, p); !more {
					break
				}
			}
		}
		return false
	})
}

func (e *execution) wants(n *suite.Node, prefix expand.Path) bool {
	found := false
	e.pending(n, prefix, func(*suite.Node, expand.Path) bool {
		found = true
		return false
	})
	return found
}

func (e *execution) walk(n *suite.Node, path expand.Path, args []any) {
	if e.halted() || !e.wants(n, path) {
		return
	}
	b, ok := e.plan.bindings[n]
	if !ok {
		return
	}

	switch n.Kind {
	case suite.KindDirectory:
		e.walkDirectory(n, b, path, args)
	case suite.KindFile:
		e.walkFile(n, b, path, args)
	case suite.KindGroup:
		e.walkGroup(n, b, path, args)
	}
}

func (e *execution) walkDirectory(n *suite.Node, b *fixture.Binding, path expand.Path, args []any) {
	scope := testctx.NewScope()
	e.forEachRun(n, b, reflect.Value{}, scope, path, args, func(path expand.Path, args []any) {
		if b.Setup != nil {
			out, err := e.invoke(b.Setup, reflect.Value{}, args, scope)
			if err != nil {
				e.failBeneath(n, path, b.Setup.Name, err)
				return
			}
			args = out
		}
		for _, c := range n.Children {
			if e.halted() {
				break
			}
			e.walk(c, path, args)
		}
		if b.Teardown != nil {
			if _, err := e.invoke(b.Teardown, reflect.Value{}, args, scope); err != nil {
				e.demote(n, path, b.Teardown.Name, err)
			}
		}
	})
	e.closeScope(n, path, scope)
}

func (e *execution) walkFile(n *suite.Node, b *fixture.Binding, path expand.Path, args []any) {
	scope := testctx.NewScope()
	defer e.closeScope(n, path, scope)

	if b.SetupFile != nil {
		out, err := e.invoke(b.SetupFile, reflect.Value{}, args, scope)
		if err != nil {
			e.failBeneath(n, path, b.SetupFile.Name, err)
			return
		}
		args = out
	}

	e.forEachRun(n, b, reflect.Value{}, scope, path, args, func(path expand.Path, args []any) {
		for _, c := range n.Children {
			if e.halted() {
				break
			}
			if c.Kind == suite.KindTest {
				e.runTest(c, b, reflect.Value{}, path, args)
				continue
			}
			e.walk(c, path, args)
		}
	})

	if b.TeardownFile != nil {
		if _, err := e.invoke(b.TeardownFile, reflect.Value{}, args, scope); err != nil {
			e.demote(n, path, b.TeardownFile.Name, err)
		}
	}
}

func (e *execution) walkGroup(n *suite.Node, b *fixture.Binding, path expand.Path, args []any) {
	var recv reflect.Value
	err := protect(func() (err error) {
		recv, err = b.Receiver(args)
		return err
	})
	if err != nil {
		e.failBeneath(n, path, n.Name, err)
		return
	}
	if b.Constructor != nil {
		args = nil
	}

	scope := testctx.NewScope()
	e.forEachRun(n, b, recv, scope, path, args, func(path expand.Path, args []any) {
		for _, c := range n.Children {
			if e.halted() {
				break
			}
			e.runTest(c, b, recv, path, args)
		}
	})
	e.closeScope(n, path, scope)
}

// forEachRun forks the walk once per run variant of n that leads to a
// pending instance, tearing each variant down after body returns.
func (e *execution) forEachRun(n *suite.Node, b *fixture.Binding, recv reflect.Value, scope *testctx.Context, path expand.Path, args []any, body func(expand.Path, []any)) {
	level := b.Level()
	if len(level.Variants) > 0 {
		var wanted []string
		for _, v := range level.Variants {
			if e.wants(n, path.With(level.Name, v)) {
				wanted = append(wanted, v)
			}
		}
		if len(wanted) == 0 {
			return
		}
		level.Variants = wanted
	}

	setup := func(variant string, args []any) ([]any, error) {
		if e.halted() {
			return nil, errHalted
		}
		run, _ := b.Run(variant)
		return e.invoke(run.Setup, recv, args, scope)
	}

	expand.Walk(path, args, level, setup, func(br expand.Branch) {
		switch {
		case errors.Is(br.Err, errHalted):
			return
		case br.Err != nil:
			run, _ := b.Run(br.Variant)
			e.failBeneath(n, br.Path, run.Setup.Name, br.Err)
			return
		}

		body(br.Path, br.Args)

		if br.Variant == "" {
			return
		}
		if run, _ := b.Run(br.Variant); run.Teardown != nil {
			if _, err := e.invoke(run.Teardown, recv, br.Args, scope); err != nil {
				e.demote(n, br.Path, run.Teardown.Name, err)
			}
		}
	})
}

// invoke calls a fixture, converting panics into errors.
func (e *execution) invoke(c *fixture.Callable, recv reflect.Value, args []any, ctx *testctx.Context) ([]any, error) {
	log.Trace(e.logger, "calling fixture", slog.String(log.FixtureKey, c.Name), slog.Int("args", len(args)))
	var out []any
	err := protect(func() (err error) {
		out, err = c.Invoke(recv, args, ctx)
		return err
	})
	if err != nil {
		e.logger.Debug("fixture failed", slog.String(log.FixtureKey, c.Name), log.Error(err))
	}
	return out, err
}

func (e *execution) closeScope(n *suite.Node, path expand.Path, scope *testctx.Context) {
	for _, err := range scope.RunCleanups() {
		e.demote(n, path, "teardown action", err)
	}
}

// failBeneath gives every pending instance beneath n the outcome of a
// failed shared fixture.
func (e *execution) failBeneath(n *suite.Node, prefix expand.Path, fixtureName string, err error) {
	state, msg, _ := classify(err, false)
	if state == lifecycle.Deferred {
		state, msg = lifecycle.Errored, err.Error()
	}
	msg = fmt.Sprintf("%s: %s", fixtureName, msg)
	e.logger.Warn("shared fixture failed", slog.String("node", n.ID()), slog.String(log.FixtureKey, fixtureName), slog.String(log.RunKey, prefix.String()), log.Error(err))

	e.pending(n, prefix, func(t *suite.Node, p expand.Path) bool {
		e.finish(t, p, state, msg, 0, nil)
		return true
	})
}

// demote turns passed results beneath n into errors after a shared
// teardown failed.
func (e *execution) demote(n *suite.Node, prefix expand.Path, fixtureName string, err error) {
	msg := fmt.Sprintf("%s: %v", fixtureName, err)
	e.logger.Warn("shared teardown failed", slog.String("node", n.ID()), slog.String(log.FixtureKey, fixtureName), log.Error(err))

	for _, o := range e.outcomes {
		if !isBeneath(o.node, n) || !o.path.HasPrefix(prefix) {
			continue
		}
		state := lifecycle.AfterTeardownError(o.result.State)
		if state == o.result.State {
			continue
		}
		o.result.State = state
		o.result.Message = msg
		o.entry.State = state
		if e.config.Bail && state.Failing() {
			e.stopped = true
		}
	}
}

func isBeneath(n, ancestor *suite.Node) bool {
	for c := n; c != nil; c = c.Parent {
		if c == ancestor {
			return true
		}
	}
	return false
}

// finish records the outcome of one instance.
func (e *execution) finish(n *suite.Node, path expand.Path, state lifecycle.State, msg string, d time.Duration, tctx *testctx.Context) {
	entry := &depstore.Entry{Key: n.Key(), Path: path, State: state}
	if tctx != nil {
		entry.Value, entry.HasValue = tctx.Published()
	}
	if !e.store.Record(entry) {
		return
	}

	logger := log.WithInstance(e.logger, n.Key().String(), path.String())
	if !state.Reported() {
		logger.Debug("instance not reported", slog.String(log.StateKey, state.String()), slog.String("reason", msg))
		return
	}

	e.outcomes = append(e.outcomes, &outcome{
		node:  n,
		path:  path,
		entry: entry,
		result: &TestResult{
			ID:       n.ID(),
			Name:     n.Key().String(),
			Run:      path.String(),
			File:     fileName(n),
			State:    state,
			Message:  msg,
			Duration: d,
		},
	})
	level := slog.LevelDebug
	if e.config.Verbose {
		level = slog.LevelInfo
	}
	logger.Log(e.ctx, level, "instance finished", slog.String(log.StateKey, state.String()), slog.Int64(log.DurationKey, d.Milliseconds()))

	if e.config.Bail && state.Failing() {
		e.logger.Info("bailing out after failure", slog.String(log.TestKey, n.Key().String()))
		e.stopped = true
	}
}

// selectDeferred selects the postponed instances and the instances they
// wait for, including those left out by the name filter.
func (e *execution) selectDeferred() {
	next := make(map[*suite.Node][]expand.Path)
	add := func(n *suite.Node, p expand.Path) {
		for _, q := range next[n] {
			if q.Equal(p) {
				return
			}
		}
		next[n] = append(next[n], p)
	}

	for _, d := range e.deferred {
		add(d.node, d.path)
		dep, ok := e.plan.byKey[d.wait.Key.Canonical()]
		if !ok {
			continue
		}
		if _, healthy := e.plan.paths[dep]; !healthy {
			continue
		}
		for _, p := range d.wait.Missing {
			add(dep, p)
		}
	}
	e.selected = next
}

// abandonDeferred ends instances whose dependencies can never run.
func (e *execution) abandonDeferred() {
	for _, d := range e.deferred {
		msg := fmt.Sprintf("unmet dependency: %s did not run", d.wait.Key)
		e.finish(d.node, d.path, lifecycle.Errored, msg, 0, nil)
	}
}

// protect runs fn and converts a panic into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rErr, ok := r.(error); ok {
				err = rErr
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// classify maps an error raised by a fixture or test to an outcome. An
// assertion failure counts as a failure only while the test body runs.
func classify(err error, running bool) (lifecycle.State, string, *testctx.Postponed) {
	var postponed *testctx.Postponed
	if errors.As(err, &postponed) {
		return lifecycle.Deferred, postponed.Error(), postponed
	}
	if s, ok := assertions.AsSkipped(err); ok {
		return lifecycle.Skipped, s.Reason, nil
	}
	var depErr *testctx.DependencyFailedError
	if errors.As(err, &depErr) {
		return lifecycle.Skipped, depErr.Error(), nil
	}
	if f, ok := assertions.AsFailure(err); ok {
		if running {
			return lifecycle.Failed, f.Message, nil
		}
		return lifecycle.Errored, "assertion failed during setup: " + f.Message, nil
	}
	return lifecycle.Errored, err.Error(), nil
}

func joinMessages(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}
