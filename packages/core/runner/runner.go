package runner

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abdul-hamid-achik/fixspec/packages/core/depstore"
	"github.com/abdul-hamid-achik/fixspec/packages/core/expand"
	"github.com/abdul-hamid-achik/fixspec/packages/core/lifecycle"
	"github.com/abdul-hamid-achik/fixspec/packages/core/suite"
	"github.com/abdul-hamid-achik/fixspec/packages/log"
)

type Runner struct {
	config *Config
	logger *slog.Logger
}

type Config struct {
	// NameFilter selects tests by name, qualified name or tree id. A leading
	// or trailing * matches any prefix or suffix.
	NameFilter string
	// Bail stops the run after the first failed or errored instance. Open
	// scopes are still torn down.
	Bail bool
	// Verbose logs every finished instance at info level instead of debug.
	Verbose bool
	// Hooks run before and after the suite.
	Hooks  Hooks
	Logger *slog.Logger
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Discard()
	}
	return &Runner{config: cfg, logger: logger}
}

// Plan returns the instances a run of root would execute, without running
// any fixture.
func (r *Runner) Plan(root *suite.Node) *Plan {
	return prepare(root).public()
}

// Run executes the suite rooted at root. Every call uses its own
// dependency store. The returned error is non-nil when a before hook
// failed or ctx was cancelled; results gathered so far are returned with
// it.
func (r *Runner) Run(ctx context.Context, root *suite.Node) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{RunID: uuid.NewString()}
	if root != nil {
		result.Suite = root.Name
	}
	logger := log.WithRunContext(r.logger, result.RunID, result.Suite)

	if err := r.config.Hooks.before(ctx, logger); err != nil {
		result.Duration = time.Since(start)
		return result, err
	}

	p := prepare(root)
	store := depstore.New()
	p.expect(store)

	for _, b := range p.broken {
		logger.Error("binding failed", slog.String("node", b.node.ID()), log.Error(b.err))
		result.Results = append(result.Results, &TestResult{
			ID:      b.node.ID(),
			Name:    displayKey(b.node),
			File:    fileName(b.node),
			State:   lifecycle.Errored,
			Message: b.err.Error(),
		})
	}

	e := &execution{
		ctx:    ctx,
		config: r.config,
		logger: logger,
		plan:   p,
		store:  store,
	}
	e.selectInitial(r.config.NameFilter)
	logger.Info("run started", slog.Int("tests", len(p.tests)), slog.Int("broken", len(p.broken)))

	for pass := 1; ; pass++ {
		recorded := store.Len()
		previous := e.selected
		e.deferred = nil
		e.walk(p.root, nil, nil)

		if e.stopped || len(e.deferred) == 0 {
			break
		}
		e.selectDeferred()
		if store.Len() == recorded && sameSelection(previous, e.selected) {
			e.abandonDeferred()
			break
		}
		logger.Debug("rerunning postponed instances", slog.Int(log.PassKey, pass+1), slog.Int("instances", len(e.deferred)))
	}

	for _, o := range e.outcomes {
		result.Results = append(result.Results, o.result)
	}
	result.Recount()

	if err := r.config.Hooks.after(ctx, logger); err != nil {
		logger.Error("after hook failed", log.Error(err))
	}

	result.Duration = time.Since(start)
	logger.Info("run finished",
		slog.Int("passed", result.Passed),
		slog.Int("failed", result.Failed),
		slog.Int("skipped", result.Skipped),
		slog.Int("errored", result.Errored),
		slog.Int64(log.DurationKey, result.Duration.Milliseconds()),
	)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (e *execution) selectInitial(pattern string) {
	e.selected = make(map[*suite.Node][]expand.Path)
	for _, n := range e.plan.tests {
		if !Matches(n, pattern) {
			continue
		}
		e.selected[n] = e.plan.paths[n]
	}
}

// sameSelection reports whether b selects no instance that a does not.
func sameSelection(a, b map[*suite.Node][]expand.Path) bool {
	for n, paths := range b {
		for _, p := range paths {
			found := false
			for _, q := range a[n] {
				if q.Equal(p) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

// Matches reports whether the test n is selected by a name filter: its
// name, qualified name or tree id matches pattern.
func Matches(n *suite.Node, pattern string) bool {
	if pattern == "" {
		return true
	}
	return matchesPattern(n.Name, pattern) ||
		matchesPattern(n.Key().String(), pattern) ||
		matchesPattern(n.ID(), pattern)
}

func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}
	if pattern == "*" {
		return true
	}

	if pattern[0] == '*' && pattern[len(pattern)-1] == '*' {
		return strings.Contains(name, pattern[1:len(pattern)-1])
	}
	if pattern[0] == '*' {
		return strings.HasSuffix(name, pattern[1:])
	}
	if pattern[len(pattern)-1] == '*' {
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	}
	return name == pattern
}

func displayKey(n *suite.Node) string {
	if n.Kind == suite.KindTest {
		return n.Key().String()
	}
	return n.ID()
}

func fileName(n *suite.Node) string {
	if f := n.File(); f != nil {
		return f.ID()
	}
	return ""
}
