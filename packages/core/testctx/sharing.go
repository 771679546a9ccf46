package testctx

import (
	"github.com/abdul-hamid-achik/fixspec/packages/core/depstore"
	"github.com/abdul-hamid-achik/fixspec/packages/core/expand"
	"github.com/abdul-hamid-achik/fixspec/packages/core/lifecycle"
	"github.com/abdul-hamid-achik/fixspec/packages/core/names"
)

// StateSharer publishes and reads state between tests of one run.
type StateSharer interface {
	Set(value any)
	Requires(refs ...string) map[string]any
	Require(ref string) any
}

type sharing struct {
	caller names.Key
	path   expand.Path
	index  *names.Index
	store  *depstore.Store

	value     any
	published bool
}

func (s *sharing) enabled() bool {
	return s.index != nil && s.store != nil
}

// Set publishes value for tests that require this one. A later call
// replaces the earlier value.
func (s *sharing) Set(value any) {
	if !s.enabled() {
		panic(&UsageError{Op: "set"})
	}
	s.value = value
	s.published = true
}

// Requires returns the values published by the named tests, keyed by the
// names as written. A test that ran but published nothing is left out, as
// is a test with several instances compatible with the caller.
func (s *sharing) Requires(refs ...string) map[string]any {
	if !s.enabled() {
		panic(&UsageError{Op: "requires"})
	}

	values := make(map[string]any, len(refs))
	for _, ref := range refs {
		key, err := s.index.Resolve(s.caller, ref)
		if err != nil {
			panic(&DependencyError{Ref: ref, Err: err})
		}

		found, missing := s.store.Lookup(key, s.path)
		if len(missing) > 0 {
			panic(&Postponed{Key: key, Missing: missing})
		}
		for _, e := range found {
			if e.State != lifecycle.Passed {
				panic(&DependencyFailedError{Ref: ref, Key: key, Path: e.Path, State: e.State})
			}
		}
		if len(found) == 1 && found[0].HasValue {
			values[ref] = found[0].Value
		}
	}
	return values
}

// Require is the single-name form of Requires; it returns nil when the
// test published nothing.
func (s *sharing) Require(ref string) any {
	return s.Requires(ref)[ref]
}
