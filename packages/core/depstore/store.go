// Package depstore holds the outcomes and published values of the test
// instances of one run. Context.Requires reads it; the runner writes it.
//
// A Store belongs to exactly one run and is not safe for concurrent use.
package depstore

import (
	"github.com/abdul-hamid-achik/fixspec/packages/core/expand"
	"github.com/abdul-hamid-achik/fixspec/packages/core/lifecycle"
	"github.com/abdul-hamid-achik/fixspec/packages/core/names"
)

// Entry is the record of one finished instance.
type Entry struct {
	Key      names.Key
	Path     expand.Path
	State    lifecycle.State
	Value    any
	HasValue bool
}

type Store struct {
	expected map[string][]expand.Path
	entries  map[string][]*Entry
}

func New() *Store {
	return &Store{
		expected: make(map[string][]expand.Path),
		entries:  make(map[string][]*Entry),
	}
}

// Expect registers the planned instances of key.
func (s *Store) Expect(key names.Key, paths []expand.Path) {
	c := key.Canonical()
	for _, p := range paths {
		if !containsPath(s.expected[c], p) {
			s.expected[c] = append(s.expected[c], p)
		}
	}
}

// Expected returns the planned instances of key.
func (s *Store) Expected(key names.Key) []expand.Path {
	return s.expected[key.Canonical()]
}

// Record stores e unless an entry for the same instance exists already;
// it reports whether e was stored.
func (s *Store) Record(e *Entry) bool {
	c := e.Key.Canonical()
	if _, exists := s.Get(e.Key, e.Path); exists {
		return false
	}
	if !containsPath(s.expected[c], e.Path) {
		s.expected[c] = append(s.expected[c], e.Path)
	}
	s.entries[c] = append(s.entries[c], e)
	return true
}

// Get returns the entry of one instance.
func (s *Store) Get(key names.Key, path expand.Path) (*Entry, bool) {
	for _, e := range s.entries[key.Canonical()] {
		if e.Path.Equal(path) {
			return e, true
		}
	}
	return nil, false
}

// Lookup returns the recorded instances of key that are compatible with the
// caller's path, and the compatible planned instances that have no record
// yet. Instances that did not apply to their arguments are left out of
// both.
func (s *Store) Lookup(key names.Key, caller expand.Path) (found []*Entry, missing []expand.Path) {
	for _, p := range s.expected[key.Canonical()] {
		if !p.Compatible(caller) {
			continue
		}
		e, ok := s.Get(key, p)
		switch {
		case !ok:
			missing = append(missing, p)
		case e.State == lifecycle.NotApplicable:
		default:
			found = append(found, e)
		}
	}
	return found, missing
}

// Len returns the number of recorded instances.
func (s *Store) Len() int {
	n := 0
	for _, entries := range s.entries {
		n += len(entries)
	}
	return n
}

func containsPath(paths []expand.Path, p expand.Path) bool {
	for _, q := range paths {
		if q.Equal(p) {
			return true
		}
	}
	return false
}
