package names

import "strings"

// Index is the registry of every test known to a run. It is built once
// during preparation and only read afterwards.
type Index struct {
	keys map[string]Key
}

func NewIndex() *Index {
	return &Index{keys: make(map[string]Key)}
}

// Add registers k. Keys are compared case-insensitively.
func (x *Index) Add(k Key) error {
	c := k.Canonical()
	if _, exists := x.keys[c]; exists {
		return &DuplicateError{Key: k}
	}
	x.keys[c] = k
	return nil
}

// Lookup returns the registered spelling of k.
func (x *Index) Lookup(k Key) (Key, bool) {
	found, ok := x.keys[k.Canonical()]
	return found, ok
}

func (x *Index) Len() int {
	return len(x.keys)
}

// Resolve maps ref, as written by the test identified by caller, to a
// registered key. Candidates are tried in order and the first registered
// one wins:
//
//   - `name`: the caller's class, the caller's namespace, the global namespace
//   - `ns\name`: ns relative to the caller's namespace, then ns from the root
//   - `Class::name`: Class relative to the caller's namespace, then global
//   - `::name`: the free function in the caller's namespace, then global
//   - a leading `\` restricts every form to the global namespace
func (x *Index) Resolve(caller Key, ref string) (Key, error) {
	for _, candidate := range candidates(caller, ref) {
		if k, ok := x.Lookup(candidate); ok {
			return k, nil
		}
	}
	return Key{}, &UnresolvedError{Ref: ref, Caller: caller}
}

func candidates(caller Key, ref string) []Key {
	s := strings.TrimSpace(ref)
	if s == "" {
		return nil
	}

	anchored := strings.HasPrefix(s, nsSep)
	if anchored {
		s = strings.TrimLeft(s, nsSep)
	}

	scopes := func(ns string) []string {
		if anchored {
			return []string{ns}
		}
		relative := joinNamespace(caller.Namespace, ns)
		if relative == ns {
			return []string{ns}
		}
		return []string{relative, ns}
	}

	var out []Key
	switch {
	case strings.HasPrefix(s, classSep):
		fn := s[len(classSep):]
		for _, ns := range scopes("") {
			out = append(out, Key{Namespace: ns, Function: fn})
		}
	case strings.Contains(s, classSep):
		i := strings.Index(s, classSep)
		ns, class := splitNamespace(s[:i])
		method := s[i+len(classSep):]
		for _, scope := range scopes(ns) {
			out = append(out, Key{Namespace: scope, Class: class, Function: method})
		}
	default:
		ns, fn := splitNamespace(s)
		if !anchored && ns == "" && caller.Class != "" {
			out = append(out, Key{Namespace: caller.Namespace, Class: caller.Class, Function: fn})
		}
		for _, scope := range scopes(ns) {
			out = append(out, Key{Namespace: scope, Function: fn})
		}
	}
	return out
}
