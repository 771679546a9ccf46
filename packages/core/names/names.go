package names

import (
	"fmt"
	"strings"
)

const (
	nsSep    = `\`
	classSep = "::"
)

// Key identifies one test callable.
type Key struct {
	Namespace string
	Class     string
	Function  string
}

// Parse splits a fully qualified name into its parts. A leading backslash
// is ignored.
func Parse(s string) Key {
	s = strings.TrimPrefix(strings.TrimSpace(s), nsSep)
	var k Key
	if i := strings.Index(s, classSep); i >= 0 {
		k.Function = s[i+len(classSep):]
		k.Namespace, k.Class = splitNamespace(s[:i])
		return k
	}
	k.Namespace, k.Function = splitNamespace(s)
	return k
}

func (k Key) String() string {
	var b strings.Builder
	if k.Namespace != "" {
		b.WriteString(k.Namespace)
		b.WriteString(nsSep)
	}
	if k.Class != "" {
		b.WriteString(k.Class)
		b.WriteString(classSep)
	}
	b.WriteString(k.Function)
	return b.String()
}

// IsMethod reports whether k names a group member.
func (k Key) IsMethod() bool {
	return k.Class != ""
}

// Canonical returns the case-folded form used for lookups.
func (k Key) Canonical() string {
	return strings.ToLower(k.String())
}

// UnresolvedError is returned when a reference matches no known test.
type UnresolvedError struct {
	Ref    string
	Caller Key
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("%q does not name a known test (resolved from %s)", e.Ref, e.Caller)
}

// DuplicateError is returned when a key is registered twice.
type DuplicateError struct {
	Key Key
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("test %s is defined more than once", e.Key)
}

func splitNamespace(s string) (ns, name string) {
	s = strings.Trim(s, nsSep)
	if i := strings.LastIndex(s, nsSep); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "", s
}

func joinNamespace(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.Trim(p, nsSep); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, nsSep)
}
