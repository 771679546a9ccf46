// Package expand computes the run instances produced by parameterized run
// fixtures. Every level of the suite tree may define several setup_run_*
// variants; a test executes once per combination of the variants along its
// ancestor chain.
package expand

import "strings"

// Step is the choice of one variant at one level.
type Step struct {
	Level   string
	Variant string
}

// Path identifies one run instance of a test: the variants chosen from the
// root down. A test beneath no run fixtures has an empty path.
type Path []Step

// With returns a copy of p extended by one step.
func (p Path) With(level, variant string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Step{Level: level, Variant: variant})
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.Variant
	}
	return strings.Join(parts, "/")
}

// Equal reports whether both paths choose the same variants at the same levels.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether p starts with prefix.
func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && p[:len(prefix)].Equal(prefix)
}

// Compatible reports whether p and other agree on every level they share.
// Instances in unrelated branches of the tree are always compatible; two
// instances under different variants of the same level never are.
func (p Path) Compatible(other Path) bool {
	chosen := make(map[string]string, len(p))
	for _, s := range p {
		chosen[s.Level] = s.Variant
	}
	for _, s := range other {
		if v, ok := chosen[s.Level]; ok && v != s.Variant {
			return false
		}
	}
	return true
}

// Level lists the run variants defined at one node, in definition order.
type Level struct {
	Name     string
	Variants []string
}

// Plan returns the cross product of levels, top-down and in definition
// order. A level without variants does not multiply.
func Plan(levels []Level) []Path {
	paths := []Path{nil}
	for _, level := range levels {
		if len(level.Variants) == 0 {
			continue
		}
		next := make([]Path, 0, len(paths)*len(level.Variants))
		for _, p := range paths {
			for _, v := range level.Variants {
				next = append(next, p.With(level.Name, v))
			}
		}
		paths = next
	}
	return paths
}

// Branch is one fork of a level: the path so far and the argument vector
// produced by the variant's fixture.
type Branch struct {
	Path    Path
	Args    []any
	Variant string
	Err     error
}

// SetupFunc invokes the fixture of variant with the accumulated arguments.
type SetupFunc func(variant string, args []any) ([]any, error)

// Walk forks base once per variant of level, calling setup with args and
// handing each branch to visit before the next variant is set up. A level
// without variants yields one branch that passes base and args through.
// A setup error is reported on the branch and does not stop later variants.
func Walk(base Path, args []any, level Level, setup SetupFunc, visit func(Branch)) {
	if len(level.Variants) == 0 {
		visit(Branch{Path: base, Args: args})
		return
	}
	for _, v := range level.Variants {
		out, err := setup(v, args)
		visit(Branch{
			Path:    base.With(level.Name, v),
			Args:    out,
			Variant: v,
			Err:     err,
		})
	}
}
