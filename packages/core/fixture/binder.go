package fixture

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/abdul-hamid-achik/fixspec/packages/core/expand"
	"github.com/abdul-hamid-achik/fixspec/packages/core/suite"
)

const (
	setupRunPrefix    = "setup_run_"
	teardownRunPrefix = "teardown_run_"
)

// RunVariant is one parameterized run of a level.
type RunVariant struct {
	ID       string
	Setup    *Callable
	Teardown *Callable
}

// Binding is the classified fixture set of one node.
type Binding struct {
	Node *suite.Node

	Setup        *Callable
	Teardown     *Callable
	SetupFile    *Callable
	TeardownFile *Callable
	Runs         []RunVariant

	// Constructor creates the group value from the file's argument vector.
	Constructor *Callable

	// Test is set for test nodes.
	Test *Callable
}

// Level returns the run variants of the node for expansion.
func (b *Binding) Level() expand.Level {
	l := expand.Level{Name: b.Node.ID()}
	for _, r := range b.Runs {
		l.Variants = append(l.Variants, r.ID)
	}
	return l
}

// Run returns the variant with the given id.
func (b *Binding) Run(id string) (RunVariant, bool) {
	for _, r := range b.Runs {
		if r.ID == id {
			return r, true
		}
	}
	return RunVariant{}, false
}

// BindingError reports an authoring error found while binding a node.
// Nothing beneath the node runs.
type BindingError struct {
	Node     string
	Problems []string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Node, strings.Join(e.Problems, "; "))
}

// Bind classifies the callables of n.
func Bind(n *suite.Node) (*Binding, error) {
	b := &Binding{Node: n}
	var problems []string
	problems = append(problems, n.Invalid...)

	if n.Kind == suite.KindTest {
		if n.Test == nil {
			problems = append(problems, "test has no function")
		} else if c, err := newCallable(n.Test); err != nil {
			problems = append(problems, err.Error())
		} else {
			b.Test = c
		}
		return b, bindingError(n, problems)
	}

	if n.Kind == suite.KindDirectory {
		for _, c := range n.Children {
			if c.Kind == suite.KindTest {
				problems = append(problems, fmt.Sprintf("test %s must be defined in a file or a group", c.Name))
			}
		}
	}

	seen := make(map[string]bool)
	teardowns := make(map[string]*Callable)
	var teardownOrder []string

	for _, f := range n.Funcs {
		lower := strings.ToLower(f.Name)
		if !isFixtureName(lower) {
			continue
		}
		if seen[lower] {
			problems = append(problems, fmt.Sprintf("fixture %s is defined more than once", f.Name))
			continue
		}
		seen[lower] = true

		c, err := newCallable(f)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}

		switch {
		case lower == "setup":
			b.Setup = c
		case lower == "teardown":
			b.Teardown = c
		case lower == "setup_file" || lower == "teardown_file":
			if n.Kind != suite.KindFile {
				problems = append(problems, fmt.Sprintf("%s is only allowed at file level, not in a %s", f.Name, n.Kind))
				continue
			}
			if lower == "setup_file" {
				b.SetupFile = c
			} else {
				b.TeardownFile = c
			}
		case strings.HasPrefix(lower, setupRunPrefix):
			b.Runs = append(b.Runs, RunVariant{ID: f.Name[len(setupRunPrefix):], Setup: c})
		case strings.HasPrefix(lower, teardownRunPrefix):
			teardowns[lower[len(teardownRunPrefix):]] = c
			teardownOrder = append(teardownOrder, f.Name)
		}
	}

	for i := range b.Runs {
		id := strings.ToLower(b.Runs[i].ID)
		if td, ok := teardowns[id]; ok {
			b.Runs[i].Teardown = td
			delete(teardowns, id)
		}
	}
	for _, name := range teardownOrder {
		if _, orphan := teardowns[strings.ToLower(name[len(teardownRunPrefix):])]; orphan {
			problems = append(problems, fmt.Sprintf("%s has no matching setup_run_%s", name, name[len(teardownRunPrefix):]))
		}
	}

	if n.Kind == suite.KindGroup && n.Constructor.IsValid() {
		c, err := newCallable(&suite.Callable{Name: n.Name, Value: n.Constructor})
		if err != nil {
			problems = append(problems, err.Error())
		} else {
			b.Constructor = c
		}
	}
	if n.Kind == suite.KindGroup && !n.Constructor.IsValid() && !n.Receiver.IsValid() && len(n.Invalid) == 0 {
		problems = append(problems, "group has no value")
	}

	return b, bindingError(n, problems)
}

func isFixtureName(lower string) bool {
	switch lower {
	case "setup", "teardown", "setup_file", "teardown_file":
		return true
	}
	return (strings.HasPrefix(lower, setupRunPrefix) && len(lower) > len(setupRunPrefix)) ||
		(strings.HasPrefix(lower, teardownRunPrefix) && len(lower) > len(teardownRunPrefix))
}

func bindingError(n *suite.Node, problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &BindingError{Node: n.ID(), Problems: problems}
}

// Receiver returns the group value for the methods of a group, calling its
// constructor with args when it has one.
func (b *Binding) Receiver(args []any) (reflect.Value, error) {
	if b.Constructor == nil {
		return b.Node.Receiver, nil
	}
	out, _, err := b.Constructor.Call(reflect.Value{}, b.Constructor.fixtureArgs(args), nil)
	if err != nil {
		return reflect.Value{}, err
	}
	if len(out) == 0 || out[0] == nil {
		return reflect.Value{}, fmt.Errorf("%s: constructor returned no value", b.Node.Name)
	}
	return reflect.ValueOf(out[0]), nil
}
