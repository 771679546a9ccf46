package suite

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/fixspec/packages/core/names"
)

// Kind is the variant of a Node.
type Kind int

const (
	KindDirectory Kind = iota
	KindFile
	KindGroup
	KindTest
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	case KindGroup:
		return "group"
	case KindTest:
		return "test"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Callable is a named callable found at some level of the tree.
type Callable struct {
	Name  string
	Value reflect.Value
	// Method is set for group members; Value is then a method expression
	// whose first parameter is the receiver.
	Method bool
}

// Func creates a named callable. fn is normally a func value; anything else
// is kept as-is and rejected when the level is bound.
func Func(name string, fn any) *Callable {
	return &Callable{Name: name, Value: reflect.ValueOf(fn)}
}

// Fn is Func with the name taken from the Go symbol of fn, so that
// suite.Fn(test_one) registers "test_one". Closures have no usable name.
func Fn(fn any) *Callable {
	v := reflect.ValueOf(fn)
	name := ""
	if v.Kind() == reflect.Func {
		if f := runtime.FuncForPC(v.Pointer()); f != nil {
			name = f.Name()
			if i := strings.LastIndex(name, "."); i >= 0 {
				name = name[i+1:]
			}
			name = strings.TrimSuffix(name, "-fm")
		}
	}
	return &Callable{Name: name, Value: v}
}

// Member is anything that can be placed inside a Dir, File or Group.
type Member interface {
	member()
}

func (*Callable) member() {}
func (*Node) member() {}

// Node is one element of the suite tree.
type Node struct {
	Kind      Kind
	Name      string
	Namespace string
	Parent    *Node
	Children  []*Node
	// Funcs holds the callables of this level that are not tests.
	Funcs []*Callable
	// Test is the callable of a test node.
	Test *Callable

	// Receiver is the fixed group value, or invalid when the group is
	// created by Constructor.
	Receiver    reflect.Value
	Constructor reflect.Value
	// Type is the type of the group value.
	Type reflect.Type

	// Invalid collects members that could not be placed; the binder reports
	// them as a binding error of this node.
	Invalid []string
}

// IsTestName reports whether name follows the test naming convention.
func IsTestName(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), "test")
}

// Dir creates a directory node.
func Dir(name string, members ...Member) *Node {
	n := &Node{Kind: KindDirectory, Name: name}
	n.add(members)
	return n
}

// File creates a file node whose tests live in namespace.
func File(name, namespace string, members ...Member) *Node {
	n := &Node{Kind: KindFile, Name: name, Namespace: strings.Trim(namespace, `\`)}
	n.add(members)
	return n
}

// Group creates a group from a struct value or from a constructor. A
// constructor is called with the argument vector of the enclosing file and
// returns the group value, optionally followed by an error. Exported
// methods become members; their convention name is the Go name with a
// lower-case first letter, so Setup_run_x is setup_run_x and TestHello is
// testHello. Members are listed in the order reflection reports them, which
// is lexical.
func Group(name string, v any) *Node {
	n := &Node{Kind: KindGroup, Name: name}
	rv := reflect.ValueOf(v)
	switch {
	case !rv.IsValid():
		n.Invalid = append(n.Invalid, "group value is nil")
		return n
	case rv.Kind() == reflect.Func:
		if rv.Type().NumOut() == 0 {
			n.Invalid = append(n.Invalid, "group constructor returns nothing")
			return n
		}
		n.Constructor = rv
		n.Type = rv.Type().Out(0)
	default:
		n.Receiver = rv
		n.Type = rv.Type()
	}

	for i := 0; i < n.Type.NumMethod(); i++ {
		m := n.Type.Method(i)
		f := &Callable{Name: conventionName(m.Name), Value: m.Func, Method: true}
		if IsTestName(f.Name) {
			n.attach(&Node{Kind: KindTest, Name: f.Name, Test: f})
			continue
		}
		n.Funcs = append(n.Funcs, f)
	}
	return n
}

func (n *Node) add(members []Member) {
	for _, m := range members {
		switch m := m.(type) {
		case *Callable:
			if m == nil {
				continue
			}
			if IsTestName(m.Name) {
				n.attach(&Node{Kind: KindTest, Name: m.Name, Test: m})
				continue
			}
			n.Funcs = append(n.Funcs, m)
		case *Node:
			if m == nil {
				continue
			}
			if !n.accepts(m.Kind) {
				n.Invalid = append(n.Invalid, fmt.Sprintf("a %s cannot contain a %s (%s)", n.Kind, m.Kind, m.Name))
				continue
			}
			n.attach(m)
		}
	}
}

func (n *Node) accepts(k Kind) bool {
	switch n.Kind {
	case KindDirectory:
		return k == KindDirectory || k == KindFile
	case KindFile:
		return k == KindGroup
	}
	return false
}

func (n *Node) attach(child *Node) {
	child.Parent = n
	if n.Kind != KindDirectory {
		child.setNamespace(n.Namespace)
	}
	n.Children = append(n.Children, child)
}

func (n *Node) setNamespace(ns string) {
	n.Namespace = ns
	for _, c := range n.Children {
		c.setNamespace(ns)
	}
}

// Key returns the qualified name of a test node.
func (n *Node) Key() names.Key {
	k := names.Key{Namespace: n.Namespace, Function: n.Name}
	if n.Parent != nil && n.Parent.Kind == KindGroup {
		k.Class = n.Parent.Name
	}
	return k
}

// ID returns a path unique within the tree, e.g. tests/test_a.go/Test/test_one.
func (n *Node) ID() string {
	if n.Parent == nil {
		return n.Name
	}
	return n.Parent.ID() + "/" + n.Name
}

// File returns the enclosing file node, or nil.
func (n *Node) File() *Node {
	for c := n; c != nil; c = c.Parent {
		if c.Kind == KindFile {
			return c
		}
	}
	return nil
}

// Ancestors returns the chain from the root down to, and including, n.
func (n *Node) Ancestors() []*Node {
	var chain []*Node
	for c := n; c != nil; c = c.Parent {
		chain = append(chain, c)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Walk visits n and its descendants depth first in discovery order. A
// false return from visit skips the children of that node.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

func conventionName(goName string) string {
	r, size := utf8.DecodeRuneInString(goName)
	if r == utf8.RuneError {
		return goName
	}
	return string(unicode.ToLower(r)) + goName[size:]
}
