package runner

import (
	"errors"

	"github.com/abdul-hamid-achik/fixspec/packages/core/depstore"
	"github.com/abdul-hamid-achik/fixspec/packages/core/expand"
	"github.com/abdul-hamid-achik/fixspec/packages/core/fixture"
	"github.com/abdul-hamid-achik/fixspec/packages/core/lifecycle"
	"github.com/abdul-hamid-achik/fixspec/packages/core/names"
	"github.com/abdul-hamid-achik/fixspec/packages/core/suite"
)

// Instance is one planned execution of a test.
type Instance struct {
	Node *suite.Node
	Key  names.Key
	Path expand.Path
}

// Plan lists the instances a run would execute, grouped by test in
// discovery order, and the nodes that could not be bound.
type Plan struct {
	Instances []Instance
	Errors    []*fixture.BindingError
}

// plan is the prepared form of a suite tree for one run.
type plan struct {
	root     *suite.Node
	bindings map[*suite.Node]*fixture.Binding
	broken   []*brokenNode
	index    *names.Index
	tests    []*suite.Node
	paths    map[*suite.Node][]expand.Path
	byKey    map[string]*suite.Node
}

type brokenNode struct {
	node *suite.Node
	err  *fixture.BindingError
}

// prepare binds every node, indexes the tests and plans their instances.
// A node that fails to bind is left out together with everything beneath
// it; its tests stay in the index so that dependents see them as broken.
func prepare(root *suite.Node) *plan {
	p := &plan{
		root:     root,
		bindings: make(map[*suite.Node]*fixture.Binding),
		index:    names.NewIndex(),
		paths:    make(map[*suite.Node][]expand.Path),
		byKey:    make(map[string]*suite.Node),
	}

	var visit func(n *suite.Node, levels []expand.Level, healthy bool)
	visit = func(n *suite.Node, levels []expand.Level, healthy bool) {
		if healthy {
			b, err := fixture.Bind(n)
			if err != nil {
				p.markBroken(n, err)
				healthy = false
			} else {
				p.bindings[n] = b
			}
		}

		if n.Kind == suite.KindTest {
			if err := p.index.Add(n.Key()); err != nil {
				var dup *names.DuplicateError
				if errors.As(err, &dup) && healthy {
					p.markBroken(n, err)
				}
				return
			}
			p.byKey[n.Key().Canonical()] = n
			if healthy {
				p.tests = append(p.tests, n)
				p.paths[n] = expand.Plan(levels)
			}
			return
		}

		if healthy {
			levels = append(levels[:len(levels):len(levels)], p.bindings[n].Level())
		}
		for _, c := range n.Children {
			visit(c, levels, healthy)
		}
	}
	if root != nil {
		visit(root, nil, true)
	}
	return p
}

func (p *plan) markBroken(n *suite.Node, err error) {
	var bindErr *fixture.BindingError
	if !errors.As(err, &bindErr) {
		bindErr = &fixture.BindingError{Node: n.ID(), Problems: []string{err.Error()}}
	}
	p.broken = append(p.broken, &brokenNode{node: n, err: bindErr})
}

// expect registers every planned instance in the store and records the
// tests beneath broken nodes as errored.
func (p *plan) expect(store *depstore.Store) {
	for _, n := range p.tests {
		store.Expect(n.Key(), p.paths[n])
	}
	for _, b := range p.broken {
		suite.Walk(b.node, func(n *suite.Node) bool {
			if n.Kind == suite.KindTest {
				if owner, ok := p.byKey[n.Key().Canonical()]; ok && owner == n {
					store.Record(&depstore.Entry{Key: n.Key(), State: lifecycle.Errored})
				}
			}
			return true
		})
	}
}

func (p *plan) public() *Plan {
	out := &Plan{}
	for _, n := range p.tests {
		for _, path := range p.paths[n] {
			out.Instances = append(out.Instances, Instance{Node: n, Key: n.Key(), Path: path})
		}
	}
	for _, b := range p.broken {
		out.Errors = append(out.Errors, b.err)
	}
	return out
}
