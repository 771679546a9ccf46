// Package suites holds the example suites run by the demo command.
package suites

import "github.com/abdul-hamid-achik/fixspec/packages/core/suite"

// Root returns the tree of every example suite.
func Root() *suite.Node {
	return suite.Dir("examples",
		Greetings(),
		Quickstart(),
		Writing(),
		NameResolution(),
		Multiple(),
		Database(),
	)
}
