package suites

import (
	"github.com/abdul-hamid-achik/fixspec/packages/assertions"
	"github.com/abdul-hamid-achik/fixspec/packages/core/suite"
	"github.com/abdul-hamid-achik/fixspec/packages/core/testctx"
)

// Greeter says hello at one time of day.
type Greeter struct {
	TimeOfDay string
}

func (g Greeter) Greet() string {
	return "Good " + g.TimeOfDay + ", world!"
}

var greetings = []struct {
	greeter  Greeter
	expected string
}{
	{Greeter{"morning"}, "Good morning, world!"},
	{Greeter{"afternoon"}, "Good afternoon, world!"},
	{Greeter{"evening"}, "Good evening, world!"},
	{Greeter{"night"}, "Good night, world!"},
}

// testGreetings stops at the first wrong greeting.
func testGreetings() {
	for _, g := range greetings {
		assertions.Equal(g.expected, g.greeter.Greet())
	}
}

// testGreetingsSubtest checks every greeting and reports each wrong one.
func testGreetingsSubtest(ctx *testctx.Context) {
	for _, g := range greetings {
		ctx.Subtest(func() {
			assertions.Equal(g.expected, g.greeter.Greet())
		})
	}
}

func Greetings() *suite.Node {
	return suite.File("test_greetings.go", `example\greet`,
		suite.Fn(testGreetings),
		suite.Fn(testGreetingsSubtest),
	)
}
