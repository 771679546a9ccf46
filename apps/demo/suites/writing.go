package suites

import (
	"runtime"

	"github.com/abdul-hamid-achik/fixspec/packages/assertions"
	"github.com/abdul-hamid-achik/fixspec/packages/core/suite"
	"github.com/abdul-hamid-achik/fixspec/packages/core/testctx"
)

const minCPUs = 4096

func testSkip() {
	if runtime.NumCPU() < minCPUs {
		assertions.Skipf("needs at least %d CPUs", minCPUs)
	}
}

func testDivisionByZero() {
	zero := 0
	raised := assertions.Throws(func() error {
		_ = 3 / zero
		return nil
	})
	err, ok := raised.(runtime.Error)
	assertions.True(ok, "expected a runtime error")
	assertions.Equal("runtime error: integer divide by zero", err.Error())
}

// Writing returns the examples of skipping, errors and dependencies.
func Writing() *suite.Node {
	return suite.Dir("writing-tests",
		suite.File("test_skip.go", `example\writing`,
			suite.Fn(testSkip),
			suite.Fn(testDivisionByZero),
		),
		suite.File("test_dependencies.go", `example\dependencies`,
			suite.Func("test_one", func(ctx *testctx.Context) {
				ctx.Set(1)
			}),
			suite.Func("test_two", func(ctx *testctx.Context) {
				assertions.Equal(1, ctx.Require("test_one"))
			}),
			suite.Func("test_three", func(ctx *testctx.Context) {
				ctx.Set(3)
			}),
			// test_two publishes nothing, so it is left out.
			suite.Func("test_four", func(ctx *testctx.Context) {
				assertions.Equal(
					map[string]any{"test_one": 1, "test_three": 3},
					ctx.Requires("test_one", "test_two", "test_three"),
				)
			}),
		),
	)
}
