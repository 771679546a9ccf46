package suites

import (
	"github.com/abdul-hamid-achik/fixspec/packages/assertions"
	"github.com/abdul-hamid-achik/fixspec/packages/core/suite"
	"github.com/abdul-hamid-achik/fixspec/packages/core/testctx"
)

// Multiple runs every test once per directory variant and once per file
// variant beneath it. Values are shared only between compatible instances.
func Multiple() *suite.Node {
	return suite.Dir("multiple",
		suite.Func("setup_run_one", func() []any { return []any{1} }),
		suite.Func("setup_run_two", func() []any { return []any{2} }),

		suite.File("test_a.go", "a",
			suite.Func("setup_run_a1", func(dir int) []any { return []any{dir, 3} }),
			suite.Func("setup_run_a2", func(dir int) []any { return []any{dir, 4} }),
			suite.Func("test_one", func(dir, file int, ctx *testctx.Context) {
				ctx.Set([]int{dir, file})
			}),
			suite.Func("test_two", func(dir, file int, ctx *testctx.Context) {
				assertions.Equal(
					map[string]any{
						"test_one":    []int{dir, file},
						`c\test_one`: dir,
					},
					ctx.Requires("test_one", `b\test_one`, `c\test_one`),
				)
			}),
		),

		suite.File("test_b.go", "b",
			suite.Func("setup_run_b1", func(dir int) []any { return []any{dir, 5} }),
			suite.Func("setup_run_b2", func(dir int) []any { return []any{dir, 6} }),
			suite.Func("test_one", func(dir, file int, ctx *testctx.Context) {
				ctx.Set([]int{dir, file})
			}),
		),

		suite.File("test_c.go", "c",
			suite.Func("test_one", func(dir int, ctx *testctx.Context) {
				ctx.Set(dir)
			}),
		),
	)
}
