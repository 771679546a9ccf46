package suites

import (
	"github.com/abdul-hamid-achik/fixspec/packages/assertions"
	"github.com/abdul-hamid-achik/fixspec/packages/core/suite"
	"github.com/abdul-hamid-achik/fixspec/packages/core/testctx"
)

// resolutionTest is registered as the group Test once in the global
// namespace and once in example.
type resolutionTest struct {
	scope    string
	expected map[string]any
}

func (r *resolutionTest) Test_one(ctx *testctx.Context) {
	ctx.Set(r.scope + " method one")
}

func (r *resolutionTest) Test_two(ctx *testctx.Context) {
	refs := make([]string, 0, len(r.expected))
	for ref := range r.expected {
		refs = append(refs, ref)
	}
	assertions.Equal(r.expected, ctx.Requires(refs...))
}

func requireAll(expected map[string]any) func(*testctx.Context) {
	return func(ctx *testctx.Context) {
		refs := make([]string, 0, len(expected))
		for ref := range expected {
			refs = append(refs, ref)
		}
		assertions.Equal(expected, ctx.Requires(refs...))
	}
}

// NameResolution shows how references are resolved relative to the
// namespace and class of the test that makes them.
func NameResolution() *suite.Node {
	return suite.Dir("name-resolution",
		suite.File("test_name_resolution.go", "",
			suite.Func("test_one", func(ctx *testctx.Context) {
				ctx.Set("global function one")
			}),
			suite.Func("test_two", requireAll(map[string]any{
				"test_one":               "global function one",
				"Test::test_one":         "global method one",
				`example\test_one`:       "example function one",
				`example\Test::test_one`: "example method one",
			})),
			suite.Group("Test", &resolutionTest{
				scope: "global",
				expected: map[string]any{
					"test_one":               "global method one",
					"::test_one":             "global function one",
					`example\test_one`:       "example function one",
					`example\Test::test_one`: "example method one",
				},
			}),
		),
		suite.File("test_name_resolution_example.go", "example",
			suite.Func("test_one", func(ctx *testctx.Context) {
				ctx.Set("example function one")
			}),
			suite.Func("test_two", requireAll(map[string]any{
				"test_one":        "example function one",
				"Test::test_one":  "example method one",
				`\test_one`:       "global function one",
				`\Test::test_one`: "global method one",
			})),
			suite.Group("Test", &resolutionTest{
				scope: "example",
				expected: map[string]any{
					"test_one":        "example method one",
					"::test_one":      "example function one",
					`\test_one`:       "global function one",
					`\Test::test_one`: "global method one",
				},
			}),
		),
	)
}
