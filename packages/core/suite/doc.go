// Package suite models the tree a run walks: directories contain files
// and directories, files contain free test functions and groups, groups
// contain test methods. Fixture callables are attached to the level they
// belong to and are classified later by package fixture.
//
// Suites are plain Go values built with Dir, File, Group and Func:
//
//	suite.Dir("tests",
//	    suite.Func("setup_run_a1", func() []any { return []any{3} }),
//	    suite.File("test_a.go", "a",
//	        suite.Func("test_one", testOne),
//	        suite.Group("Test", &TestCase{}),
//	    ),
//	)
package suite
