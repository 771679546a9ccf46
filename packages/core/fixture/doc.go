// Package fixture classifies the callables of a suite node by naming
// convention and invokes them with an argument vector.
//
// Recognized names, compared case-insensitively:
//
//	setup, teardown                  per directory, per test in files and groups
//	setup_file, teardown_file        once per file
//	setup_run_<id>, teardown_run_<id> one run of everything beneath per <id>
//
// Parameters are matched positionally against the argument vector and the
// Go parameter types act as type hints. A trailing *testctx.Context
// parameter is supplied by the runner.
package fixture
