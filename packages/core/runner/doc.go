// Package runner executes a suite tree and collects one result per run
// instance.
//
// It provides functionality for:
//   - Binding fixtures and planning the run instances of every test
//   - Walking directories, files and groups with their shared fixtures
//   - Driving each instance through setup, test body and teardown
//   - Rerunning instances whose dependencies had not run yet
//   - Name filtering, bail and cancellation
//   - Shell hooks around the suite
//
// Execution is strictly sequential; the dependency store of a run is not
// shared with other runs.
package runner
