// Package assertions provides the signals a test body uses to end an
// execution early, plus a small set of assertion helpers built on them.
//
// Signals:
//   - Failure: an expectation did not hold; the current execution fails
//   - Skipped: the execution stops intentionally and is reported with a reason
//
// Both are raised by panicking with a pointer value. The runner recovers
// them at the boundary of one test execution, so a signal never affects
// sibling tests. Value comparison is delegated to go-cmp.
package assertions
