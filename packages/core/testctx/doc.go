// Package testctx provides Context, the value handed to tests and fixtures
// that declare it as their last parameter.
//
// Context is a façade over three independent parts:
//   - state sharing: Set publishes a value, Requires reads what other tests published
//   - deferred cleanup: Teardown registers actions run after the test, last first
//   - sub-assertion isolation: Subtest runs a block whose failures are recorded
//     without ending the test
//
// Context also satisfies the TestingT interfaces of testify, so assert.* and
// require.* can be used directly in test bodies.
package testctx
