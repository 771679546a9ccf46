// Package output provides formatters for displaying run results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output with duration percentiles
//   - JUnit: JUnit XML format for CI integration, one suite per file
//   - TAP: Test Anything Protocol format
//
// Each formatter implements the Formatter interface of the command line and
// can optionally implement Flushable for formats that accumulate results
// before output.
package output
