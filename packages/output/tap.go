package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/fixspec/packages/core/lifecycle"
	"github.com/abdul-hamid-achik/fixspec/packages/core/runner"
)

// TAPFormatter formats test results in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer    io.Writer
	testCount int
	results   []tapResult
}

type tapResult struct {
	number  int
	name    string
	state   lifecycle.State
	message string
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer:  os.Stdout,
		results: make([]tapResult, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatResult(result *runner.RunResult) {
	for _, r := range result.Results {
		f.testCount++
		f.results = append(f.results, tapResult{
			number:  f.testCount,
			name:    r.DisplayName(),
			state:   r.State,
			message: r.Message,
		})
	}
}

func (f *TAPFormatter) FormatError(err error) {
	// Errors are included in individual test results
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(totalDuration time.Duration) error {
	fmt.Fprintf(f.writer, "TAP version 13\n")
	fmt.Fprintf(f.writer, "1..%d\n", f.testCount)

	for _, r := range f.results {
		switch r.state {
		case lifecycle.Skipped:
			reason := r.message
			if reason == "" {
				reason = "SKIP"
			}
			fmt.Fprintf(f.writer, "ok %d - %s # SKIP %s\n", r.number, r.name, strings.ReplaceAll(reason, "\n", " "))
		case lifecycle.Passed:
			fmt.Fprintf(f.writer, "ok %d - %s\n", r.number, r.name)
		default:
			fmt.Fprintf(f.writer, "not ok %d - %s\n", r.number, r.name)
			severity := "fail"
			if r.state == lifecycle.Errored {
				severity = "error"
			}
			fmt.Fprintf(f.writer, "  ---\n")
			lines := strings.Split(r.message, "\n")
			if len(lines) == 1 {
				fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(r.message))
			} else {
				fmt.Fprintf(f.writer, "  failures:\n")
				for _, line := range lines {
					fmt.Fprintf(f.writer, "    - %s\n", escapeYAML(line))
				}
			}
			fmt.Fprintf(f.writer, "  severity: %s\n", severity)
			fmt.Fprintf(f.writer, "  ...\n")
		}
	}

	// Add final newline for proper TAP output
	fmt.Fprintln(f.writer)

	return nil
}

func escapeYAML(s string) string {
	// Simple YAML escaping - wrap in quotes if contains special chars
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return "\"" + s + "\""
	}
	return s
}
