package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/fixspec/packages/core/runner"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	RunID     string        `json:"runId"`
	Summary   JSONSummary   `json:"summary"`
	Durations JSONDurations `json:"durations"`
	Tests     []JSONTest    `json:"tests"`
	Duration  float64       `json:"duration"`
	Time      string        `json:"time"`
}

// JSONSummary represents the test summary
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Errored int `json:"errored"`
}

// JSONDurations holds duration percentiles in milliseconds
type JSONDurations struct {
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	Max float64 `json:"max"`
}

// JSONTest represents a single test result
type JSONTest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Run      string  `json:"run,omitempty"`
	File     string  `json:"file,omitempty"`
	State    string  `json:"state"`
	Message  string  `json:"message,omitempty"`
	Duration float64 `json:"duration"`
}

// JSONFormatter formats test results as JSON
type JSONFormatter struct {
	writer  io.Writer
	runID   string
	results []*runner.TestResult
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	f.runID = result.RunID
	f.results = append(f.results, result.Results...)
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual test results
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	summary := &runner.RunResult{Results: f.results}
	tests := make([]JSONTest, 0, len(f.results))
	for _, r := range f.results {
		tests = append(tests, JSONTest{
			ID:       r.ID,
			Name:     r.Name,
			Run:      r.Run,
			File:     r.File,
			State:    r.State.String(),
			Message:  r.Message,
			Duration: milliseconds(r.Duration),
		})
	}
	summary.Recount()

	stats := ComputeStats(f.results)
	output := JSONOutput{
		RunID: f.runID,
		Summary: JSONSummary{
			Total:   summary.Total(),
			Passed:  summary.Passed,
			Failed:  summary.Failed,
			Skipped: summary.Skipped,
			Errored: summary.Errored,
		},
		Durations: JSONDurations{
			P50: milliseconds(stats.P50),
			P95: milliseconds(stats.P95),
			Max: milliseconds(stats.Max),
		},
		Tests:    tests,
		Duration: milliseconds(totalDuration),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
