package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/fixspec/packages/core/lifecycle"
	"github.com/abdul-hamid-achik/fixspec/packages/core/runner"
)

func sampleResult() *runner.RunResult {
	result := &runner.RunResult{
		RunID: "3f1c9a52-0000-4000-8000-000000000001",
		Suite: "tests",
		Results: []*runner.TestResult{
			{ID: "tests/a.go/test_one", Name: "test_one", File: "tests/a.go", State: lifecycle.Passed, Duration: 2 * time.Millisecond},
			{ID: "tests/b.go/Test/test_one", Name: `example\Test::test_one`, Run: "a1", File: "tests/b.go", State: lifecycle.Passed, Duration: 4 * time.Millisecond},
			{ID: "tests/a.go/test_skip", Name: "test_skip", File: "tests/a.go", State: lifecycle.Skipped, Message: "not today"},
			{ID: "tests/a.go/test_fail", Name: "test_fail", File: "tests/a.go", State: lifecycle.Failed, Message: "expected 1, got 2", Duration: time.Millisecond},
			{ID: "tests/a.go/test_err", Name: "test_err", File: "tests/a.go", State: lifecycle.Errored, Message: "panic: kaboom"},
			{ID: "tests/b.go/test_multi", Name: "test_multi", File: "tests/b.go", State: lifecycle.Failed, Message: "first\nsecond", Duration: 3 * time.Millisecond},
		},
		Duration: 15 * time.Millisecond,
	}
	result.Recount()
	return result
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))
	f.FormatHeader("v1.0.0")
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(15*time.Millisecond))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "tap_report", buf.Bytes())
}

func TestConsoleFormatter(t *testing.T) {
	t.Run("summary and messages", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))
		f.FormatResult(sampleResult())

		out := buf.String()
		assert.Contains(t, out, "Running: tests")
		assert.Contains(t, out, "tests/a.go\n")
		assert.Contains(t, out, `✓ example\Test::test_one [a1] (4ms)`)
		assert.Contains(t, out, "- test_skip (not today)")
		assert.Contains(t, out, "✗ test_fail (1ms)\n    → expected 1, got 2")
		assert.Contains(t, out, "x test_err\n    → panic: kaboom")
		assert.Contains(t, out, "    → first\n    → second")
		assert.Contains(t, out, "Tests: 2 passed, 2 failed, 1 errored, 1 skipped, 6 total")
		assert.NotContains(t, out, "Durations:")
	})

	t.Run("verbose adds duration percentiles", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(true))
		f.FormatResult(sampleResult())

		assert.Contains(t, buf.String(), "Durations: p50 ")
		assert.Contains(t, buf.String(), "Run:   3f1c9a52-0000-4000-8000-000000000001")
	})

	t.Run("header and error", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))
		f.FormatHeader("v1.2.3")
		f.FormatError(assert.AnError)

		assert.Contains(t, buf.String(), "fixspec v1.2.3")
		assert.Contains(t, buf.String(), "Error: "+assert.AnError.Error())
	})
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(15*time.Millisecond))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "3f1c9a52-0000-4000-8000-000000000001", out.RunID)
	assert.Equal(t, JSONSummary{Total: 6, Passed: 2, Failed: 2, Skipped: 1, Errored: 1}, out.Summary)
	assert.Equal(t, float64(15), out.Duration)
	require.Len(t, out.Tests, 6)
	assert.Equal(t, JSONTest{
		ID:       "tests/b.go/Test/test_one",
		Name:     `example\Test::test_one`,
		Run:      "a1",
		File:     "tests/b.go",
		State:    "passed",
		Duration: 4,
	}, out.Tests[1])
	assert.Equal(t, "errored", out.Tests[4].State)
	assert.InDelta(t, 4, out.Durations.Max, 0.01)
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(15*time.Millisecond))

	require.True(t, strings.HasPrefix(buf.String(), `<?xml version="1.0" encoding="UTF-8"?>`))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))

	assert.Equal(t, "fixspec", suites.Name)
	assert.Equal(t, 6, suites.Tests)
	assert.Equal(t, 2, suites.Failures)
	assert.Equal(t, 1, suites.Errors)
	assert.Equal(t, 1, suites.Skipped)

	require.Len(t, suites.TestSuites, 2)
	a := suites.TestSuites[0]
	assert.Equal(t, "tests/a.go", a.Name)
	assert.Equal(t, 4, a.Tests)
	assert.Equal(t, []JUnitProperty{{Name: "run_id", Value: "3f1c9a52-0000-4000-8000-000000000001"}}, a.Properties)
	require.Len(t, a.TestCases, 4)
	assert.Equal(t, "tests/a.go", a.TestCases[0].ClassName)
	assert.Equal(t, "tests/a.go", a.TestCases[0].File)
	require.NotNil(t, a.TestCases[2].Failure)
	assert.Equal(t, "expected 1, got 2", a.TestCases[2].Failure.Message)
	require.NotNil(t, a.TestCases[3].Error)
	assert.Equal(t, "panic: kaboom", a.TestCases[3].Error.Message)

	b := suites.TestSuites[1]
	assert.Equal(t, `example\Test`, b.TestCases[0].ClassName)
	assert.Equal(t, `example\Test::test_one [a1]`, b.TestCases[0].Name)
	assert.Equal(t, "first", b.TestCases[1].Failure.Message)
	assert.Equal(t, "first\nsecond", b.TestCases[1].Failure.Content)
}

func TestComputeStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, DurationStats{}, ComputeStats(nil))
	})

	t.Run("percentiles", func(t *testing.T) {
		var results []*runner.TestResult
		for i := 1; i <= 100; i++ {
			results = append(results, &runner.TestResult{Duration: time.Duration(i) * time.Millisecond})
		}
		results = append(results, &runner.TestResult{State: lifecycle.Errored})

		stats := ComputeStats(results)
		assert.Equal(t, 100, stats.Count)
		assert.InDelta(t, float64(50*time.Millisecond), float64(stats.P50), float64(time.Millisecond))
		assert.InDelta(t, float64(95*time.Millisecond), float64(stats.P95), float64(time.Millisecond))
		assert.InDelta(t, float64(100*time.Millisecond), float64(stats.Max), float64(time.Millisecond))
	})
}
