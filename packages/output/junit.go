package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/fixspec/packages/core/lifecycle"
	"github.com/abdul-hamid-achik/fixspec/packages/core/runner"
)

// JUnitTestSuites is the <testsuites> report root.
type JUnitTestSuites struct {
	XMLName xml.Name `xml:"testsuites"`
	Name    string   `xml:"name,attr,omitempty"`
	JUnitCounts
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitCounts are the counters shared by the root and every suite.
type JUnitCounts struct {
	Tests    int `xml:"tests,attr"`
	Failures int `xml:"failures,attr"`
	Errors   int `xml:"errors,attr"`
	Skipped  int `xml:"skipped,attr"`
}

func (c *JUnitCounts) add(o JUnitCounts) {
	c.Tests += o.Tests
	c.Failures += o.Failures
	c.Errors += o.Errors
	c.Skipped += o.Skipped
}

// JUnitTestSuite holds the instances of one file.
type JUnitTestSuite struct {
	XMLName xml.Name `xml:"testsuite"`
	Name    string   `xml:"name,attr"`
	JUnitCounts
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr,omitempty"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitProperty is a name/value pair attached to a suite.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// JUnitTestCase is one run instance.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	File      string        `xml:"file,attr,omitempty"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitProblem `xml:"failure,omitempty"`
	Error     *JUnitProblem `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitProblem is the body of a <failure> or <error> element: the first
// line of the message as attribute, the whole message as content.
type JUnitProblem struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitFormatter formats test results as JUnit XML
type JUnitFormatter struct {
	writer io.Writer
	suites []JUnitTestSuite
	index  map[string]int
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer: os.Stdout,
		index:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

// FormatResult adds one test suite per file, in the order files first
// appear in the results.
func (f *JUnitFormatter) FormatResult(result *runner.RunResult) {
	for _, r := range result.Results {
		name := r.File
		if name == "" {
			name = result.Suite
		}
		s := f.suite(name, result.RunID)

		tc := JUnitTestCase{
			Name:      r.DisplayName(),
			ClassName: className(r),
			File:      r.File,
			Time:      r.Duration.Seconds(),
		}
		switch r.State {
		case lifecycle.Skipped:
			s.Skipped++
			tc.Skipped = &JUnitSkipped{Message: r.Message}
		case lifecycle.Errored:
			s.Errors++
			tc.Error = problem("Error", r.Message)
		case lifecycle.Failed:
			s.Failures++
			tc.Failure = problem("AssertionError", r.Message)
		}

		s.Tests++
		s.Time += r.Duration.Seconds()
		s.TestCases = append(s.TestCases, tc)
	}
}

func (f *JUnitFormatter) suite(name, runID string) *JUnitTestSuite {
	i, ok := f.index[name]
	if !ok {
		i = len(f.suites)
		f.index[name] = i
		f.suites = append(f.suites, JUnitTestSuite{
			Name:       name,
			Timestamp:  time.Now().Format(time.RFC3339),
			Properties: []JUnitProperty{{Name: "run_id", Value: runID}},
		})
	}
	return &f.suites[i]
}

func problem(kind, msg string) *JUnitProblem {
	return &JUnitProblem{Message: firstLine(msg), Type: kind, Content: msg}
}

// className is the qualified name without the test itself, e.g.
// example\Test for example\Test::test_one.
func className(r *runner.TestResult) string {
	if i := strings.LastIndex(r.Name, "::"); i >= 0 {
		return r.Name[:i]
	}
	if i := strings.LastIndex(r.Name, `\`); i >= 0 {
		return r.Name[:i]
	}
	return r.File
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func (f *JUnitFormatter) FormatError(err error) {
	// Errors are included in individual test cases
}

func (f *JUnitFormatter) FormatHeader(version string) {
	// No header needed for JUnit XML
}

// Flush writes the report with the totals of every suite.
func (f *JUnitFormatter) Flush(totalDuration time.Duration) error {
	report := JUnitTestSuites{
		Name:       "fixspec",
		Time:       totalDuration.Seconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: f.suites,
	}
	for _, s := range f.suites {
		report.add(s.JUnitCounts)
	}

	if _, err := io.WriteString(f.writer, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(f.writer)
	enc.Indent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding junit report: %w", err)
	}
	return nil
}
