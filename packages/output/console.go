package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/fixspec/packages/core/lifecycle"
	"github.com/abdul-hamid-achik/fixspec/packages/core/runner"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result *runner.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Running: "+result.Suite))

	file := "\x00"
	for _, r := range result.Results {
		if r.File != file {
			file = r.File
			if file != "" {
				fmt.Fprintf(f.writer, "\n%s\n", file)
			}
		}

		switch r.State {
		case lifecycle.Skipped:
			fmt.Fprintf(f.writer, "  %s %s", yellow("-"), r.DisplayName())
			if r.Message != "" {
				fmt.Fprintf(f.writer, " (%s)", r.Message)
			}
			fmt.Fprintf(f.writer, "\n")
		case lifecycle.Errored:
			fmt.Fprintf(f.writer, "  %s %s\n", red("x"), r.DisplayName())
			f.writeMessage(r.Message, red)
		case lifecycle.Failed:
			fmt.Fprintf(f.writer, "  %s %s %s\n", red("✗"), r.DisplayName(), cyan(fmt.Sprintf("(%dms)", r.Duration.Milliseconds())))
			f.writeMessage(r.Message, red)
		default:
			fmt.Fprintf(f.writer, "  %s %s %s\n", green("✓"), r.DisplayName(), cyan(fmt.Sprintf("(%dms)", r.Duration.Milliseconds())))
		}
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Tests: ")
	if result.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", result.Passed)))
	}
	if result.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", result.Failed)))
	}
	if result.Errored > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d errored", result.Errored)))
	}
	if result.Skipped > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d skipped", result.Skipped)))
	}
	fmt.Fprintf(f.writer, "%d total\n", result.Total())
	fmt.Fprintf(f.writer, "Time:  %dms\n", result.Duration.Milliseconds())

	if f.verbose {
		if stats := ComputeStats(result.Results); stats.Count > 0 {
			fmt.Fprintf(f.writer, "Durations: p50 %s, p95 %s, max %s\n", stats.P50, stats.P95, stats.Max)
		}
		fmt.Fprintf(f.writer, "Run:   %s\n", result.RunID)
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) writeMessage(msg string, paint func(a ...interface{}) string) {
	if msg == "" {
		return
	}
	for _, line := range strings.Split(msg, "\n") {
		fmt.Fprintf(f.writer, "    %s %s\n", paint("→"), line)
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("fixspec"), version)
}
