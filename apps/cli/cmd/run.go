package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/fixspec/packages/core/config"
	"github.com/abdul-hamid-achik/fixspec/packages/core/runner"
	"github.com/abdul-hamid-achik/fixspec/packages/log"
	"github.com/abdul-hamid-achik/fixspec/packages/output"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the registered suite",
	Long: `Run every test of the registered suite, once per combination of
run variants along its ancestors.

Examples:
  fixspec run
  fixspec run --name "test_*"
  fixspec run --name 'example\Test::test_one'
  fixspec run --output junit --output-file report.xml
  fixspec run --bail --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runCommand,
}

var (
	nameFlag       string
	outputFlag     string
	outputFileFlag string
	bailFlag       bool
	verboseFlag    bool
	noColorFlag    bool
	configFlag     string
	logLevelFlag   string
	logFormatFlag  string
)

func init() {
	runCmd.Flags().StringVarP(&nameFlag, "name", "n", getEnvString("FIXSPEC_NAME", ""), "Run only tests matching name pattern (env: FIXSPEC_NAME)")
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("FIXSPEC_CONFIG", ""), "Path to config file (env: FIXSPEC_CONFIG)")

	// Output flags
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("FIXSPEC_OUTPUT", "console"), "Output format: console, json, junit, tap (env: FIXSPEC_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("FIXSPEC_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: FIXSPEC_OUTPUT_FILE)")
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("FIXSPEC_VERBOSE", false), "Verbose output (env: FIXSPEC_VERBOSE)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("FIXSPEC_NO_COLOR", false), "Disable colored output (env: FIXSPEC_NO_COLOR)")

	// Execution flags
	runCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("FIXSPEC_BAIL", false), "Stop on first failure (env: FIXSPEC_BAIL)")

	// Logging flags
	runCmd.Flags().StringVar(&logLevelFlag, "log-level", "", "Log level: trace, debug, info, warn, error (env: FIXSPEC_LOG_LEVEL)")
	runCmd.Flags().StringVar(&logFormatFlag, "log-format", "", "Log format: text, json (env: FIXSPEC_LOG_FORMAT)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *runner.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

func runCommand(cmd *cobra.Command, args []string) error {
	if suiteRoot == nil {
		return withExitCode(ExitUsageError, errors.New("no suite registered"))
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	logger := newLogger(cmd, cfg)

	var out io.Writer = cmd.OutOrStdout()
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return withExitCode(ExitConfigError, fmt.Errorf("cannot create output file: %w", err))
		}
		defer f.Close()
		out = f
	}

	formatter := newFormatter(cfg, out)
	formatter.FormatHeader(version)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.NewRunner(&runner.Config{
		NameFilter: cfg.Filter,
		Bail:       cfg.GetBail(),
		Verbose:    cfg.GetVerbose(),
		Hooks: runner.Hooks{
			Before: cfg.Hooks.Before,
			After:  cfg.Hooks.After,
		},
		Logger: logger,
	})

	start := time.Now()
	result, runErr := r.Run(ctx, suiteRoot)
	if result != nil {
		formatter.FormatResult(result)
	}
	if runErr != nil {
		formatter.FormatError(runErr)
	}

	if flushable, ok := formatter.(Flushable); ok {
		if err := flushable.Flush(time.Since(start)); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
	}

	switch {
	case errors.Is(runErr, context.Canceled):
		return withExitCode(ExitInterrupted, runErr)
	case runErr != nil:
		return withExitCode(ExitTestFailure, runErr)
	case !result.Success():
		return withExitCode(ExitTestFailure, fmt.Errorf("%d of %d tests failed", result.Failed+result.Errored, result.Total()))
	}
	return nil
}

// loadConfig reads the config file and applies the flags and environment
// variables that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, err
	}

	overrides := &config.Config{}
	if explicit(cmd, "name", "FIXSPEC_NAME") {
		overrides.Filter = nameFlag
	}
	if explicit(cmd, "output", "FIXSPEC_OUTPUT") {
		overrides.Output = strings.ToLower(outputFlag)
	}
	if explicit(cmd, "output-file", "FIXSPEC_OUTPUT_FILE") {
		overrides.OutputFile = outputFileFlag
	}
	if explicit(cmd, "bail", "FIXSPEC_BAIL") {
		overrides.Bail = config.BoolPtr(bailFlag)
	}
	if explicit(cmd, "verbose", "FIXSPEC_VERBOSE") {
		overrides.Verbose = config.BoolPtr(verboseFlag)
	}
	if explicit(cmd, "no-color", "FIXSPEC_NO_COLOR") {
		overrides.NoColor = config.BoolPtr(noColorFlag)
	}
	overrides.LogLevel = logLevelFlag
	overrides.LogFormat = logFormatFlag

	cfg := fileConfig.Merge(overrides)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func explicit(cmd *cobra.Command, flag, env string) bool {
	return cmd.Flags().Changed(flag) || os.Getenv(env) != ""
}

// newLogger builds the run logger. The environment is consulted first; a
// level or format given on the command line or in the config file wins.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	logCfg := log.FromEnv()
	logCfg.Output = cmd.ErrOrStderr()

	levelFromEnv := os.Getenv("FIXSPEC_DEBUG") != "" || os.Getenv("FIXSPEC_LOG_LEVEL") != "" || os.Getenv("LOG_LEVEL") != ""
	if logLevelFlag != "" || (!levelFromEnv && cfg.LogLevel != "") {
		logCfg.Level = cfg.LogLevel
	}
	formatFromEnv := os.Getenv("FIXSPEC_LOG_FORMAT") != "" || os.Getenv("LOG_FORMAT") != ""
	if logFormatFlag != "" || (!formatFromEnv && cfg.LogFormat != "") {
		logCfg.Format = log.Format(cfg.LogFormat)
	}
	return log.New(logCfg)
}

func newFormatter(cfg *config.Config, w io.Writer) Formatter {
	switch cfg.Output {
	case "json":
		return output.NewJSONFormatter(output.JSONWithWriter(w))
	case "junit":
		return output.NewJUnitFormatter(output.JUnitWithWriter(w))
	case "tap":
		return output.NewTAPFormatter(output.TAPWithWriter(w))
	default:
		return output.NewConsoleFormatter(
			output.WithWriter(w),
			output.WithVerbose(cfg.GetVerbose()),
			output.WithNoColor(cfg.GetNoColor()),
		)
	}
}
