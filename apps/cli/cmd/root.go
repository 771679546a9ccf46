package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/fixspec/packages/core/suite"
)

var (
	version   = "dev"
	buildTime = "unknown"

	// suiteRoot is the tree the commands operate on.
	suiteRoot *suite.Node
)

var rootCmd = &cobra.Command{
	Use:   "fixspec",
	Short: "Fixture-driven test suites for Go programs.",
	Long: `fixspec runs suites of tests described by naming conventions:
setup and teardown fixtures at every level, parameterized run variants,
subtests, skipping, and dependencies between tests.

A program registers its suite tree and hands it to the command line.`,
	SilenceUsage: true,
}

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// Execute runs the command line against root and exits the process.
func Execute(root *suite.Node, v, bt string) {
	version = v
	buildTime = bt
	suiteRoot = root
	os.Exit(exitCode(rootCmd.Execute()))
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsageError
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}
