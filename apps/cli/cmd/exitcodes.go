package cmd

// Exit codes for the fixspec CLI
const (
	// ExitSuccess indicates all tests passed
	ExitSuccess = 0

	// ExitTestFailure indicates one or more tests failed or errored, a
	// before hook failed, or list found nodes that cannot be bound
	ExitTestFailure = 1

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64

	// ExitInterrupted indicates the run was cancelled by a signal
	ExitInterrupted = 130
)
