package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Hooks are shell commands run around a suite, typically to start or stop
// services the fixtures talk to. A command prefixed with "-" may fail.
type Hooks struct {
	Before []string
	After  []string
	// Dir is the working directory of the commands.
	Dir string
}

// before runs the before hooks and stops at the first failure.
func (h Hooks) before(ctx context.Context, logger *slog.Logger) error {
	for _, cmd := range h.Before {
		if err := h.execute(ctx, cmd, logger); err != nil {
			return fmt.Errorf("before hook failed: %w", err)
		}
	}
	return nil
}

// after runs every after hook and returns the first failure.
func (h Hooks) after(ctx context.Context, logger *slog.Logger) error {
	var firstErr error
	for _, cmd := range h.After {
		if err := h.execute(context.WithoutCancel(ctx), cmd, logger); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("after hook failed: %w", err)
		}
	}
	return firstErr
}

func (h Hooks) execute(ctx context.Context, command string, logger *slog.Logger) error {
	cmdStr := strings.TrimSpace(command)
	if cmdStr == "" {
		return nil
	}

	ignoreError := strings.HasPrefix(cmdStr, "-")
	if ignoreError {
		cmdStr = strings.TrimSpace(strings.TrimPrefix(cmdStr, "-"))
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", cmdStr)
	cmd.Dir = h.Dir
	cmd.Env = os.Environ()

	output, err := cmd.CombinedOutput()
	logger.Debug("hook finished", slog.String("command", cmdStr), slog.String("output", strings.TrimSpace(string(output))))
	if err != nil && !ignoreError {
		return fmt.Errorf("command %q failed: %v\nOutput: %s", cmdStr, err, output)
	}
	return nil
}
