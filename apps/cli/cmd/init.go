package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/fixspec/packages/core/config"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long: `Write a configuration file with the default settings.

The file defaults to .fixspec.yaml in the current directory; a path
ending in .json is written as JSON.

Examples:
  fixspec init
  fixspec init fixspec.json --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file")
}

func initCommand(cmd *cobra.Command, args []string) error {
	path := config.ConfigFilenames[0]
	if len(args) == 1 {
		path = args[0]
	}

	if !forceInit {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", path)
		}
	}

	cfg := config.DefaultConfig()
	cfg.Bail = config.BoolPtr(false)
	cfg.Verbose = config.BoolPtr(false)
	if err := cfg.SaveConfig(path); err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("failed to create config file: %w", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", path)
	return nil
}
