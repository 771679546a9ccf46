package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/fixspec/packages/core/runner"
)

var listNameFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every planned test instance",
	Long: `List the test instances a run would execute, one line per
combination of run variants, without calling any fixture. Nodes that
cannot be bound are listed with their problems and make the command
exit with status 1.

Examples:
  fixspec list
  fixspec list --name "*database*"`,
	Args: cobra.NoArgs,
	RunE: listCommand,
}

func init() {
	listCmd.Flags().StringVarP(&listNameFlag, "name", "n", "", "List only tests matching name pattern")
}

func listCommand(cmd *cobra.Command, args []string) error {
	if suiteRoot == nil {
		return withExitCode(ExitUsageError, errors.New("no suite registered"))
	}

	plan := runner.NewRunner(nil).Plan(suiteRoot)

	file := ""
	for _, inst := range plan.Instances {
		if listNameFlag != "" && !runner.Matches(inst.Node, listNameFlag) {
			continue
		}
		if f := inst.Node.File(); f != nil && f.ID() != file {
			file = f.ID()
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", file)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s", inst.Key)
		if len(inst.Path) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), " [%s]", inst.Path)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	if len(plan.Errors) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\nBinding errors:\n")
		for _, err := range plan.Errors {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %v\n", err)
		}
		return withExitCode(ExitTestFailure, fmt.Errorf("%d nodes cannot be bound", len(plan.Errors)))
	}
	return nil
}
