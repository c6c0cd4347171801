package list

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alpacahq/marketcal/cmd/cmdutil"
)

// Cmd is the list command.
var Cmd = &cobra.Command{
	Use:     "list [pattern]",
	Short:   "List the available exchanges",
	Long:    "This command lists the available exchanges, optionally filtered by a glob pattern such as \"X*\"",
	Example: "marketcal list 'X*'",
	Aliases: []string{"ls"},
	Args:    cobra.MaximumNArgs(1),
	RunE:    executeList,
}

func executeList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	reg, err := cmdutil.Registry()
	if err != nil {
		return err
	}
	pattern := "*"
	if len(args) == 1 {
		pattern = args[0]
	}
	cals, err := reg.Match(pattern)
	if err != nil {
		return err
	}
	for _, c := range cals {
		fmt.Fprintf(cmd.OutOrStdout(), "%-6s  %-20s  %s\n", c.Name(), c.Tz(), c.Span())
	}
	return nil
}
