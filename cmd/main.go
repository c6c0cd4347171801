package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alpacahq/marketcal/cmd/check"
	"github.com/alpacahq/marketcal/cmd/cmdutil"
	"github.com/alpacahq/marketcal/cmd/export"
	"github.com/alpacahq/marketcal/cmd/list"
	"github.com/alpacahq/marketcal/cmd/sessions"
	"github.com/alpacahq/marketcal/cmd/validate"
	"github.com/alpacahq/marketcal/config"
	"github.com/alpacahq/marketcal/utils"
	"github.com/alpacahq/marketcal/utils/log"
)

const (
	configDirFlag = "config-dir"
	configDirDesc = "directory of extra exchange bundles (.yml, .yaml, .json); overrides " + config.EnvConfigDir
)

// flagPrintVersion set flag to show current marketcal version.
var flagPrintVersion bool

// Execute builds the command tree and executes commands.
func Execute() error {
	env, err := config.LoadEnv(".env")
	if err != nil {
		return err
	}
	env.Apply()
	defer log.Sync()

	// c is the root command.
	c := &cobra.Command{
		Use:   "marketcal",
		Short: "Exchange trading session calendars",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Print version if specified.
			if flagPrintVersion {
				cmd.Printf("version: %+v\n", utils.Tag)
				cmd.Printf("commit hash: %+v\n", utils.GitHash)
				cmd.Printf("utc build time: %+v\n", utils.BuildStamp)
				return nil
			}
			// Print information regarding usage.
			return cmd.Usage()
		},
	}

	// Adds subcommands and flags.
	c.AddCommand(sessions.Cmd)
	c.AddCommand(check.Cmd)
	c.AddCommand(validate.Cmd)
	c.AddCommand(export.Cmd)
	c.AddCommand(list.Cmd)
	c.Flags().BoolVarP(&flagPrintVersion, "version", "v", false, "show the version info and exit")
	c.PersistentFlags().StringVar(&cmdutil.ConfigDir, configDirFlag, env.ConfigDir, configDirDesc)

	return c.Execute()
}
