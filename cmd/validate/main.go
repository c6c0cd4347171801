package validate

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alpacahq/marketcal/calendar"
	"github.com/alpacahq/marketcal/cmd/cmdutil"
	"github.com/alpacahq/marketcal/config"
)

const (
	// Command
	// -------------.
	usage   = "validate [bundle file or directory]..."
	short   = "Validate exchange bundles"
	long    = "This command builds exchange bundles and reports rule authoring warnings and days that fail to resolve. " +
		"Without arguments it validates every available exchange"
	example = "marketcal validate ./exchanges/xnys.yml"
)

// Cmd is the validate command.
var Cmd = &cobra.Command{
	Use:        usage,
	Short:      short,
	Long:       long,
	SuggestFor: []string{"lint", "verify"},
	Example:    example,
	RunE:       executeValidate,
}

func executeValidate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cals, err := calendars(args)
	if err != nil {
		return err
	}
	failed := 0
	for _, c := range cals {
		if !Report(cmd.OutOrStdout(), c) {
			failed++
		}
	}
	if failed > 0 {
		return errors.Errorf("%d of %d calendars have unresolvable days", failed, len(cals))
	}
	return nil
}

func calendars(args []string) ([]*calendar.Calendar, error) {
	if len(args) == 0 {
		reg, err := cmdutil.Registry()
		if err != nil {
			return nil, err
		}
		return reg.Match("*")
	}
	var bundles []*config.Bundle
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s", arg)
		}
		if fi.IsDir() {
			bs, err := config.LoadDir(arg)
			if err != nil {
				return nil, err
			}
			bundles = append(bundles, bs...)
			continue
		}
		b, err := config.Load(arg)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	out := make([]*calendar.Calendar, 0, len(bundles))
	for _, b := range bundles {
		c, err := b.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Report prints the warnings and faults of c and returns false if any day
// failed to resolve.
func Report(w io.Writer, c *calendar.Calendar) bool {
	diags := c.Diagnostics()
	faults := c.Faults()
	fmt.Fprintf(w, "%s: %d warnings, %d unresolvable days\n", c.Name(), len(diags), len(faults))
	for _, d := range diags {
		fmt.Fprintf(w, "  warning: %v\n", d)
	}
	for _, f := range faults {
		fmt.Fprintf(w, "  error: %v\n", f.Err)
	}
	return len(faults) == 0
}
