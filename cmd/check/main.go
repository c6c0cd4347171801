package check

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alpacahq/marketcal/cmd/cmdutil"
	"github.com/alpacahq/marketcal/session"
	"github.com/alpacahq/marketcal/utils/date"
)

const (
	// Command
	// -------------.
	usage   = "check <exchange> <date|RFC3339 instant>"
	short   = "Check whether a day is a session or an instant is within market hours"
	long    = "This command reports whether a day is a trading session and why not if it is closed. " +
		"Given an RFC3339 instant it reports whether the market is open at that moment"
	example = "marketcal check XNZE 2022-06-24\n  marketcal check XNZE 2019-07-15T22:30:00Z"
)

// Cmd is the check command.
var Cmd = &cobra.Command{
	Use:        usage,
	Short:      short,
	Long:       long,
	SuggestFor: []string{"is", "open"},
	Example:    example,
	Args:       cobra.ExactArgs(2),
	RunE:       executeCheck,
}

func executeCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	c, err := cmdutil.Calendar(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if strings.Contains(args[1], "T") {
		t, err := time.Parse(time.RFC3339, args[1])
		if err != nil {
			return errors.Wrap(err, "invalid instant")
		}
		open, err := c.IsOpenAt(t)
		if err != nil {
			return err
		}
		state := "closed"
		if open {
			state = "open"
		}
		fmt.Fprintf(out, "%s is %s at %s\n", c.Name(), state, t.In(c.Tz()).Format(time.RFC3339))
		return nil
	}

	d, err := date.ParseDate(args[1])
	if err != nil {
		return errors.Wrap(err, "invalid date")
	}
	s, ok, err := c.Session(d)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(out, "%s %s is a session: %s - %s\n",
			c.Name(), d, s.Open.Format("15:04 MST"), s.Close.Format("15:04 MST"))
		return nil
	}
	days, err := c.Classify(d, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s is not a session: %s\n", c.Name(), d, reason(days[0]))
	return nil
}

func reason(day session.Day) string {
	if len(day.Labels) == 0 {
		return day.Status.String()
	}
	return fmt.Sprintf("%s (%s)", day.Status, strings.Join(day.Labels, ", "))
}
