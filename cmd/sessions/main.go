package sessions

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/alpacahq/marketcal/cmd/cmdutil"
	"github.com/alpacahq/marketcal/session"
)

const (
	// Command
	// -------------.
	usage   = "sessions <exchange>"
	short   = "List the trading sessions of an exchange"
	long    = "This command lists every trading session of an exchange between two dates, inclusive"
	example = "marketcal sessions BVMF --from 2016-02-01 --to 2016-02-29"

	// Flags.
	// -------------
	fromDesc = "first day of the range (YYYY-MM-DD)"
	toDesc   = "last day of the range (YYYY-MM-DD), defaults to --from"
	utcDesc  = "print instants in UTC instead of the exchange time zone"
)

var (
	// Cmd is the sessions command.
	Cmd = &cobra.Command{
		Use:        usage,
		Short:      short,
		Long:       long,
		SuggestFor: []string{"days", "range"},
		Example:    example,
		Args:       cobra.ExactArgs(1),
		RunE:       executeSessions,
	}

	from string
	to   string
	utc  bool
)

func init() {
	Cmd.Flags().StringVarP(&from, "from", "f", "", fromDesc)
	Cmd.Flags().StringVarP(&to, "to", "t", "", toDesc)
	Cmd.Flags().BoolVar(&utc, "utc", false, utcDesc)
	_ = Cmd.MarkFlagRequired("from")
}

func executeSessions(cmd *cobra.Command, args []string) error {
	lo, hi, err := cmdutil.ParseRange(from, to)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	c, err := cmdutil.Calendar(args[0])
	if err != nil {
		return err
	}
	ss, err := c.SessionsBetween(lo, hi)
	if err != nil {
		return err
	}
	loc := c.Tz()
	if utc {
		loc = time.UTC
	}
	Print(cmd.OutOrStdout(), ss, loc)
	return nil
}

// Print writes one line per session.
func Print(w io.Writer, ss []session.Session, loc *time.Location) {
	const layout = "2006-01-02 15:04 MST"
	fmt.Fprintf(w, "%-10s  %-20s  %-20s  %-8s  %s\n", "DATE", "OPEN", "CLOSE", "LENGTH", "SPECIAL")
	for _, s := range ss {
		special := s.SpecialOpen
		if s.SpecialClose != "" {
			if special != "" {
				special += ", "
			}
			special += s.SpecialClose
		}
		fmt.Fprintf(w, "%-10s  %-20s  %-20s  %-8s  %s\n",
			s.Date, s.Open.In(loc).Format(layout), s.Close.In(loc).Format(layout), s.Duration(), special)
	}
}
