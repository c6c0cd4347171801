package export

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alpacahq/marketcal/cmd/cmdutil"
	sessionexport "github.com/alpacahq/marketcal/export"
	"github.com/alpacahq/marketcal/utils/log"
)

const (
	// Command
	// -------------.
	usage   = "export <exchange>"
	short   = "Export the session table of an exchange"
	long    = "This command writes the sessions of an exchange as CSV or as a snappy-compressed msgpack snapshot"
	example = "marketcal export XASX --from 2020-01-01 --to 2020-12-31 --format snapshot --out xasx-2020.snap"

	// Flags.
	// -------------
	formatCSV      = "csv"
	formatSnapshot = "snapshot"
	formatDesc     = "output format: csv or snapshot"
	outDesc        = "output file, defaults to stdout"
	fromDesc       = "first day of the range (YYYY-MM-DD), defaults to the first supported day"
	toDesc         = "last day of the range (YYYY-MM-DD), defaults to the last supported day"
)

var (
	// Cmd is the export command.
	Cmd = &cobra.Command{
		Use:        usage,
		Short:      short,
		Long:       long,
		SuggestFor: []string{"dump"},
		Example:    example,
		Args:       cobra.ExactArgs(1),
		RunE:       executeExport,
	}

	format  string
	outPath string
	from    string
	to      string
)

func init() {
	Cmd.Flags().StringVar(&format, "format", formatCSV, formatDesc)
	Cmd.Flags().StringVarP(&outPath, "out", "o", "", outDesc)
	Cmd.Flags().StringVarP(&from, "from", "f", "", fromDesc)
	Cmd.Flags().StringVarP(&to, "to", "t", "", toDesc)
}

func executeExport(cmd *cobra.Command, args []string) (err error) {
	if format != formatCSV && format != formatSnapshot {
		return errors.Errorf("unknown format %q", format)
	}
	cmd.SilenceUsage = true

	c, err := cmdutil.Calendar(args[0])
	if err != nil {
		return err
	}
	lo, hi := c.Span().First, c.Span().Last
	if from != "" {
		if lo, _, err = cmdutil.ParseRange(from, ""); err != nil {
			return err
		}
	}
	if to != "" {
		if hi, _, err = cmdutil.ParseRange(to, ""); err != nil {
			return err
		}
	}
	ss, err := c.SessionsBetween(lo, hi)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return errors.Wrapf(err, "failed to create %s", outPath)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if format == formatSnapshot {
		err = sessionexport.WriteSnapshot(w, c.Name(), c.Tz(), ss)
	} else {
		err = sessionexport.WriteCSV(w, ss)
	}
	if err != nil {
		return err
	}
	log.Info("exported %d %s sessions from %s to %s", len(ss), c.Name(), lo, hi)
	return nil
}
