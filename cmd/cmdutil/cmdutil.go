// Package cmdutil holds flag state and helpers shared by the subcommands.
package cmdutil

import (
	"github.com/pkg/errors"

	"github.com/alpacahq/marketcal/calendar"
	"github.com/alpacahq/marketcal/exchanges"
	"github.com/alpacahq/marketcal/utils/date"
)

// ConfigDir is set by the root command's --config-dir flag.
var ConfigDir string

// Registry loads the built-in calendars plus the bundles in ConfigDir.
func Registry() (*calendar.Registry, error) {
	if ConfigDir == "" {
		return exchanges.Registry()
	}
	return exchanges.Load(ConfigDir)
}

// Calendar looks up one exchange by name.
func Calendar(name string) (*calendar.Calendar, error) {
	reg, err := Registry()
	if err != nil {
		return nil, err
	}
	return reg.Get(name)
}

// ParseRange parses --from/--to values. An empty to means the same day as
// from.
func ParseRange(from, to string) (date.Date, date.Date, error) {
	lo, err := date.ParseDate(from)
	if err != nil {
		return date.Date{}, date.Date{}, errors.Wrap(err, "invalid --from")
	}
	if to == "" {
		return lo, lo, nil
	}
	hi, err := date.ParseDate(to)
	if err != nil {
		return date.Date{}, date.Date{}, errors.Wrap(err, "invalid --to")
	}
	return lo, hi, nil
}
