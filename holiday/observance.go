package holiday

import (
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"

	"github.com/alpacahq/marketcal/utils/date"
)

// Observance moves a computed holiday to the day it is actually observed.
type Observance int

const (
	ObservedExact Observance = iota
	NextMonday
	NextMondayOrTuesday
	PreviousFriday
	NearestWorkday
	SundayToMonday
	NextWorkday
	PreviousWorkday
)

var observanceNames = map[Observance]string{
	ObservedExact:       "none",
	NextMonday:          "next_monday",
	NextMondayOrTuesday: "next_monday_or_tuesday",
	PreviousFriday:      "previous_friday",
	NearestWorkday:      "nearest_workday",
	SundayToMonday:      "sunday_to_monday",
	NextWorkday:         "next_workday",
	PreviousWorkday:     "previous_workday",
}

// substitution tables, keyed by the weekday the raw date falls on
var altDays = map[Observance][]cal.AltDay{
	ObservedExact: nil,
	NextMonday: {
		{Day: time.Saturday, Offset: 2},
		{Day: time.Sunday, Offset: 1},
	},
	NextMondayOrTuesday: {
		{Day: time.Saturday, Offset: 2},
		{Day: time.Sunday, Offset: 2},
		{Day: time.Monday, Offset: 1},
	},
	PreviousFriday: {
		{Day: time.Saturday, Offset: -1},
		{Day: time.Sunday, Offset: -2},
	},
	NearestWorkday: {
		{Day: time.Saturday, Offset: -1},
		{Day: time.Sunday, Offset: 1},
	},
	SundayToMonday: {
		{Day: time.Sunday, Offset: 1},
	},
	NextWorkday: {
		{Day: time.Monday, Offset: 1},
		{Day: time.Tuesday, Offset: 1},
		{Day: time.Wednesday, Offset: 1},
		{Day: time.Thursday, Offset: 1},
		{Day: time.Friday, Offset: 3},
		{Day: time.Saturday, Offset: 2},
		{Day: time.Sunday, Offset: 1},
	},
	PreviousWorkday: {
		{Day: time.Monday, Offset: -3},
		{Day: time.Tuesday, Offset: -1},
		{Day: time.Wednesday, Offset: -1},
		{Day: time.Thursday, Offset: -1},
		{Day: time.Friday, Offset: -1},
		{Day: time.Saturday, Offset: -1},
		{Day: time.Sunday, Offset: -2},
	},
}

// ParseObservance maps a configuration name onto an Observance.
// "weekend_to_monday" is accepted as an alias of "next_monday".
func ParseObservance(s string) (Observance, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none", "exact":
		return ObservedExact, nil
	case "weekend_to_monday":
		return NextMonday, nil
	}
	for o, name := range observanceNames {
		if name == s {
			return o, nil
		}
	}
	return ObservedExact, fmt.Errorf("unknown observance %q", s)
}

func (o Observance) String() string {
	if name, ok := observanceNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Observance(%d)", int(o))
}

func (o Observance) altDays() []cal.AltDay {
	alts := altDays[o]
	if len(alts) == 0 {
		return nil
	}
	out := make([]cal.AltDay, len(alts))
	copy(out, alts)
	return out
}

// Apply returns the observed date for a raw occurrence d.
func (o Observance) Apply(d date.Date) date.Date {
	wd := d.Weekday()
	for _, alt := range altDays[o] {
		if alt.Day == wd {
			return d.AddDays(alt.Offset)
		}
	}
	return d
}
