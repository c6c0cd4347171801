// Package schedule resolves the open and close clock readings in force on a
// given day, and the special overrides that replace them.
package schedule

import (
	"fmt"
	"sort"

	"github.com/alpacahq/marketcal/utils/date"
)

// Breakpoint sets Time from From onwards. An invalid From is the
// unbounded-past base entry.
type Breakpoint struct {
	From date.NullDate
	Time date.Clock
}

// Always is the unbounded-past breakpoint.
func Always(c date.Clock) Breakpoint {
	return Breakpoint{Time: c}
}

// From is a breakpoint effective on and after d.
func From(d date.Date, c date.Clock) Breakpoint {
	return Breakpoint{From: date.Some(d), Time: c}
}

// Schedule is a piecewise-constant day -> clock function.
type Schedule struct {
	name   string
	base   date.Clock
	points []Breakpoint // bounded entries only, ascending
}

// New validates breakpoints and returns a schedule. Exactly one unbounded
// entry is required and effective dates must be distinct.
func New(name string, breakpoints ...Breakpoint) (*Schedule, error) {
	s := &Schedule{name: name}
	hasBase := false
	for _, bp := range breakpoints {
		if !bp.Time.IsValid() {
			return nil, fmt.Errorf("schedule %s: invalid clock %v", name, bp.Time)
		}
		if !bp.From.Valid {
			if hasBase {
				return nil, fmt.Errorf("schedule %s: more than one unbounded breakpoint", name)
			}
			hasBase = true
			s.base = bp.Time
			continue
		}
		s.points = append(s.points, bp)
	}
	if !hasBase {
		return nil, &UnboundedScheduleError{Schedule: name}
	}
	sort.SliceStable(s.points, func(i, j int) bool {
		return s.points[i].From.Date.Before(s.points[j].From.Date)
	})
	for i := 1; i < len(s.points); i++ {
		if s.points[i].From.Date == s.points[i-1].From.Date {
			return nil, fmt.Errorf("schedule %s: duplicate breakpoint at %s", name, s.points[i].From.Date)
		}
	}
	return s, nil
}

func (s *Schedule) Name() string {
	return s.name
}

// TimeFor returns the clock of the last breakpoint not after d.
func (s *Schedule) TimeFor(d date.Date) (date.Clock, error) {
	if s == nil {
		return date.Clock{}, &UnboundedScheduleError{}
	}
	// first breakpoint strictly after d
	i := sort.Search(len(s.points), func(i int) bool {
		return s.points[i].From.Date.After(d)
	})
	if i == 0 {
		return s.base, nil
	}
	return s.points[i-1].Time, nil
}

// Breakpoints returns the entries, unbounded base first.
func (s *Schedule) Breakpoints() []Breakpoint {
	out := make([]Breakpoint, 0, len(s.points)+1)
	out = append(out, Always(s.base))
	return append(out, s.points...)
}

// UnboundedScheduleError is returned when a schedule has no base entry to
// fall back on for days before its first breakpoint.
type UnboundedScheduleError struct {
	Schedule string
}

func (e *UnboundedScheduleError) Error() string {
	return fmt.Sprintf("schedule %q has no unbounded-past breakpoint", e.Schedule)
}
