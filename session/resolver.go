package session

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/multierr"

	"github.com/alpacahq/marketcal/holiday"
	"github.com/alpacahq/marketcal/schedule"
	"github.com/alpacahq/marketcal/utils/date"
)

// Config holds the inputs of a Resolver.
type Config struct {
	Location      *time.Location
	Holidays      *holiday.Calendar
	AdHoc         holiday.AdHoc
	Opens         *schedule.Schedule
	Closes        *schedule.Schedule
	SpecialOpens  []schedule.Override
	SpecialCloses []schedule.Override
}

// Resolver merges weekends, regular holidays, ad hoc closures, schedules and
// special overrides into sessions.
//
// Precedence, highest first: ad hoc closure, regular holiday, special
// override, schedule. Overrides never resurrect a closed day.
type Resolver struct {
	loc           *time.Location
	holidays      *holiday.Calendar
	adhoc         holiday.AdHoc
	opens         *schedule.Schedule
	closes        *schedule.Schedule
	specialOpens  []schedule.Override
	specialCloses []schedule.Override
}

func NewResolver(cfg Config) (*Resolver, error) {
	if cfg.Location == nil {
		return nil, fmt.Errorf("resolver: no time zone")
	}
	if cfg.Opens == nil {
		return nil, &schedule.UnboundedScheduleError{Schedule: "open"}
	}
	if cfg.Closes == nil {
		return nil, &schedule.UnboundedScheduleError{Schedule: "close"}
	}
	holidays := cfg.Holidays
	if holidays == nil {
		var err error
		if holidays, err = holiday.NewCalendar("", nil); err != nil {
			return nil, err
		}
	}
	return &Resolver{
		loc:           cfg.Location,
		holidays:      holidays,
		adhoc:         cfg.AdHoc,
		opens:         cfg.Opens,
		closes:        cfg.Closes,
		specialOpens:  append([]schedule.Override(nil), cfg.SpecialOpens...),
		specialCloses: append([]schedule.Override(nil), cfg.SpecialCloses...),
	}, nil
}

func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Result is a resolution of a date range. Days whose resolution failed are
// listed in Faults and absent from Sessions.
type Result struct {
	Sessions []Session
	Faults   []Fault
}

// Err combines all faults, or returns nil.
func (res Result) Err() error {
	var err error
	for _, f := range res.Faults {
		err = multierr.Append(err, f.Err)
	}
	return err
}

// SessionsBetween returns the ordered sessions in [lo, hi]. Any fault inside
// the range fails the whole call.
func (r *Resolver) SessionsBetween(lo, hi date.Date) ([]Session, error) {
	res, err := r.Resolve(lo, hi)
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Sessions, nil
}

// Resolve computes sessions in [lo, hi], collecting per-day faults instead
// of stopping at the first one.
func (r *Resolver) Resolve(lo, hi date.Date) (Result, error) {
	if hi.Before(lo) {
		return Result{}, ErrInvalidRange
	}
	closed := r.holidays.HolidaysBetween(lo, hi)
	opens := matches(r.specialOpens, lo, hi)
	closes := matches(r.specialCloses, lo, hi)

	var res Result
	for day := lo; !day.After(hi); day = day.AddDays(1) {
		if day.IsWeekend() || r.adhoc.Contains(day) || closed.Contains(day) {
			continue
		}
		s, err := r.session(day, opens[day], closes[day])
		if err != nil {
			res.Faults = append(res.Faults, Fault{Date: day, Err: err})
			continue
		}
		res.Sessions = append(res.Sessions, s)
	}
	return res, nil
}

func (r *Resolver) session(day date.Date, specialOpen, specialClose []Candidate) (Session, error) {
	s := Session{Date: day}

	open, err := r.opens.TimeFor(day)
	if err != nil {
		return s, err
	}
	if len(specialOpen) > 0 {
		c, err := pick(OpenSlot, day, specialOpen)
		if err != nil {
			return s, err
		}
		open, s.SpecialOpen = c.Time, c.Override
	}

	closeAt, err := r.closes.TimeFor(day)
	if err != nil {
		return s, err
	}
	if len(specialClose) > 0 {
		c, err := pick(CloseSlot, day, specialClose)
		if err != nil {
			return s, err
		}
		closeAt, s.SpecialClose = c.Time, c.Override
	}

	s.Open = open.On(day, r.loc)
	s.Close = closeAt.On(day, r.loc)
	if !s.Open.Before(s.Close) {
		return s, &InvertedSessionError{Date: day, Open: s.Open, Close: s.Close}
	}
	return s, nil
}

// matches indexes, per day, every override whose scope selects that day.
func matches(overrides []schedule.Override, lo, hi date.Date) map[date.Date][]Candidate {
	out := map[date.Date][]Candidate{}
	for _, o := range overrides {
		set := o.Scope.Between(lo, hi)
		for day, labels := range set {
			out[day] = append(out[day], Candidate{
				Override: o.Name,
				Time:     o.Time,
				Rules:    append([]string(nil), labels...),
			})
		}
	}
	return out
}

// pick returns the single time all candidates agree on, or a ConflictError.
func pick(slot Slot, day date.Date, cands []Candidate) (Candidate, error) {
	first := cands[0]
	for _, c := range cands[1:] {
		if c.Time != first.Time {
			return Candidate{}, &ConflictError{
				Slot:       slot,
				Date:       day,
				Candidates: append([]Candidate(nil), cands...),
			}
		}
	}
	return first, nil
}

// Classify assigns every day in [lo, hi] exactly one status. Ad hoc closures
// win over regular holidays, which win over weekends.
func (r *Resolver) Classify(lo, hi date.Date) ([]Day, error) {
	if hi.Before(lo) {
		return nil, ErrInvalidRange
	}
	closed := r.holidays.HolidaysBetween(lo, hi)
	days := make([]Day, 0, date.Range{First: lo, Last: hi}.Len())
	for day := lo; !day.After(hi); day = day.AddDays(1) {
		d := Day{Date: day, Status: Trading}
		switch {
		case r.adhoc.Contains(day):
			d.Status = AdHocClosure
			d.Labels = []string{r.adhoc.Name()}
		case closed.Contains(day):
			d.Status = Holiday
			d.Labels = closed.Labels(day)
		case day.IsWeekend():
			d.Status = Weekend
		}
		days = append(days, d)
	}
	return days, nil
}

// OverrideDays returns the days in [lo, hi] on which any of overrides would
// apply, regardless of whether the day is a session.
func OverrideDays(overrides []schedule.Override, lo, hi date.Date) []date.Date {
	idx := matches(overrides, lo, hi)
	out := make([]date.Date, 0, len(idx))
	for day := range idx {
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
