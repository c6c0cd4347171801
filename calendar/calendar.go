// Package calendar provides exchange calendars, with which you can list
// trading sessions and check if a market is open at a specific point of time.
//
// A Calendar precomputes every session in its supported span at construction
// and is read-only afterwards, so it can be shared between goroutines.
package calendar

import (
	"context"
	"runtime"
	"sort"
	"time"

	"go.uber.org/multierr"

	"github.com/alpacahq/marketcal/holiday"
	"github.com/alpacahq/marketcal/internal/pool"
	"github.com/alpacahq/marketcal/metrics"
	"github.com/alpacahq/marketcal/schedule"
	"github.com/alpacahq/marketcal/session"
	"github.com/alpacahq/marketcal/utils/date"
	"github.com/alpacahq/marketcal/utils/log"
)

// Config describes one exchange.
type Config struct {
	Name          string
	Location      *time.Location
	Span          date.Range
	Holidays      []holiday.Rule
	AdHoc         holiday.AdHoc
	Opens         *schedule.Schedule
	Closes        *schedule.Schedule
	SpecialOpens  []schedule.Override
	SpecialCloses []schedule.Override
	// Workers limits the goroutines used for precomputation. Zero means
	// one per CPU.
	Workers int
}

type Calendar struct {
	name          string
	loc           *time.Location
	span          date.Range
	holidays      *holiday.Calendar
	resolver      *session.Resolver
	specialOpens  []schedule.Override
	specialCloses []schedule.Override

	sessions []session.Session
	index    map[date.Date]int
	faults   []session.Fault
}

// New validates cfg and precomputes the session table for cfg.Span.
// Days that fail to resolve are recorded, and queries touching them fail.
func New(cfg Config) (*Calendar, error) {
	if cfg.Name == "" {
		return nil, errorf("calendar has no name")
	}
	if cfg.Location == nil {
		return nil, errorf("calendar %s has no time zone", cfg.Name)
	}
	if !cfg.Span.First.IsValid() || !cfg.Span.Last.IsValid() || cfg.Span.Last.Before(cfg.Span.First) {
		return nil, errorf("calendar %s: invalid supported span %s", cfg.Name, cfg.Span)
	}
	holidays, err := holiday.NewCalendar(cfg.Name, cfg.Holidays)
	if err != nil {
		return nil, err
	}
	resolver, err := session.NewResolver(session.Config{
		Location:      cfg.Location,
		Holidays:      holidays,
		AdHoc:         cfg.AdHoc,
		Opens:         cfg.Opens,
		Closes:        cfg.Closes,
		SpecialOpens:  cfg.SpecialOpens,
		SpecialCloses: cfg.SpecialCloses,
	})
	if err != nil {
		return nil, err
	}

	c := &Calendar{
		name:          cfg.Name,
		loc:           cfg.Location,
		span:          cfg.Span,
		holidays:      holidays,
		resolver:      resolver,
		specialOpens:  append([]schedule.Override(nil), cfg.SpecialOpens...),
		specialCloses: append([]schedule.Override(nil), cfg.SpecialCloses...),
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if err := c.precompute(workers); err != nil {
		return nil, err
	}
	for _, w := range c.Diagnostics() {
		log.Warn("[%s] %v", c.name, w)
	}
	for _, f := range c.faults {
		log.Error("[%s] %v", c.name, f.Err)
	}
	return c, nil
}

func (c *Calendar) precompute(workers int) error {
	start := time.Now()
	years := c.span.Years()
	results := make([]session.Result, len(years))
	err := pool.Each(context.Background(), workers, len(years), func(_ context.Context, i int) error {
		res, err := c.resolver.Resolve(years[i].First, years[i].Last)
		results[i] = res
		return err
	})
	if err != nil {
		return err
	}

	c.index = map[date.Date]int{}
	for _, res := range results {
		for _, s := range res.Sessions {
			c.index[s.Date] = len(c.sessions)
			c.sessions = append(c.sessions, s)
		}
		c.faults = append(c.faults, res.Faults...)
	}

	metrics.BuildDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())
	metrics.SessionsPrecomputed.WithLabelValues(c.name).Set(float64(len(c.sessions)))
	metrics.ResolutionFaults.WithLabelValues(c.name).Set(float64(len(c.faults)))
	log.Debug("[%s] precomputed %d sessions over %s in %v",
		c.name, len(c.sessions), c.span, time.Since(start))
	return nil
}

func (c *Calendar) Name() string {
	return c.name
}

// Tz returns the exchange time zone.
func (c *Calendar) Tz() *time.Location {
	return c.loc
}

// Span is the range of days the calendar answers queries for.
func (c *Calendar) Span() date.Range {
	return c.span
}

// FirstSession returns the earliest session in the span.
func (c *Calendar) FirstSession() (session.Session, bool) {
	if len(c.sessions) == 0 {
		return session.Session{}, false
	}
	return c.sessions[0], true
}

// LastSession returns the latest session in the span.
func (c *Calendar) LastSession() (session.Session, bool) {
	if len(c.sessions) == 0 {
		return session.Session{}, false
	}
	return c.sessions[len(c.sessions)-1], true
}

// SessionsBetween returns the ordered sessions in [lo, hi]. It either
// returns every session in the range or fails.
func (c *Calendar) SessionsBetween(lo, hi date.Date) ([]session.Session, error) {
	if err := c.check(lo, hi); err != nil {
		return nil, c.fail(err)
	}
	i, j := c.bounds(lo, hi)
	out := make([]session.Session, j-i)
	copy(out, c.sessions[i:j])
	return out, nil
}

// IsSession reports whether d is a trading day.
func (c *Calendar) IsSession(d date.Date) (bool, error) {
	if err := c.check(d, d); err != nil {
		return false, c.fail(err)
	}
	_, ok := c.index[d]
	return ok, nil
}

// Session returns the session on d. The bool is false if d is not a
// trading day.
func (c *Calendar) Session(d date.Date) (session.Session, bool, error) {
	if err := c.check(d, d); err != nil {
		return session.Session{}, false, c.fail(err)
	}
	i, ok := c.index[d]
	if !ok {
		return session.Session{}, false, nil
	}
	return c.sessions[i], true, nil
}

// NextSession returns the first session strictly after d.
func (c *Calendar) NextSession(d date.Date) (session.Session, error) {
	if err := c.check(d, d); err != nil {
		return session.Session{}, c.fail(err)
	}
	i := sort.Search(len(c.sessions), func(i int) bool {
		return c.sessions[i].Date.After(d)
	})
	if i == len(c.sessions) {
		return session.Session{}, c.fail(c.outOfRange(d.AddDays(1), d.AddDays(1)))
	}
	s := c.sessions[i]
	if err := c.faultsIn(d.AddDays(1), s.Date); err != nil {
		return session.Session{}, c.fail(err)
	}
	return s, nil
}

// PreviousSession returns the last session strictly before d.
func (c *Calendar) PreviousSession(d date.Date) (session.Session, error) {
	if err := c.check(d, d); err != nil {
		return session.Session{}, c.fail(err)
	}
	i := sort.Search(len(c.sessions), func(i int) bool {
		return !c.sessions[i].Date.Before(d)
	})
	if i == 0 {
		return session.Session{}, c.fail(c.outOfRange(d.AddDays(-1), d.AddDays(-1)))
	}
	s := c.sessions[i-1]
	if err := c.faultsIn(s.Date, d.AddDays(-1)); err != nil {
		return session.Session{}, c.fail(err)
	}
	return s, nil
}

// SpecialOpens returns the sessions in [lo, hi] with a late open.
func (c *Calendar) SpecialOpens(lo, hi date.Date) ([]session.Session, error) {
	return c.filter(lo, hi, session.Session.IsLateOpen)
}

// SpecialCloses returns the sessions in [lo, hi] with an early close.
func (c *Calendar) SpecialCloses(lo, hi date.Date) ([]session.Session, error) {
	return c.filter(lo, hi, session.Session.IsEarlyClose)
}

func (c *Calendar) filter(lo, hi date.Date, keep func(session.Session) bool) ([]session.Session, error) {
	all, err := c.SessionsBetween(lo, hi)
	if err != nil {
		return nil, err
	}
	var out []session.Session
	for _, s := range all {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Classify labels every day in [lo, hi] as trading, weekend, holiday or
// ad hoc closure.
func (c *Calendar) Classify(lo, hi date.Date) ([]session.Day, error) {
	if err := c.check(lo, hi); err != nil {
		return nil, c.fail(err)
	}
	return c.resolver.Classify(lo, hi)
}

// IsOpenAt returns true if t is within the market hours of a session.
func (c *Calendar) IsOpenAt(t time.Time) (bool, error) {
	s, ok, err := c.Session(date.DateOf(t.In(c.loc)))
	if err != nil || !ok {
		return false, err
	}
	return s.Contains(t), nil
}

// EpochIsOpen returns true if epoch seconds fall within market hours.
func (c *Calendar) EpochIsOpen(epoch int64) (bool, error) {
	return c.IsOpenAt(time.Unix(epoch, 0))
}

// SessionClose determines the close of the session on the local day t
// occurs on. Returns nil if it is not a trading day.
func (c *Calendar) SessionClose(t time.Time) (*time.Time, error) {
	s, ok, err := c.Session(date.DateOf(t.In(c.loc)))
	if err != nil || !ok {
		return nil, err
	}
	closeAt := s.Close
	return &closeAt, nil
}

// Diagnostics lists authoring warnings: rules that never fire inside the
// supported span and gaps or overlaps between same-name rule windows.
func (c *Calendar) Diagnostics() []error {
	out := c.holidays.Diagnostics(c.span)
	for _, o := range c.specialOpens {
		out = append(out, o.Scope.Diagnostics(c.span)...)
	}
	for _, o := range c.specialCloses {
		out = append(out, o.Scope.Diagnostics(c.span)...)
	}
	return out
}

// Faults lists the days in the span that failed to resolve.
func (c *Calendar) Faults() []session.Fault {
	return append([]session.Fault(nil), c.faults...)
}

func (c *Calendar) check(lo, hi date.Date) error {
	if hi.Before(lo) {
		return ErrInvalidRange
	}
	if !c.span.Covers(date.Range{First: lo, Last: hi}) {
		return c.outOfRange(lo, hi)
	}
	return c.faultsIn(lo, hi)
}

func (c *Calendar) outOfRange(lo, hi date.Date) error {
	return &RangeError{
		Exchange:  c.name,
		Requested: date.Range{First: lo, Last: hi},
		Supported: c.span,
	}
}

func (c *Calendar) faultsIn(lo, hi date.Date) error {
	var err error
	r := date.Range{First: lo, Last: hi}
	for _, f := range c.faults {
		if r.Contains(f.Date) {
			err = multierr.Append(err, f.Err)
		}
	}
	return err
}

// bounds returns the half-open index range of sessions within [lo, hi].
func (c *Calendar) bounds(lo, hi date.Date) (int, int) {
	i := sort.Search(len(c.sessions), func(i int) bool {
		return !c.sessions[i].Date.Before(lo)
	})
	j := sort.Search(len(c.sessions), func(j int) bool {
		return c.sessions[j].Date.After(hi)
	})
	return i, j
}

func (c *Calendar) fail(err error) error {
	metrics.QueryErrorsTotal.WithLabelValues(c.name, errorKind(err)).Inc()
	return err
}
