package schedule

import (
	"fmt"

	"github.com/alpacahq/marketcal/holiday"
	"github.com/alpacahq/marketcal/utils/date"
)

// Scope selects the days a special override applies to. It reuses the
// holiday rule machinery, but the dates it yields are trading days with
// unusual hours, not closures.
type Scope struct {
	rules *holiday.Calendar
}

// NewScope builds a scope from recurring rules and explicit dates.
func NewScope(name string, rules []holiday.Rule, dates ...date.Date) (*Scope, error) {
	cal, err := holiday.NewCalendar(name, rules, holiday.NewAdHoc(name, dates...))
	if err != nil {
		return nil, err
	}
	return &Scope{rules: cal}, nil
}

// Matches reports whether the override applies on d.
func (s *Scope) Matches(d date.Date) bool {
	return s.rules.IsHoliday(d)
}

// Between returns the selected days in [lo, hi] with the labels that
// selected them.
func (s *Scope) Between(lo, hi date.Date) holiday.DateSet {
	return s.rules.HolidaysBetween(lo, hi)
}

// Diagnostics reports authoring problems in the scope rules within span.
func (s *Scope) Diagnostics(span date.Range) []error {
	return s.rules.Diagnostics(span)
}

// Override replaces the open or close clock on the days its scope selects.
type Override struct {
	Name  string
	Time  date.Clock
	Scope *Scope
}

func NewOverride(name string, c date.Clock, scope *Scope) (Override, error) {
	if scope == nil {
		return Override{}, fmt.Errorf("override %q has no scope", name)
	}
	if !c.IsValid() {
		return Override{}, fmt.Errorf("override %q: invalid clock %v", name, c)
	}
	return Override{Name: name, Time: c, Scope: scope}, nil
}

func (o Override) String() string {
	return fmt.Sprintf("%s@%s", o.Name, o.Time)
}
