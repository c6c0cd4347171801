package holiday

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rickar/cal/v2"

	"github.com/alpacahq/marketcal/utils/date"
)

// Kind selects how the raw yearly date of a Rule is computed.
type Kind int

const (
	// Fixed is a month/day repeated every year.
	Fixed Kind = iota
	// NthWeekday is the Nth weekday of a month. A negative N counts back
	// from the end of the month.
	NthWeekday
	// EasterOffset is Gregorian Easter Sunday plus Offset days.
	EasterOffset
)

var kindNames = map[Kind]string{
	Fixed:        "fixed",
	NthWeekday:   "nth_weekday",
	EasterOffset: "easter",
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Fixed, nil
	}
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return Fixed, fmt.Errorf("unknown holiday kind %q", s)
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Rule is a recurring holiday. Rules are plain values: the With* helpers
// return modified copies and never touch the receiver.
//
// Offset is added to the anchor date before the observance runs. For
// EasterOffset the anchor is Easter Sunday, otherwise it is the date
// produced by Month/Day or Month/Weekday/N.
//
// The validity window is [Start, End) and is checked against the observed
// date, which is the date actually removed from trading.
type Rule struct {
	Name       string
	Kind       Kind
	Month      time.Month
	Day        int
	Weekday    time.Weekday
	N          int
	Offset     int
	Observance Observance
	DaysOfWeek []time.Weekday
	Start      date.NullDate
	End        date.NullDate
}

// NewFixed creates a rule for an exact day of a month.
func NewFixed(name string, month time.Month, day int) Rule {
	return Rule{Name: name, Kind: Fixed, Month: month, Day: day}
}

// NewNthWeekday creates a rule for the nth weekday of a month.
func NewNthWeekday(name string, month time.Month, weekday time.Weekday, n int) Rule {
	return Rule{Name: name, Kind: NthWeekday, Month: month, Weekday: weekday, N: n}
}

// NewEasterOffset creates a rule offset days from Easter Sunday.
func NewEasterOffset(name string, offset int) Rule {
	return Rule{Name: name, Kind: EasterOffset, Offset: offset}
}

func (r Rule) WithObservance(o Observance) Rule {
	r.Observance = o
	return r
}

func (r Rule) WithOffset(days int) Rule {
	r.Offset = days
	return r
}

func (r Rule) WithStart(d date.Date) Rule {
	r.Start = date.Some(d)
	return r
}

func (r Rule) WithEnd(d date.Date) Rule {
	r.End = date.Some(d)
	return r
}

// OnlyOn keeps occurrences whose observed date falls on one of days.
func (r Rule) OnlyOn(days ...time.Weekday) Rule {
	r.DaysOfWeek = append([]time.Weekday(nil), days...)
	return r
}

// Validate reports structural mistakes that make the rule meaningless.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &InvalidRuleError{Reason: "missing name"}
	}
	switch r.Kind {
	case Fixed:
		if r.Month < time.January || r.Month > time.December {
			return &InvalidRuleError{Rule: r.Name, Reason: fmt.Sprintf("month %d out of range", r.Month)}
		}
		if r.Day < 1 || r.Day > 31 {
			return &InvalidRuleError{Rule: r.Name, Reason: fmt.Sprintf("day %d out of range", r.Day)}
		}
	case NthWeekday:
		if r.Month < time.January || r.Month > time.December {
			return &InvalidRuleError{Rule: r.Name, Reason: fmt.Sprintf("month %d out of range", r.Month)}
		}
		if r.N == 0 || r.N > 5 || r.N < -5 {
			return &InvalidRuleError{Rule: r.Name, Reason: fmt.Sprintf("occurrence %d out of range", r.N)}
		}
	case EasterOffset:
	default:
		return &InvalidRuleError{Rule: r.Name, Reason: fmt.Sprintf("unknown kind %d", r.Kind)}
	}
	if _, ok := altDays[r.Observance]; !ok {
		return &InvalidRuleError{Rule: r.Name, Reason: fmt.Sprintf("unknown observance %d", r.Observance)}
	}
	return nil
}

// CheckWindow returns a warning when the rule can never produce an
// occurrence inside span: its window is inverted, lies outside span, or
// holds no occurrence there.
func (r Rule) CheckWindow(span date.Range) *EmptyWindowWarning {
	warn := &EmptyWindowWarning{Rule: r.Name, Start: r.Start, End: r.End}
	if r.Start.Valid && r.End.Valid && !r.End.Date.After(r.Start.Date) {
		return warn
	}
	lo, hi := span.First, span.Last
	if r.Start.Valid && r.Start.Date.After(lo) {
		lo = r.Start.Date
	}
	if r.End.Valid && r.End.Date.AddDays(-1).Before(hi) {
		hi = r.End.Date.AddDays(-1)
	}
	if hi.Before(lo) || len(r.Occurrences(lo, hi)) == 0 {
		return warn
	}
	return nil
}

func (r Rule) inWindow(d date.Date) bool {
	if r.Start.Valid && d.Before(r.Start.Date) {
		return false
	}
	if r.End.Valid && !d.Before(r.End.Date) {
		return false
	}
	return true
}

func (r Rule) onAllowedWeekday(d date.Date) bool {
	if len(r.DaysOfWeek) == 0 {
		return true
	}
	wd := d.Weekday()
	for _, allowed := range r.DaysOfWeek {
		if allowed == wd {
			return true
		}
	}
	return false
}

func (r Rule) calHoliday() *cal.Holiday {
	h := &cal.Holiday{
		Name:     r.Name,
		Month:    r.Month,
		Day:      r.Day,
		Weekday:  r.Weekday,
		Observed: r.Observance.altDays(),
	}
	switch r.Kind {
	case EasterOffset:
		h.Offset = r.Offset
		h.Func = cal.CalcEasterOffset
		return h
	case NthWeekday:
		h.Offset = r.N
		h.Func = cal.CalcWeekdayOffset
	default:
		h.Func = cal.CalcDayOfMonth
	}
	h.CalcOffset = r.Offset
	return h
}

// anchored reports whether year has a raw date for the rule: February 29th
// exists only in leap years and a fifth weekday does not exist in every
// month.
func (r Rule) anchored(h *cal.Holiday, year int) bool {
	switch r.Kind {
	case Fixed:
		return date.New(year, r.Month, r.Day).IsValid()
	case NthWeekday:
		raw := h.Func(h, year)
		return raw.Month() == r.Month && cal.IsWeekdayN(raw, r.Weekday, r.N)
	}
	return true
}

// Occurrences returns the observed dates in [lo, hi], ascending.
//
// Raw dates are generated per year from lo.Year-1 through hi.Year+1 so an
// observance that carries a date across a year boundary is still found, and
// each raw year contributes at most one date.
func (r Rule) Occurrences(lo, hi date.Date) []date.Date {
	if hi.Before(lo) {
		return nil
	}
	if r.Start.Valid && r.End.Valid && !r.End.Date.After(r.Start.Date) {
		return nil
	}
	h := r.calHoliday()
	var out []date.Date
	for year := lo.Year - 1; year <= hi.Year+1; year++ {
		if !r.anchored(h, year) {
			continue
		}
		_, observed := h.Calc(year)
		if observed.IsZero() {
			continue
		}
		d := date.DateOf(observed)
		if d.Before(lo) || d.After(hi) || !r.inWindow(d) || !r.onAllowedWeekday(d) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Fires reports whether the rule produces d.
func (r Rule) Fires(d date.Date) bool {
	return len(r.Occurrences(d, d)) > 0
}

func (r Rule) String() string {
	var anchor string
	switch r.Kind {
	case NthWeekday:
		anchor = fmt.Sprintf("%s #%d of %s", r.Weekday, r.N, r.Month)
	case EasterOffset:
		anchor = "easter"
	default:
		anchor = fmt.Sprintf("%s %d", r.Month, r.Day)
	}
	if r.Offset != 0 {
		anchor = fmt.Sprintf("%s%+dd", anchor, r.Offset)
	}
	return fmt.Sprintf("%s (%s, %s, [%s, %s))", r.Name, anchor, r.Observance, r.Start, r.End)
}
