package holiday

import (
	"sort"
	"time"

	"github.com/alpacahq/marketcal/utils/date"
)

// DateSet maps each date to the labels of every rule that produced it.
// Distinct rules landing on the same date collapse into one entry.
type DateSet map[date.Date][]string

func (s DateSet) add(d date.Date, label string) {
	for _, l := range s[d] {
		if l == label {
			return
		}
	}
	s[d] = append(s[d], label)
}

func (s DateSet) Contains(d date.Date) bool {
	_, ok := s[d]
	return ok
}

// Labels returns the rules that matched d.
func (s DateSet) Labels(d date.Date) []string {
	return s[d]
}

// Dates returns the members, ascending.
func (s DateSet) Dates() []date.Date {
	out := make([]date.Date, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Calendar is a named collection of holiday rules plus ad hoc dates.
type Calendar struct {
	name  string
	rules []Rule
	adhoc AdHoc
}

// NewCalendar validates rules and returns a calendar owning copies of them.
func NewCalendar(name string, rules []Rule, adhoc ...AdHoc) (*Calendar, error) {
	c := &Calendar{name: name, rules: make([]Rule, len(rules)), adhoc: NewAdHoc("adhoc")}
	for i, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		r.DaysOfWeek = append([]time.Weekday(nil), r.DaysOfWeek...)
		c.rules[i] = r
	}
	for _, a := range adhoc {
		c.adhoc = c.adhoc.Union(a)
		if a.name != "" {
			c.adhoc.name = a.name
		}
	}
	return c, nil
}

func (c *Calendar) Name() string {
	return c.name
}

// Rules returns a copy of the member rules.
func (c *Calendar) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

func (c *Calendar) AdHoc() AdHoc {
	return c.adhoc
}

// HolidaysBetween returns every date in [lo, hi] produced by a member rule
// or listed in the ad hoc set.
func (c *Calendar) HolidaysBetween(lo, hi date.Date) DateSet {
	set := DateSet{}
	for _, r := range c.rules {
		for _, d := range r.Occurrences(lo, hi) {
			set.add(d, r.Name)
		}
	}
	for _, d := range c.adhoc.Between(lo, hi) {
		set.add(d, c.adhoc.Name())
	}
	return set
}

func (c *Calendar) IsHoliday(d date.Date) bool {
	if c.adhoc.Contains(d) {
		return true
	}
	for _, r := range c.rules {
		if r.Fires(d) {
			return true
		}
	}
	return false
}

// Diagnostics lists rule authoring problems: rules that never fire inside
// span, and windowed variants of one holiday that leave a gap or overlap.
func (c *Calendar) Diagnostics(span date.Range) []error {
	var out []error
	byName := map[string][]Rule{}
	var names []string
	for _, r := range c.rules {
		if w := r.CheckWindow(span); w != nil {
			out = append(out, w)
		}
		if _, ok := byName[r.Name]; !ok {
			names = append(names, r.Name)
		}
		byName[r.Name] = append(byName[r.Name], r)
	}
	for _, name := range names {
		variants := byName[name]
		if len(variants) < 2 {
			continue
		}
		sort.SliceStable(variants, func(i, j int) bool {
			a, b := variants[i].Start, variants[j].Start
			if !a.Valid || !b.Valid {
				return !a.Valid && b.Valid
			}
			return a.Date.Before(b.Date)
		})
		for i := 1; i < len(variants); i++ {
			prev, next := variants[i-1], variants[i]
			switch {
			case !prev.End.Valid || !next.Start.Valid || next.Start.Date.Before(prev.End.Date):
				out = append(out, &WindowOverlapWarning{
					Rule:   name,
					First:  windowString(prev),
					Second: windowString(next),
				})
			case prev.End.Date.Before(next.Start.Date):
				out = append(out, &WindowGapWarning{Rule: name, From: prev.End.Date, To: next.Start.Date})
			}
		}
	}
	return out
}

func windowString(r Rule) string {
	return "[" + r.Start.String() + ", " + r.End.String() + ")"
}
