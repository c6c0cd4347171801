package holiday

import (
	"sort"

	"github.com/alpacahq/marketcal/utils/date"
)

// AdHoc is an unordered set of one-off closures that no recurring rule can
// express. Adding a date twice is a no-op.
type AdHoc struct {
	name  string
	dates map[date.Date]struct{}
}

// NewAdHoc builds a set from dates; duplicates collapse.
func NewAdHoc(name string, dates ...date.Date) AdHoc {
	a := AdHoc{name: name, dates: make(map[date.Date]struct{}, len(dates))}
	for _, d := range dates {
		a.dates[d] = struct{}{}
	}
	return a
}

func (a AdHoc) Name() string {
	if a.name == "" {
		return "adhoc"
	}
	return a.name
}

func (a AdHoc) Len() int {
	return len(a.dates)
}

func (a AdHoc) Contains(d date.Date) bool {
	_, ok := a.dates[d]
	return ok
}

// Between returns the members in [lo, hi], ascending.
func (a AdHoc) Between(lo, hi date.Date) []date.Date {
	var out []date.Date
	for d := range a.dates {
		if !d.Before(lo) && !d.After(hi) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Dates returns every member, ascending.
func (a AdHoc) Dates() []date.Date {
	out := make([]date.Date, 0, len(a.dates))
	for d := range a.dates {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Union returns a new set holding the members of both; neither input changes.
func (a AdHoc) Union(other AdHoc) AdHoc {
	out := NewAdHoc(a.name)
	for d := range a.dates {
		out.dates[d] = struct{}{}
	}
	for d := range other.dates {
		out.dates[d] = struct{}{}
	}
	return out
}
