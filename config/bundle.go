// Package config reads exchange rule bundles from YAML or JSON and builds
// calendars from them.
package config

import (
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/alpacahq/marketcal/calendar"
	"github.com/alpacahq/marketcal/holiday"
	"github.com/alpacahq/marketcal/schedule"
	"github.com/alpacahq/marketcal/utils/date"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Default supported span for bundles that do not declare one.
var (
	DefaultFirstSession = date.New(1990, time.January, 1)
	DefaultLastSession  = date.New(2049, time.December, 31)
)

// Bundle is a parsed, validated exchange definition.
type Bundle struct {
	Name          string
	Location      *time.Location
	Span          date.Range
	Opens         *schedule.Schedule
	Closes        *schedule.Schedule
	Holidays      []holiday.Rule
	AdHoc         holiday.AdHoc
	SpecialOpens  []schedule.Override
	SpecialCloses []schedule.Override
}

type timeEntry struct {
	From string `yaml:"from" json:"from"`
	Time string `yaml:"time" json:"time"`
}

type ruleEntry struct {
	Name       string   `yaml:"name" json:"name"`
	Kind       string   `yaml:"kind" json:"kind"`
	Month      int      `yaml:"month" json:"month"`
	Day        int      `yaml:"day" json:"day"`
	Weekday    string   `yaml:"weekday" json:"weekday"`
	N          int      `yaml:"n" json:"n"`
	Offset     int      `yaml:"offset" json:"offset"`
	Observance string   `yaml:"observance" json:"observance"`
	DaysOfWeek []string `yaml:"days_of_week" json:"days_of_week"`
	Start      string   `yaml:"start" json:"start"`
	End        string   `yaml:"end" json:"end"`
}

type overrideEntry struct {
	Name  string      `yaml:"name" json:"name"`
	Time  string      `yaml:"time" json:"time"`
	Rules []ruleEntry `yaml:"rules" json:"rules"`
	Dates []string    `yaml:"dates" json:"dates"`
}

type aux struct {
	Name          string          `yaml:"name" json:"name"`
	Timezone      string          `yaml:"timezone" json:"timezone"`
	FirstSession  string          `yaml:"first_session" json:"first_session"`
	LastSession   string          `yaml:"last_session" json:"last_session"`
	OpenTimes     []timeEntry     `yaml:"open_times" json:"open_times"`
	CloseTimes    []timeEntry     `yaml:"close_times" json:"close_times"`
	Holidays      []ruleEntry     `yaml:"holidays" json:"holidays"`
	AdHocHolidays []string        `yaml:"adhoc_holidays" json:"adhoc_holidays"`
	SpecialOpens  []overrideEntry `yaml:"special_opens" json:"special_opens"`
	SpecialCloses []overrideEntry `yaml:"special_closes" json:"special_closes"`
}

// Parse reads a YAML bundle.
func Parse(data []byte) (*Bundle, error) {
	var a aux
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal bundle")
	}
	return a.bundle()
}

// ParseJSON reads a JSON bundle with the same fields as the YAML form.
func ParseJSON(data []byte) (*Bundle, error) {
	var a aux
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal bundle")
	}
	return a.bundle()
}

func (a *aux) bundle() (*Bundle, error) {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return nil, errors.New("bundle: missing name")
	}
	if a.Timezone == "" {
		return nil, errors.Errorf("%s: missing timezone", name)
	}

	var (
		b   = &Bundle{Name: name}
		err error
	)
	if b.Location, err = time.LoadLocation(a.Timezone); err != nil {
		return nil, errors.Wrapf(err, "%s: timezone", name)
	}
	if b.Span, err = span(a.FirstSession, a.LastSession); err != nil {
		return nil, errors.Wrapf(err, "%s: supported span", name)
	}
	if b.Opens, err = timeSchedule("open", a.OpenTimes); err != nil {
		return nil, errors.Wrapf(err, "%s: open_times", name)
	}
	if b.Closes, err = timeSchedule("close", a.CloseTimes); err != nil {
		return nil, errors.Wrapf(err, "%s: close_times", name)
	}
	if b.Holidays, err = rules(a.Holidays); err != nil {
		return nil, errors.Wrapf(err, "%s: holidays", name)
	}
	adhoc, err := dates(a.AdHocHolidays)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: adhoc_holidays", name)
	}
	b.AdHoc = holiday.NewAdHoc("adhoc", adhoc...)
	if b.SpecialOpens, err = overrides(a.SpecialOpens); err != nil {
		return nil, errors.Wrapf(err, "%s: special_opens", name)
	}
	if b.SpecialCloses, err = overrides(a.SpecialCloses); err != nil {
		return nil, errors.Wrapf(err, "%s: special_closes", name)
	}
	return b, nil
}

// Build precomputes a calendar from the bundle.
func (b *Bundle) Build() (*calendar.Calendar, error) {
	c, err := calendar.New(calendar.Config{
		Name:          b.Name,
		Location:      b.Location,
		Span:          b.Span,
		Holidays:      b.Holidays,
		AdHoc:         b.AdHoc,
		Opens:         b.Opens,
		Closes:        b.Closes,
		SpecialOpens:  b.SpecialOpens,
		SpecialCloses: b.SpecialCloses,
	})
	return c, errors.Wrapf(err, "%s: build calendar", b.Name)
}

func span(first, last string) (date.Range, error) {
	r := date.Range{First: DefaultFirstSession, Last: DefaultLastSession}
	var err error
	if first != "" {
		if r.First, err = date.ParseDate(first); err != nil {
			return r, errors.Wrap(err, "first_session")
		}
	}
	if last != "" {
		if r.Last, err = date.ParseDate(last); err != nil {
			return r, errors.Wrap(err, "last_session")
		}
	}
	if r.Last.Before(r.First) {
		return r, errors.Errorf("last_session %s is before first_session %s", r.Last, r.First)
	}
	return r, nil
}

func timeSchedule(name string, entries []timeEntry) (*schedule.Schedule, error) {
	bps := make([]schedule.Breakpoint, 0, len(entries))
	for i, e := range entries {
		c, err := date.ParseClock(e.Time)
		if err != nil {
			return nil, errors.Wrapf(err, "[%d].time", i)
		}
		if e.From == "" {
			bps = append(bps, schedule.Always(c))
			continue
		}
		from, err := date.ParseDate(e.From)
		if err != nil {
			return nil, errors.Wrapf(err, "[%d].from", i)
		}
		bps = append(bps, schedule.From(from, c))
	}
	return schedule.New(name, bps...)
}

func rules(entries []ruleEntry) ([]holiday.Rule, error) {
	out := make([]holiday.Rule, 0, len(entries))
	for i, e := range entries {
		r, err := e.rule()
		if err != nil {
			return nil, errors.Wrapf(err, "[%d] %s", i, e.Name)
		}
		out = append(out, r)
	}
	return out, nil
}

func (e ruleEntry) rule() (holiday.Rule, error) {
	kind, err := holiday.ParseKind(e.Kind)
	if err != nil {
		return holiday.Rule{}, err
	}
	observance, err := holiday.ParseObservance(e.Observance)
	if err != nil {
		return holiday.Rule{}, err
	}
	r := holiday.Rule{
		Name:       e.Name,
		Kind:       kind,
		Month:      time.Month(e.Month),
		Day:        e.Day,
		N:          e.N,
		Offset:     e.Offset,
		Observance: observance,
	}
	if e.Weekday != "" {
		if r.Weekday, err = ParseWeekday(e.Weekday); err != nil {
			return holiday.Rule{}, errors.Wrap(err, "weekday")
		}
	}
	for _, s := range e.DaysOfWeek {
		wd, err := ParseWeekday(s)
		if err != nil {
			return holiday.Rule{}, errors.Wrap(err, "days_of_week")
		}
		r.DaysOfWeek = append(r.DaysOfWeek, wd)
	}
	if r.Start, err = date.ParseNullDate(e.Start); err != nil {
		return holiday.Rule{}, errors.Wrap(err, "start")
	}
	if r.End, err = date.ParseNullDate(e.End); err != nil {
		return holiday.Rule{}, errors.Wrap(err, "end")
	}
	return r, r.Validate()
}

func dates(entries []string) ([]date.Date, error) {
	out := make([]date.Date, 0, len(entries))
	for i, s := range entries {
		d, err := date.ParseDate(s)
		if err != nil {
			return nil, errors.Wrapf(err, "[%d]", i)
		}
		out = append(out, d)
	}
	return out, nil
}

func overrides(entries []overrideEntry) ([]schedule.Override, error) {
	out := make([]schedule.Override, 0, len(entries))
	for i, e := range entries {
		c, err := date.ParseClock(e.Time)
		if err != nil {
			return nil, errors.Wrapf(err, "[%d] %s: time", i, e.Name)
		}
		rs, err := rules(e.Rules)
		if err != nil {
			return nil, errors.Wrapf(err, "[%d] %s: rules", i, e.Name)
		}
		ds, err := dates(e.Dates)
		if err != nil {
			return nil, errors.Wrapf(err, "[%d] %s: dates", i, e.Name)
		}
		scope, err := schedule.NewScope(e.Name, rs, ds...)
		if err != nil {
			return nil, errors.Wrapf(err, "[%d] %s", i, e.Name)
		}
		o, err := schedule.NewOverride(e.Name, c, scope)
		if err != nil {
			return nil, errors.Wrapf(err, "[%d]", i)
		}
		out = append(out, o)
	}
	return out, nil
}

var weekdays = map[string]time.Weekday{}

func init() {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		weekdays[name] = wd
		weekdays[name[:3]] = wd
		weekdays[name[:2]] = wd
	}
}

// ParseWeekday accepts full English names and two or three letter
// abbreviations in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return time.Sunday, errors.Errorf("unknown weekday %q", s)
	}
	return wd, nil
}
