// Package date holds the timezone-naive calendar day and wall-clock time
// types every rule in marketcal is evaluated against.
package date

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const layout = "2006-01-02"

// Date is a calendar day without a time zone.
type Date civil.Date

func New(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

func DateOf(t time.Time) Date {
	return Date(civil.DateOf(t))
}

func ParseDate(s string) (Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(s))
	return Date(d), err
}

// MustParse is for tables and tests. It panics on malformed input.
func MustParse(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) c() civil.Date {
	return civil.Date(d)
}

func (d Date) AddDays(n int) Date {
	return Date(d.c().AddDays(n))
}

func (d Date) After(d2 Date) bool {
	return d.c().After(d2.c())
}

func (d Date) Before(d2 Date) bool {
	return d.c().Before(d2.c())
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after d2.
func (d Date) Compare(d2 Date) int {
	switch {
	case d.Before(d2):
		return -1
	case d.After(d2):
		return 1
	default:
		return 0
	}
}

func (d Date) DaysSince(s Date) int {
	return d.c().DaysSince(s.c())
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return d.c().In(loc)
}

func (d Date) IsValid() bool {
	return d.c().IsValid()
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Weekday() time.Weekday {
	return d.In(time.UTC).Weekday()
}

// IsWeekend reports whether d is a Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) MarshalText() ([]byte, error) {
	return d.c().MarshalText()
}

func (d Date) String() string {
	return d.c().String()
}

func (d *Date) UnmarshalText(data []byte) error {
	return (*civil.Date)(d).UnmarshalText(data)
}

// NullDate is a Date that may be absent. An invalid NullDate stands for an
// unbounded end of a range.
type NullDate struct {
	Date  Date
	Valid bool
}

// Some wraps a present date.
func Some(d Date) NullDate {
	return NullDate{Date: d, Valid: true}
}

// ParseNullDate parses s, treating an empty string as an absent date.
func ParseNullDate(s string) (NullDate, error) {
	if strings.TrimSpace(s) == "" {
		return NullDate{}, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return NullDate{}, err
	}
	return Some(d), nil
}

func (n NullDate) String() string {
	if !n.Valid {
		return "unbounded"
	}
	return n.Date.String()
}

// Clock is a wall-clock time of day.
type Clock civil.Time

// NewClock builds a clock reading from hour, minute and second.
func NewClock(hour, minute, second int) Clock {
	return Clock{Hour: hour, Minute: minute, Second: second}
}

// ParseClock accepts "15:04" and "15:04:05".
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ":") == 1 {
		s += ":00"
	}
	t, err := civil.ParseTime(s)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return Clock(t), nil
}

// MustParseClock panics on malformed input.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) IsValid() bool {
	return civil.Time(c).IsValid()
}

func (c Clock) String() string {
	if c.Second == 0 && c.Nanosecond == 0 {
		return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
	}
	return civil.Time(c).String()
}

// On resolves the wall-clock reading on day d into an instant using the zone
// rules of loc in force on that day.
func (c Clock) On(d Date, loc *time.Location) time.Time {
	return civil.DateTime{Date: d.c(), Time: civil.Time(c)}.In(loc)
}

// Range is an inclusive span of days.
type Range struct {
	First Date
	Last  Date
}

func (r Range) Contains(d Date) bool {
	return !d.Before(r.First) && !d.After(r.Last)
}

// Covers reports whether other lies entirely inside r.
func (r Range) Covers(other Range) bool {
	return r.Contains(other.First) && r.Contains(other.Last)
}

// Len is the number of days in the range.
func (r Range) Len() int {
	if r.Last.Before(r.First) {
		return 0
	}
	return r.Last.DaysSince(r.First) + 1
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s]", r.First, r.Last)
}

// Years splits r into consecutive sub-ranges that never cross a year boundary.
func (r Range) Years() []Range {
	var out []Range
	for lo := r.First; !lo.After(r.Last); {
		hi := New(lo.Year, time.December, 31)
		if hi.After(r.Last) {
			hi = r.Last
		}
		out = append(out, Range{First: lo, Last: hi})
		lo = hi.AddDays(1)
	}
	return out
}
