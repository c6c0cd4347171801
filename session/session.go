// Package session turns holiday rules, schedules and special overrides into
// the ordered table of trading sessions for an exchange.
package session

import (
	"time"

	"github.com/alpacahq/marketcal/utils/date"
)

// Session is one trading day with its resolved open and close instants.
// SpecialOpen and SpecialClose name the override that set the time, if any.
type Session struct {
	Date         date.Date
	Open         time.Time
	Close        time.Time
	SpecialOpen  string
	SpecialClose string
}

func (s Session) IsLateOpen() bool {
	return s.SpecialOpen != ""
}

func (s Session) IsEarlyClose() bool {
	return s.SpecialClose != ""
}

func (s Session) Duration() time.Duration {
	return s.Close.Sub(s.Open)
}

// Contains reports whether t falls in [Open, Close).
func (s Session) Contains(t time.Time) bool {
	return !t.Before(s.Open) && t.Before(s.Close)
}

// Status says why a day is or is not a session. A day has exactly one.
type Status int

const (
	Trading Status = iota
	Weekend
	Holiday
	AdHocClosure
)

func (s Status) String() string {
	switch s {
	case Trading:
		return "trading"
	case Weekend:
		return "weekend"
	case Holiday:
		return "holiday"
	case AdHocClosure:
		return "adhoc"
	default:
		return "unknown"
	}
}

// Day is a classified calendar day.
type Day struct {
	Date   date.Date
	Status Status
	Labels []string
}
