package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alpacahq/marketcal/utils/date"
)

// ErrInvalidRange is returned when a query range ends before it starts.
var ErrInvalidRange = errors.New("invalid range: last day before first day")

// Slot names the session boundary an override replaces.
type Slot string

const (
	OpenSlot  Slot = "open"
	CloseSlot Slot = "close"
)

// Candidate is one override that matched a conflicting day.
type Candidate struct {
	Override string
	Time     date.Clock
	Rules    []string
}

func (c Candidate) String() string {
	return fmt.Sprintf("%s at %s (matched by %s)", c.Override, c.Time, strings.Join(c.Rules, ", "))
}

// ConflictError is raised when two special overrides for the same slot
// select the same day with different times. The engine never picks one.
type ConflictError struct {
	Slot       Slot
	Date       date.Date
	Candidates []Candidate
}

func (e *ConflictError) Error() string {
	parts := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		parts[i] = c.String()
	}
	return fmt.Sprintf("configuration conflict: special %s on %s is claimed by %s",
		e.Slot, e.Date, strings.Join(parts, " and "))
}

// Overrides returns the names of the conflicting overrides.
func (e *ConflictError) Overrides() []string {
	out := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		out[i] = c.Override
	}
	return out
}

// InvertedSessionError is raised when a resolved session would not open
// strictly before it closes.
type InvertedSessionError struct {
	Date  date.Date
	Open  time.Time
	Close time.Time
}

func (e *InvertedSessionError) Error() string {
	return fmt.Sprintf("session %s opens at %s but closes at %s",
		e.Date, e.Open.Format(time.RFC3339), e.Close.Format(time.RFC3339))
}

// Fault is a resolution failure pinned to a single day.
type Fault struct {
	Date date.Date
	Err  error
}
