package calendar

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/alpacahq/marketcal/session"
	"github.com/alpacahq/marketcal/utils/date"
)

// ErrInvalidRange is returned when a query range ends before it starts.
var ErrInvalidRange = session.ErrInvalidRange

// ErrUnknownExchange is returned by the registry for unregistered names.
var ErrUnknownExchange = errors.New("unknown exchange")

// RangeError is returned when a query reaches outside the span a calendar
// supports. The calendar never extrapolates.
type RangeError struct {
	Exchange  string
	Requested date.Range
	Supported date.Range
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: requested %s is outside the supported range %s",
		e.Exchange, e.Requested, e.Supported)
}

func errorf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// errorKind names the class of err for metrics labels.
func errorKind(err error) string {
	var (
		rangeErr    *RangeError
		conflictErr *session.ConflictError
		invertedErr *session.InvertedSessionError
	)
	switch {
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.As(err, &rangeErr):
		return "out_of_range"
	case errors.As(err, &conflictErr):
		return "conflict"
	case errors.As(err, &invertedErr):
		return "inverted_session"
	default:
		return "other"
	}
}
