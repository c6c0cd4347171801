// Package export writes session tables as CSV or as compressed msgpack
// snapshots and reads them back.
package export

import (
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/alpacahq/marketcal/session"
	"github.com/alpacahq/marketcal/utils/date"
)

// Row is one CSV line. Instants are RFC3339 in UTC.
type Row struct {
	Date         date.Date `csv:"date"`
	Open         string    `csv:"open"`
	Close        string    `csv:"close"`
	SpecialOpen  string    `csv:"special_open"`
	SpecialClose string    `csv:"special_close"`
}

func toRow(s session.Session) Row {
	return Row{
		Date:         s.Date,
		Open:         s.Open.UTC().Format(time.RFC3339),
		Close:        s.Close.UTC().Format(time.RFC3339),
		SpecialOpen:  s.SpecialOpen,
		SpecialClose: s.SpecialClose,
	}
}

func (r Row) session(loc *time.Location) (session.Session, error) {
	open, err := time.Parse(time.RFC3339, r.Open)
	if err != nil {
		return session.Session{}, errors.Wrapf(err, "%s: open", r.Date)
	}
	closeAt, err := time.Parse(time.RFC3339, r.Close)
	if err != nil {
		return session.Session{}, errors.Wrapf(err, "%s: close", r.Date)
	}
	return session.Session{
		Date:         r.Date,
		Open:         open.In(loc),
		Close:        closeAt.In(loc),
		SpecialOpen:  r.SpecialOpen,
		SpecialClose: r.SpecialClose,
	}, nil
}

// WriteCSV writes sessions with a header line.
func WriteCSV(w io.Writer, sessions []session.Session) error {
	rows := make([]*Row, len(sessions))
	for i, s := range sessions {
		row := toRow(s)
		rows[i] = &row
	}
	return errors.Wrap(gocsv.Marshal(&rows, w), "failed to write csv")
}

// ReadCSV reads sessions written by WriteCSV, converting instants to loc.
func ReadCSV(r io.Reader, loc *time.Location) ([]session.Session, error) {
	var rows []*Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, errors.Wrap(err, "failed to read csv")
	}
	out := make([]session.Session, 0, len(rows))
	for _, row := range rows {
		s, err := row.session(loc)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
