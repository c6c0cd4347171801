package export

import (
	"io"
	"io/ioutil"
	"time"

	"github.com/klauspost/compress/snappy"
	"github.com/pkg/errors"
	msgpack "github.com/vmihailenco/msgpack"

	"github.com/alpacahq/marketcal/session"
	"github.com/alpacahq/marketcal/utils/date"
)

// Snapshot is a decoded session table.
type Snapshot struct {
	Exchange string
	Location *time.Location
	Sessions []session.Session
}

type record struct {
	Date         string `msgpack:"date"`
	Open         int64  `msgpack:"open"`
	Close        int64  `msgpack:"close"`
	SpecialOpen  string `msgpack:"special_open,omitempty"`
	SpecialClose string `msgpack:"special_close,omitempty"`
}

type payload struct {
	Exchange string   `msgpack:"exchange"`
	Timezone string   `msgpack:"timezone"`
	Sessions []record `msgpack:"sessions"`
}

// WriteSnapshot encodes sessions with msgpack and compresses the result
// with snappy. Instants are stored as epoch seconds.
func WriteSnapshot(w io.Writer, exchange string, loc *time.Location, sessions []session.Session) error {
	p := payload{
		Exchange: exchange,
		Timezone: loc.String(),
		Sessions: make([]record, len(sessions)),
	}
	for i, s := range sessions {
		p.Sessions[i] = record{
			Date:         s.Date.String(),
			Open:         s.Open.Unix(),
			Close:        s.Close.Unix(),
			SpecialOpen:  s.SpecialOpen,
			SpecialClose: s.SpecialClose,
		}
	}
	buf, err := msgpack.Marshal(&p)
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}
	if _, err := w.Write(snappy.Encode(nil, buf)); err != nil {
		return errors.Wrap(err, "failed to write snapshot")
	}
	return nil
}

// ReadSnapshot reads a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	comp, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read snapshot")
	}
	buf, err := snappy.Decode(nil, comp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decompress snapshot")
	}
	var p payload
	if err := msgpack.Unmarshal(buf, &p); err != nil {
		return nil, errors.Wrap(err, "failed to decode snapshot")
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "snapshot %s: timezone", p.Exchange)
	}

	snap := &Snapshot{
		Exchange: p.Exchange,
		Location: loc,
		Sessions: make([]session.Session, len(p.Sessions)),
	}
	for i, rec := range p.Sessions {
		d, err := date.ParseDate(rec.Date)
		if err != nil {
			return nil, errors.Wrapf(err, "snapshot %s: sessions[%d]", p.Exchange, i)
		}
		snap.Sessions[i] = session.Session{
			Date:         d,
			Open:         time.Unix(rec.Open, 0).In(loc),
			Close:        time.Unix(rec.Close, 0).In(loc),
			SpecialOpen:  rec.SpecialOpen,
			SpecialClose: rec.SpecialClose,
		}
	}
	return snap, nil
}
