package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpacahq/marketcal/holiday"
	"github.com/alpacahq/marketcal/schedule"
	"github.com/alpacahq/marketcal/utils/date"
)

var (
	d     = date.MustParse
	clock = date.MustParseClock
)

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.Nil(t, err)
	return loc
}

func mustSchedule(t *testing.T, name string, bps ...schedule.Breakpoint) *schedule.Schedule {
	t.Helper()
	s, err := schedule.New(name, bps...)
	require.Nil(t, err)
	return s
}

func mustOverride(t *testing.T, name, at string, rules []holiday.Rule, dates ...date.Date) schedule.Override {
	t.Helper()
	scope, err := schedule.NewScope(name, rules, dates...)
	require.Nil(t, err)
	o, err := schedule.NewOverride(name, clock(at), scope)
	require.Nil(t, err)
	return o
}

// bvmf is a trimmed-down Sao Paulo calendar.
func bvmf(t *testing.T, extraCloses ...schedule.Override) *Resolver {
	t.Helper()
	holidays, err := holiday.NewCalendar("BVMF", []holiday.Rule{
		holiday.NewFixed("Confraternizacao Universal", time.January, 1),
		holiday.NewEasterOffset("Carnaval Segunda", -48),
		holiday.NewEasterOffset("Carnaval Terca", -47),
		holiday.NewEasterOffset("Sexta Paixao", -2),
		holiday.NewFixed("Natal", time.December, 25),
	})
	require.Nil(t, err)

	r, err := NewResolver(Config{
		Location: saoPaulo(t),
		Holidays: holidays,
		AdHoc:    holiday.NewAdHoc("Copa do Mundo", d("2014-06-12")),
		Opens:    mustSchedule(t, "open", schedule.Always(clock("10:00"))),
		Closes: mustSchedule(t, "close",
			schedule.Always(clock("17:00")),
			schedule.From(d("2019-11-04"), clock("18:00")),
		),
		SpecialOpens: []schedule.Override{
			mustOverride(t, "late open", "13:00", []holiday.Rule{
				holiday.NewEasterOffset("Quarta Cinzas", -46).WithStart(d("2016-01-01")),
			}),
		},
		SpecialCloses: extraCloses,
	})
	require.Nil(t, err)
	return r
}

func TestResolver_SessionsBetween(t *testing.T) {
	t.Parallel()
	r := bvmf(t)
	loc := saoPaulo(t)

	tests := map[string]struct {
		lo, hi    string
		wantDates []string
		wantOpen  string
		wantClose string
		special   string
	}{
		"ok/ late open on ash wednesday": {
			lo: "2016-02-10", hi: "2016-02-10",
			wantDates: []string{"2016-02-10"},
			wantOpen:  "13:00", wantClose: "17:00", special: "late open",
		},
		"ok/ ash wednesday before the window opens normally": {
			lo: "2015-02-18", hi: "2015-02-18",
			wantDates: []string{"2015-02-18"},
			wantOpen:  "10:00", wantClose: "17:00",
		},
		"ok/ close schedule changes": {
			lo: "2019-11-04", hi: "2019-11-04",
			wantDates: []string{"2019-11-04"},
			wantOpen:  "10:00", wantClose: "18:00",
		},
		"ok/ adhoc closure removes a weekday": {
			lo: "2014-06-11", hi: "2014-06-13",
			wantDates: []string{"2014-06-11", "2014-06-13"},
			wantOpen:  "10:00", wantClose: "17:00",
		},
		"ok/ carnival and weekend": {
			lo: "2016-02-05", hi: "2016-02-10",
			wantDates: []string{"2016-02-05", "2016-02-10"},
			wantOpen:  "13:00", wantClose: "17:00", special: "late open",
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			// --- when ---
			got, err := r.SessionsBetween(d(tt.lo), d(tt.hi))

			// --- then ---
			require.Nil(t, err)
			require.Len(t, got, len(tt.wantDates))
			for i, s := range got {
				assert.Equal(t, d(tt.wantDates[i]), s.Date)
			}
			// the time checks apply to the last session in the range
			last := got[len(got)-1]
			assert.Equal(t, clock(tt.wantOpen).On(last.Date, loc), last.Open)
			assert.Equal(t, clock(tt.wantClose).On(last.Date, loc), last.Close)
			assert.Equal(t, tt.special, last.SpecialOpen)
		})
	}
}

func TestResolver_InvalidRange(t *testing.T) {
	t.Parallel()
	r := bvmf(t)

	_, err := r.SessionsBetween(d("2020-01-02"), d("2020-01-01"))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = r.Classify(d("2020-01-02"), d("2020-01-01"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestResolver_Conflict(t *testing.T) {
	t.Parallel()
	// --- given ---
	// 2022-12-25 is a Sunday, but the conflict is detected on the
	// business day both overrides land on.
	r := bvmf(t,
		mustOverride(t, "christmas eve", "12:00", nil, d("2022-12-23")),
		mustOverride(t, "year end", "14:00", []holiday.Rule{
			holiday.NewFixed("Vespera Natal", time.December, 24).WithObservance(holiday.PreviousFriday),
		}),
	)

	// --- when ---
	_, err := r.SessionsBetween(d("2022-12-01"), d("2022-12-31"))

	// --- then ---
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, CloseSlot, conflict.Slot)
	assert.Equal(t, d("2022-12-23"), conflict.Date)
	assert.Equal(t, []string{"christmas eve", "year end"}, conflict.Overrides())
	assert.Contains(t, err.Error(), "Vespera Natal")
	assert.Contains(t, err.Error(), "2022-12-23")

	// ranges that avoid the day still resolve
	got, err := r.SessionsBetween(d("2022-12-01"), d("2022-12-22"))
	require.Nil(t, err)
	assert.NotEmpty(t, got)

	// Resolve keeps the healthy days and reports the fault
	res, err := r.Resolve(d("2022-12-19"), d("2022-12-30"))
	require.Nil(t, err)
	require.Len(t, res.Faults, 1)
	assert.Equal(t, d("2022-12-23"), res.Faults[0].Date)
	for _, s := range res.Sessions {
		assert.NotEqual(t, d("2022-12-23"), s.Date)
	}
}

func TestResolver_AgreeingOverridesAreNotAConflict(t *testing.T) {
	t.Parallel()
	r := bvmf(t,
		mustOverride(t, "first", "12:00", nil, d("2022-12-23")),
		mustOverride(t, "second", "12:00", nil, d("2022-12-23")),
	)

	got, err := r.SessionsBetween(d("2022-12-23"), d("2022-12-23"))
	require.Nil(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].SpecialClose)
	assert.True(t, got[0].IsEarlyClose())
}

func TestResolver_OverrideNeverResurrectsAHoliday(t *testing.T) {
	t.Parallel()
	r := bvmf(t,
		mustOverride(t, "christmas", "12:00", nil, d("2019-12-25")),
		mustOverride(t, "world cup", "12:00", nil, d("2014-06-12")),
	)

	got, err := r.SessionsBetween(d("2019-12-24"), d("2019-12-26"))
	require.Nil(t, err)
	assert.Equal(t, []date.Date{d("2019-12-24"), d("2019-12-26")}, sessionDates(got))

	got, err = r.SessionsBetween(d("2014-06-12"), d("2014-06-12"))
	require.Nil(t, err)
	assert.Empty(t, got)
}

func TestResolver_InvertedSession(t *testing.T) {
	t.Parallel()
	r := bvmf(t, mustOverride(t, "broken", "09:00", nil, d("2021-03-03")))

	_, err := r.SessionsBetween(d("2021-03-01"), d("2021-03-05"))
	var inverted *InvertedSessionError
	require.ErrorAs(t, err, &inverted)
	assert.Equal(t, d("2021-03-03"), inverted.Date)
}

func TestResolver_Classify(t *testing.T) {
	t.Parallel()
	r := bvmf(t)

	days, err := r.Classify(d("2014-06-07"), d("2014-06-13"))
	require.Nil(t, err)
	require.Len(t, days, 7)

	want := map[string]Status{
		"2014-06-07": Weekend,
		"2014-06-08": Weekend,
		"2014-06-09": Trading,
		"2014-06-12": AdHocClosure,
		"2014-06-13": Trading,
	}
	for _, day := range days {
		if s, ok := want[day.Date.String()]; ok {
			assert.Equal(t, s, day.Status, day.Date.String())
		}
	}

	days, err = r.Classify(d("2016-12-25"), d("2016-12-25"))
	require.Nil(t, err)
	assert.Equal(t, Holiday, days[0].Status)
	assert.Equal(t, []string{"Natal"}, days[0].Labels)
}

func TestResolver_ClassifyMatchesSessions(t *testing.T) {
	t.Parallel()
	r := bvmf(t)
	lo, hi := d("2013-01-01"), d("2020-12-31")

	sessions, err := r.SessionsBetween(lo, hi)
	require.Nil(t, err)
	days, err := r.Classify(lo, hi)
	require.Nil(t, err)

	var trading []date.Date
	for _, day := range days {
		if day.Status == Trading {
			trading = append(trading, day.Date)
		}
	}
	assert.Equal(t, trading, sessionDates(sessions))
	for i, s := range sessions {
		assert.True(t, s.Open.Before(s.Close))
		if i > 0 {
			assert.True(t, sessions[i-1].Date.Before(s.Date))
		}
	}
}

func TestNewResolver_Errors(t *testing.T) {
	t.Parallel()
	closes := mustSchedule(t, "close", schedule.Always(clock("17:00")))

	_, err := NewResolver(Config{Closes: closes, Opens: closes})
	assert.NotNil(t, err)

	_, err = NewResolver(Config{Location: time.UTC, Closes: closes})
	var unbounded *schedule.UnboundedScheduleError
	assert.ErrorAs(t, err, &unbounded)
}

func TestOverrideDays(t *testing.T) {
	t.Parallel()
	o := mustOverride(t, "late open", "13:00", []holiday.Rule{
		holiday.NewEasterOffset("Quarta Cinzas", -46),
	}, d("2016-02-10"))

	got := OverrideDays([]schedule.Override{o}, d("2016-01-01"), d("2017-12-31"))
	assert.Equal(t, []date.Date{d("2016-02-10"), d("2017-03-01")}, got)
}

func sessionDates(ss []Session) []date.Date {
	var out []date.Date
	for _, s := range ss {
		out = append(out, s.Date)
	}
	return out
}
