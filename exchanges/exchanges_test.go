package exchanges

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpacahq/marketcal/calendar"
	"github.com/alpacahq/marketcal/holiday"
	"github.com/alpacahq/marketcal/utils/date"
)

var d = date.MustParse

func mustCalendar(t *testing.T, name string) *calendar.Calendar {
	t.Helper()
	reg, err := Registry()
	require.Nil(t, err)
	c, err := reg.Get(name)
	require.Nil(t, err)
	return c
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	reg, err := Registry()
	require.Nil(t, err)

	assert.Equal(t, []string{"BVMF", "XASX", "XNZE"}, reg.Names())
	assert.Equal(t, reg.Names(), Names())

	for _, name := range reg.Names() {
		c, err := reg.Get(name)
		require.Nil(t, err)
		assert.Empty(t, c.Faults(), name)
	}

	matched, err := reg.Match("X*")
	require.Nil(t, err)
	assert.Len(t, matched, 2)
}

func TestBundle_Unknown(t *testing.T) {
	t.Parallel()
	_, err := Bundle("xnys.yml")
	assert.NotNil(t, err)
}

type dayCase struct {
	day       string
	isSession bool
	open      string
	close     string
}

func checkDays(t *testing.T, c *calendar.Calendar, tests map[string]dayCase) {
	t.Helper()
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			// --- when ---
			s, ok, err := c.Session(d(tt.day))

			// --- then ---
			require.Nil(t, err)
			assert.Equal(t, tt.isSession, ok)
			if !ok || !tt.isSession {
				return
			}
			if tt.open != "" {
				assert.Equal(t, date.MustParseClock(tt.open).On(d(tt.day), c.Tz()), s.Open)
			}
			if tt.close != "" {
				assert.Equal(t, date.MustParseClock(tt.close).On(d(tt.day), c.Tz()), s.Close)
			}
		})
	}
}

func TestBVMF(t *testing.T) {
	t.Parallel()
	c := mustCalendar(t, "BVMF")

	checkDays(t, c, map[string]dayCase{
		"ok/ ash wednesday opens late":         {day: "2016-02-10", isSession: true, open: "13:00", close: "17:00"},
		"ok/ ash wednesday before 2016":        {day: "2015-02-18", isSession: true, open: "10:00"},
		"ok/ carnival monday":                  {day: "2016-02-08", isSession: false},
		"ok/ world cup":                        {day: "2014-06-12", isSession: false},
		"ok/ close before the schedule change": {day: "2019-11-01", isSession: true, close: "17:00"},
		"ok/ close after the schedule change":  {day: "2019-11-04", isSession: true, close: "18:00"},
		"ok/ constitucionalista 2019":          {day: "2019-07-09", isSession: false},
		"ok/ constitucionalista suspended":     {day: "2020-07-09", isSession: true},
		"ok/ constitucionalista 2021":          {day: "2021-07-09", isSession: false},
		"ok/ sao paulo anniversary 2021":       {day: "2021-01-25", isSession: false},
		"ok/ sao paulo anniversary dropped":    {day: "2022-01-25", isSession: true},
		"ok/ new year's eve on a saturday":     {day: "2016-12-30", isSession: false},
		"ok/ new year's eve on a sunday":       {day: "2017-12-29", isSession: false},
		"ok/ corpus christi":                   {day: "2019-06-20", isSession: false},
		"ok/ black awareness day 2019":         {day: "2019-11-20", isSession: false},
		"ok/ black awareness day 2020":         {day: "2020-11-20", isSession: true},
		"ok/ black awareness day 2024":         {day: "2024-11-20", isSession: false},
	})
}

func TestBVMF_Diagnostics(t *testing.T) {
	t.Parallel()
	c := mustCalendar(t, "BVMF")

	diags := c.Diagnostics()
	require.Len(t, diags, 1)
	var gap *holiday.WindowGapWarning
	require.ErrorAs(t, diags[0], &gap)
	assert.Equal(t, "Constitucionalista", gap.Rule)
	assert.Equal(t, d("2020-01-01"), gap.From)
	assert.Equal(t, d("2021-01-01"), gap.To)
}

func TestXNZE(t *testing.T) {
	t.Parallel()
	c := mustCalendar(t, "XNZE")

	checkDays(t, c, map[string]dayCase{
		"ok/ new year's day mondayized":           {day: "2022-01-03", isSession: false},
		"ok/ day after new year's day to tuesday": {day: "2022-01-04", isSession: false},
		"ok/ first session of 2022":               {day: "2022-01-05", isSession: true, open: "10:00", close: "16:45"},
		"ok/ waitangi not mondayized before 2015": {day: "2010-02-08", isSession: true},
		"ok/ waitangi mondayized from 2015":       {day: "2016-02-08", isSession: false},
		"ok/ matariki":                            {day: "2022-06-24", isSession: false},
		"ok/ queen mourning":                      {day: "2022-09-26", isSession: false},
		"ok/ labour day":                          {day: "2019-10-28", isSession: false},
		"ok/ queen's birthday":                    {day: "2019-06-03", isSession: false},
		"ok/ christmas on saturday":               {day: "2021-12-27", isSession: false},
		"ok/ boxing day on sunday":                {day: "2021-12-28", isSession: false},
		"ok/ early close before christmas":        {day: "2019-12-24", isSession: true, close: "12:45"},
		"ok/ early close before new year":         {day: "2019-12-31", isSession: true, close: "12:45"},
		"ok/ early close across the year":         {day: "2021-12-31", isSession: true, close: "12:45"},
		"ok/ no early close before 2011":          {day: "2009-12-24", isSession: true, close: "16:45"},
		"ok/ adhoc 1986 closure":                  {day: "1986-12-22", isSession: false},
	})
}

func TestXNZE_DST(t *testing.T) {
	t.Parallel()
	c := mustCalendar(t, "XNZE")

	summer, ok, err := c.Session(d("2019-01-15"))
	require.Nil(t, err)
	require.True(t, ok)
	assert.True(t, summer.Open.Equal(time.Date(2019, 1, 14, 21, 0, 0, 0, time.UTC)))

	winter, ok, err := c.Session(d("2019-07-16"))
	require.Nil(t, err)
	require.True(t, ok)
	assert.True(t, winter.Open.Equal(time.Date(2019, 7, 15, 22, 0, 0, 0, time.UTC)))
}

func TestXASX(t *testing.T) {
	t.Parallel()
	c := mustCalendar(t, "XASX")

	checkDays(t, c, map[string]dayCase{
		"ok/ regular session":              {day: "2019-03-05", isSession: true, open: "10:01", close: "16:00"},
		"ok/ queen's birthday":             {day: "2019-06-10", isSession: false},
		"ok/ weekend christmas":            {day: "2021-12-27", isSession: false},
		"ok/ weekend boxing day":           {day: "2021-12-28", isSession: false},
		"ok/ december 27th on a friday":    {day: "2019-12-27", isSession: true, close: "16:00"},
		"ok/ early close before christmas": {day: "2021-12-24", isSession: true, close: "14:10"},
		"ok/ early close at year end":      {day: "2021-12-31", isSession: true, close: "14:10"},
		"ok/ early close moved to friday":  {day: "2022-12-30", isSession: true, close: "14:10"},
		"ok/ no early close before 2010":   {day: "2008-12-24", isSession: true, close: "16:00"},
		"ok/ australia day mondayized":     {day: "2020-01-27", isSession: false},
		"ok/ anzac day":                    {day: "2019-04-25", isSession: false},
		"ok/ easter monday":                {day: "2019-04-22", isSession: false},
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()
	// --- given ---
	dir := t.TempDir()
	custom := []byte(`
name: XNZE
timezone: Pacific/Auckland
first_session: "2020-01-01"
last_session: "2020-12-31"
open_times: [{time: "09:30"}]
close_times: [{time: "16:00"}]
`)
	other := []byte(`
name: XTST
timezone: UTC
first_session: "2020-01-01"
last_session: "2020-12-31"
open_times: [{time: "08:00"}]
close_times: [{time: "16:00"}]
`)
	require.Nil(t, os.WriteFile(filepath.Join(dir, "xnze.yml"), custom, 0o600))
	require.Nil(t, os.WriteFile(filepath.Join(dir, "xtst.yml"), other, 0o600))

	// --- when ---
	reg, err := Load(dir)

	// --- then ---
	require.Nil(t, err)
	assert.Equal(t, []string{"BVMF", "XASX", "XNZE", "XTST"}, reg.Names())
	c, err := reg.Get("XNZE")
	require.Nil(t, err)
	assert.Equal(t, date.Range{First: d("2020-01-01"), Last: d("2020-12-31")}, c.Span())

	_, err = Load(filepath.Join(dir, "missing"))
	assert.NotNil(t, err)
}
