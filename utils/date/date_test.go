package date

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()
	d, err := ParseDate("2019-11-04")
	require.Nil(t, err)
	assert.Equal(t, New(2019, time.November, 4), d)
	assert.Equal(t, time.Monday, d.Weekday())
	assert.False(t, d.IsWeekend())

	_, err = ParseDate("2019/11/04")
	assert.NotNil(t, err)
}

func TestCompare(t *testing.T) {
	t.Parallel()
	a := MustParse("2021-12-31")
	b := MustParse("2022-01-01")
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, b, a.AddDays(1))
	assert.True(t, b.IsWeekend())
}

func TestParseClock(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		in      string
		want    Clock
		wantErr bool
	}{
		"ok/ hours and minutes": {in: "16:45", want: NewClock(16, 45, 0)},
		"ok/ with seconds":      {in: "10:01:30", want: NewClock(10, 1, 30)},
		"ng/ garbage":           {in: "noon", wantErr: true},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.NotNil(t, err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockOnFollowsZoneRulesPerDate(t *testing.T) {
	t.Parallel()
	auckland, err := time.LoadLocation("Pacific/Auckland")
	require.Nil(t, err)

	open := MustParseClock("10:00")
	summer := open.On(MustParse("2019-01-15"), auckland)
	winter := open.On(MustParse("2019-07-15"), auckland)

	// NZDT is UTC+13, NZST is UTC+12
	assert.Equal(t, 21, summer.UTC().Hour())
	assert.Equal(t, 22, winter.UTC().Hour())
	assert.Equal(t, 10, summer.Hour())
	assert.Equal(t, 10, winter.Hour())
}

func TestRangeYears(t *testing.T) {
	t.Parallel()
	r := Range{First: MustParse("2019-11-04"), Last: MustParse("2021-02-01")}
	years := r.Years()
	require.Len(t, years, 3)
	assert.Equal(t, MustParse("2019-12-31"), years[0].Last)
	assert.Equal(t, MustParse("2020-01-01"), years[1].First)
	assert.Equal(t, MustParse("2021-02-01"), years[2].Last)
	assert.Equal(t, 58+366+32, r.Len())
	assert.True(t, r.Covers(years[1]))
}

func TestNullDate(t *testing.T) {
	t.Parallel()
	n, err := ParseNullDate("")
	require.Nil(t, err)
	assert.False(t, n.Valid)
	assert.Equal(t, "unbounded", n.String())

	n, err = ParseNullDate("2015-01-01")
	require.Nil(t, err)
	assert.Equal(t, Some(MustParse("2015-01-01")), n)
}
