package shiftcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func TestResolveBoundaries(t *testing.T) {
	cal := Default()

	cases := []struct {
		name     string
		ts       time.Time
		shift    string
		laborDay time.Time
	}{
		{"shift 1 start", at(2024, 5, 1, 7, 10, 0), "1", date(2024, 5, 1)},
		{"shift 1 end", at(2024, 5, 1, 15, 44, 59), "1", date(2024, 5, 1)},
		{"shift 2 start", at(2024, 5, 1, 15, 45, 0), "2", date(2024, 5, 1)},
		{"shift 2 end", at(2024, 5, 1, 23, 49, 59), "2", date(2024, 5, 1)},
		{"shift 3 start stays on same day", at(2024, 5, 1, 23, 50, 0), "3", date(2024, 5, 1)},
		{"last second before midnight", at(2024, 5, 1, 23, 59, 59), "3", date(2024, 5, 1)},
		{"midnight belongs to previous day", at(2024, 5, 2, 0, 0, 0), "3", date(2024, 5, 1)},
		{"last second of shift 3", at(2024, 5, 2, 7, 9, 59), "3", date(2024, 5, 1)},
		{"back to shift 1 next day", at(2024, 5, 2, 7, 10, 0), "1", date(2024, 5, 2)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shift, laborDay := cal.Resolve(tc.ts)
			assert.Equal(t, tc.shift, shift)
			assert.Equal(t, tc.laborDay, laborDay, "labor day")
		})
	}
}

func TestResolveIsTotal(t *testing.T) {
	cal := Default()
	base := date(2024, 5, 1)

	// Walk the whole clock at one-second steps around every boundary and at a
	// coarse stride elsewhere; every instant must land in exactly one shift.
	seen := map[string]bool{}
	for sec := 0; sec < 24*60*60; sec += 7 {
		ts := base.Add(time.Duration(sec) * time.Second)
		shift, laborDay := cal.Resolve(ts)
		require.NotEmpty(t, shift, "no shift for %v", ts)
		require.False(t, laborDay.After(base), "labor day in the future for %v", ts)
		seen[shift] = true
	}
	assert.Len(t, seen, 3)
}

func TestMonthEndWrap(t *testing.T) {
	cal := Default()

	// 00:30 on June 1st counts toward May 31st.
	_, laborDay := cal.Resolve(at(2024, 6, 1, 0, 30, 0))
	assert.Equal(t, date(2024, 5, 31), laborDay)
}

func TestNewRejectsBrokenTables(t *testing.T) {
	cases := []struct {
		name string
		defs []ShiftDefinition
	}{
		{"empty", nil},
		{"gap", []ShiftDefinition{
			{ID: "a", Start: 0, End: 11*time.Hour + 59*time.Minute + 59*time.Second},
			{ID: "b", Start: 13 * time.Hour, End: 23*time.Hour + 59*time.Minute + 59*time.Second},
		}},
		{"overlap", []ShiftDefinition{
			{ID: "a", Start: 0, End: 12 * time.Hour},
			{ID: "b", Start: 11 * time.Hour, End: 23*time.Hour + 59*time.Minute + 59*time.Second},
		}},
		{"two wrapping shifts", []ShiftDefinition{
			{ID: "a", Start: 22 * time.Hour, End: 9*time.Hour + 59*time.Minute + 59*time.Second},
			{ID: "b", Start: 10 * time.Hour, End: 3 * time.Hour},
		}},
		{"sub-second boundary", []ShiftDefinition{
			{ID: "a", Start: 500 * time.Millisecond, End: 23*time.Hour + 59*time.Minute + 59*time.Second},
		}},
		{"empty id", []ShiftDefinition{
			{ID: "", Start: 0, End: 23*time.Hour + 59*time.Minute + 59*time.Second},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.defs)
			require.Error(t, err)
		})
	}
}

func TestNewAcceptsSingleFullDayShift(t *testing.T) {
	cal, err := New([]ShiftDefinition{
		{ID: "all", Start: 0, End: 23*time.Hour + 59*time.Minute + 59*time.Second},
	})
	require.NoError(t, err)

	shift, laborDay := cal.Resolve(at(2024, 5, 1, 3, 0, 0))
	assert.Equal(t, "all", shift)
	assert.Equal(t, date(2024, 5, 1), laborDay)
}

func TestStartInstant(t *testing.T) {
	cal := Default()

	s3, ok := cal.Shift("3")
	require.True(t, ok)

	// The wrapping shift starts late on its labor day.
	assert.Equal(t, at(2024, 5, 1, 23, 50, 0), s3.StartInstant(date(2024, 5, 1)))

	s1, ok := cal.Shift("1")
	require.True(t, ok)
	assert.Equal(t, at(2024, 5, 1, 7, 10, 0), s1.StartInstant(date(2024, 5, 1)))
}
