package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekadapp/dekad/internal/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerate_GridInvariants(t *testing.T) {
	for _, year := range []int{1999, 2000, 2023, 2024, 2100} {
		periods := Generate(year, date(year, time.June, 15))

		require.Len(t, periods, types.PeriodsPerYear, "year %d", year)
		assert.Equal(t, date(year, time.January, 1), periods[0].StartDate, "year %d", year)

		for i, p := range periods {
			assert.Equal(t, i+1, p.Number)
			assert.Equal(t, year, p.Year)
			assert.Equal(t, p.StartDate.AddDate(0, 0, 9), p.EndDate, "period %d of %d", p.Number, year)
			if i+1 < len(periods) {
				assert.Equal(t, p.EndDate.AddDate(0, 0, 1), periods[i+1].StartDate, "period %d of %d", p.Number, year)
			}
		}
	}
}

func TestGenerate_LastPeriodEndsOnDay360(t *testing.T) {
	// 2024 is a leap year: day 360 is December 25.
	leap := Generate(2024, date(2024, time.January, 1))
	last := leap[len(leap)-1]
	assert.Equal(t, 351, last.StartDate.YearDay())
	assert.Equal(t, 360, last.EndDate.YearDay())
	assert.Equal(t, date(2024, time.December, 25), last.EndDate)

	common := Generate(2023, date(2023, time.January, 1))
	last = common[len(common)-1]
	assert.Equal(t, date(2023, time.December, 17), last.StartDate)
	assert.Equal(t, date(2023, time.December, 26), last.EndDate)
}

func TestGenerate_Status(t *testing.T) {
	periods := Generate(2025, date(2025, time.February, 3))

	// Feb 3 is day 34, inside period 4 (days 31-40).
	assert.Equal(t, types.StatusCompleted, periods[0].Status)
	assert.Equal(t, types.StatusCompleted, periods[2].Status)
	assert.Equal(t, types.StatusInProgress, periods[3].Status)
	assert.Equal(t, types.StatusUpcoming, periods[4].Status)
	assert.Equal(t, types.StatusUpcoming, periods[35].Status)
}

func TestGenerate_Deterministic(t *testing.T) {
	today := date(2025, time.May, 5)
	assert.Equal(t, Generate(2025, today), Generate(2025, today))
}

func TestStatusAt_BoundariesAreInProgress(t *testing.T) {
	p := Generate(2025, date(2025, time.January, 1))[1] // Jan 11 - Jan 20

	assert.Equal(t, types.StatusUpcoming, StatusAt(p, date(2025, time.January, 10)))
	assert.Equal(t, types.StatusInProgress, StatusAt(p, date(2025, time.January, 11)))
	assert.Equal(t, types.StatusInProgress, StatusAt(p, date(2025, time.January, 20)))
	assert.Equal(t, types.StatusCompleted, StatusAt(p, date(2025, time.January, 21)))
}

func TestStatusAt_IgnoresTimeOfDay(t *testing.T) {
	p := Generate(2025, date(2025, time.January, 1))[0]
	lateOnLastDay := time.Date(2025, time.January, 10, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, types.StatusInProgress, StatusAt(p, lateOnLastDay))
}

func TestStatusAt_UsesCallerCalendarDate(t *testing.T) {
	p := Generate(2025, date(2025, time.January, 1))[0]
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2025-01-11 08:00 in Tokyo is still January 10 in UTC, but the local
	// calendar date is what counts.
	today := time.Date(2025, time.January, 11, 8, 0, 0, 0, tokyo)

	assert.Equal(t, types.StatusCompleted, StatusAt(p, today))
}

func TestWithStatus_RecomputesWithoutMutating(t *testing.T) {
	original := Generate(2025, date(2025, time.January, 1))
	later := WithStatus(original, date(2025, time.December, 31))

	assert.Equal(t, types.StatusInProgress, original[0].Status)
	for _, p := range later {
		assert.Equal(t, types.StatusCompleted, p.Status)
	}
}

func TestProgressFraction(t *testing.T) {
	p := Generate(2025, date(2025, time.January, 1))[0] // Jan 1 - Jan 10

	tests := []struct {
		name  string
		today time.Time
		want  float64
	}{
		{"before start", date(2024, time.December, 31), 0},
		{"first day", date(2025, time.January, 1), 0.1},
		{"fifth day", date(2025, time.January, 5), 0.5},
		{"last day", date(2025, time.January, 10), 1},
		{"after end", date(2025, time.January, 11), 1},
		{"long after", date(2026, time.March, 1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ProgressFraction(p, tt.today), 1e-9)
		})
	}
}

func TestProgressFraction_MonotonicAndBounded(t *testing.T) {
	p := Generate(2024, date(2024, time.January, 1))[5]

	prev := -1.0
	for day := p.StartDate.AddDate(0, 0, -5); day.Before(p.EndDate.AddDate(0, 0, 5)); day = day.AddDate(0, 0, 1) {
		got := ProgressFraction(p, day)
		assert.GreaterOrEqual(t, got, prev, "day %s", day.Format(time.DateOnly))
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
		prev = got
	}
}

func TestRemainingDays(t *testing.T) {
	p := Generate(2025, date(2025, time.January, 1))[2] // Jan 21 - Jan 30

	assert.Equal(t, 10, RemainingDays(p, p.StartDate))
	assert.Equal(t, 1, RemainingDays(p, p.EndDate))
	assert.Equal(t, 0, RemainingDays(p, p.EndDate.AddDate(0, 0, 1)))
	assert.Equal(t, 6, RemainingDays(p, date(2025, time.January, 25)))
	// Upcoming periods count from today, not from their start.
	assert.Equal(t, 12, RemainingDays(p, date(2025, time.January, 19)))
}

func TestLocate(t *testing.T) {
	tests := []struct {
		day    time.Time
		want   int
		wantOK bool
	}{
		{date(2025, time.January, 1), 1, true},
		{date(2025, time.January, 10), 1, true},
		{date(2025, time.January, 11), 2, true},
		{date(2025, time.December, 26), 36, true},
		{date(2025, time.December, 27), 0, false},
		{date(2024, time.December, 25), 36, true},
		{date(2024, time.December, 26), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.day.Format(time.DateOnly), func(t *testing.T) {
			got, ok := Locate(tt.day)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocate_AgreesWithGenerate(t *testing.T) {
	for _, p := range Generate(2024, date(2024, time.January, 1)) {
		for d := p.StartDate; !d.After(p.EndDate); d = d.AddDate(0, 0, 1) {
			n, ok := Locate(d)
			require.True(t, ok)
			require.Equal(t, p.Number, n, "day %s", d.Format(time.DateOnly))
		}
	}
}

func TestDayIndex(t *testing.T) {
	p := Generate(2025, date(2025, time.January, 1))[1] // Jan 11 - Jan 20

	idx, ok := DayIndex(p, date(2025, time.January, 11))
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = DayIndex(p, date(2025, time.January, 20))
	assert.True(t, ok)
	assert.Equal(t, 10, idx)

	_, ok = DayIndex(p, date(2025, time.January, 21))
	assert.False(t, ok)
}

func TestView(t *testing.T) {
	periods := Generate(2025, date(2025, time.January, 1))
	today := date(2025, time.February, 3)

	current := View(periods[3], today) // Jan 31 - Feb 9
	assert.Equal(t, types.StatusInProgress, current.Status)
	assert.Equal(t, 4, current.DayOfPeriod)
	assert.Equal(t, 7, current.RemainingDays)
	assert.InDelta(t, 0.4, current.Progress, 1e-9)

	done := View(periods[0], today)
	assert.Equal(t, types.StatusCompleted, done.Status)
	assert.Zero(t, done.DayOfPeriod)

	ahead := View(periods[4], today)
	assert.Equal(t, types.StatusUpcoming, ahead.Status)
	assert.Zero(t, ahead.DayOfPeriod)
}

func TestReached(t *testing.T) {
	tests := []struct {
		name  string
		day   int
		today time.Time
		want  int
	}{
		{"past year", 10, date(2026, time.January, 1), 36},
		{"future year", 1, date(2024, time.December, 31), 0},
		{"before first day", 3, date(2025, time.January, 2), 0},
		{"on first day", 3, date(2025, time.January, 3), 1},
		{"mid year", 5, date(2025, time.February, 3), 3},
		{"day one of period 4", 1, date(2025, time.January, 31), 4},
		{"uncovered tail", 10, date(2025, time.December, 30), 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reached(2025, tt.day, tt.today))
		})
	}
}
