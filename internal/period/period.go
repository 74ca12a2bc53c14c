// Package period partitions a calendar year into 36 ten-day periods and
// derives each period's lifecycle state from a reference day.
//
// The grid is fixed: period 1 starts on January 1 and period 36 ends on day
// 360 of the year. The remaining five or six days of every year belong to no
// period.
//
// All functions are pure and safe for concurrent use. Callers supply "today"
// so results never depend on the system clock.
package period

import (
	"math"
	"time"

	"github.com/dekadapp/dekad/internal/types"
)

// lastDayOffset is the distance from a period's start to its end date.
const lastDayOffset = types.DaysPerPeriod - 1

// Date truncates t to its calendar date, expressed as midnight UTC.
// The year, month and day are taken in t's own location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Generate returns the 36 periods of year in period-number order, each tagged
// with its status relative to today.
func Generate(year int, today time.Time) []types.Period {
	periods := make([]types.Period, 0, types.PeriodsPerYear)

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for n := 1; n <= types.PeriodsPerYear; n++ {
		end := start.AddDate(0, 0, lastDayOffset)
		p := types.Period{
			Year:      year,
			Number:    n,
			StartDate: start,
			EndDate:   end,
		}
		p.Status = StatusAt(p, today)
		periods = append(periods, p)
		start = end.AddDate(0, 0, 1)
	}

	return periods
}

// StatusAt derives the lifecycle status of p on the given day.
func StatusAt(p types.Period, today time.Time) types.PeriodStatus {
	day := Date(today)
	switch {
	case day.Before(Date(p.StartDate)):
		return types.StatusUpcoming
	case day.After(Date(p.EndDate)):
		return types.StatusCompleted
	default:
		return types.StatusInProgress
	}
}

// WithStatus returns a copy of periods with Status recomputed for today.
func WithStatus(periods []types.Period, today time.Time) []types.Period {
	out := make([]types.Period, len(periods))
	for i, p := range periods {
		p.Status = StatusAt(p, today)
		out[i] = p
	}
	return out
}

// ProgressFraction returns how far today is through p, in [0, 1].
// Both the elapsed and total day counts include their boundary days.
func ProgressFraction(p types.Period, today time.Time) float64 {
	day := Date(today)
	start, end := Date(p.StartDate), Date(p.EndDate)

	if day.Before(start) {
		return 0
	}
	if day.After(end) {
		return 1
	}

	elapsed := daysBetween(start, day) + 1
	total := daysBetween(start, end) + 1
	return float64(elapsed) / float64(total)
}

// RemainingDays returns the inclusive number of days from today to the end of p.
// It is 0 once p has ended.
func RemainingDays(p types.Period, today time.Time) int {
	day := Date(today)
	end := Date(p.EndDate)

	if day.After(end) {
		return 0
	}
	return daysBetween(day, end) + 1
}

// Locate returns the number of the period containing date.
// ok is false for the uncovered days at the end of the year.
func Locate(date time.Time) (number int, ok bool) {
	day := Date(date)
	jan1 := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	n := daysBetween(jan1, day)/types.DaysPerPeriod + 1
	if n > types.PeriodsPerYear {
		return 0, false
	}
	return n, true
}

// DayIndex returns the 1-based day of p that date falls on.
// ok is false when date lies outside p.
func DayIndex(p types.Period, date time.Time) (index int, ok bool) {
	day := Date(date)
	start, end := Date(p.StartDate), Date(p.EndDate)
	if day.Before(start) || day.After(end) {
		return 0, false
	}
	return daysBetween(start, day) + 1, true
}

// View derives the status and progress of p as seen on today.
func View(p types.Period, today time.Time) types.PeriodView {
	p.Status = StatusAt(p, today)
	day, _ := DayIndex(p, today)
	return types.PeriodView{
		Period:        p,
		Progress:      ProgressFraction(p, today),
		RemainingDays: RemainingDays(p, today),
		DayOfPeriod:   day,
	}
}

// daysBetween counts whole days from a to b. Both must be UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// Reached returns how many periods of year have reached their dayIndex-th day
// by today. It is 0 for a future year and 36 for a past one.
func Reached(year, dayIndex int, today time.Time) int {
	day := Date(today)
	offset := dayIndex - 1
	n := 0
	for _, p := range Generate(year, day) {
		if day.Before(p.StartDate.AddDate(0, 0, offset)) {
			break
		}
		n++
	}
	return n
}
