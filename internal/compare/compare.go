// Package compare aggregates what was recorded on the same day index across
// the periods of a year.
//
// Everything here is a pure function over the observations it is handed.
// Observations come from stored daily records; nothing is ever synthesised.
package compare

import (
	"math"
	"sort"
	"time"

	"github.com/dekadapp/dekad/internal/period"
	"github.com/dekadapp/dekad/internal/types"
)

const (
	minScore      = 1
	maxScore      = 10
	minCompletion = 10
	maxCompletion = 100

	// minComparable is the fewest entries that carry a trend.
	minComparable = 2
)

// Tuning holds the presentation constants of the comparison view.
type Tuning struct {
	// MoodScale derives a mood rating from the composite rating when no mood
	// was recorded.
	MoodScale float64 `yaml:"mood_scale"`
	// EnergyScale derives an energy level from the composite rating when no
	// energy was recorded.
	EnergyScale float64 `yaml:"energy_scale"`
	// CompletionScale derives a completion percentage from the composite
	// rating when the period has no result.
	CompletionScale float64 `yaml:"completion_scale"`

	// Bucket lower bounds. A rating below FairMin is poor.
	ExcellentMin int `yaml:"excellent_min"`
	GoodMin      int `yaml:"good_min"`
	FairMin      int `yaml:"fair_min"`
}

// DefaultTuning returns the stock scale factors and bucket thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		MoodScale:       0.8,
		EnergyScale:     0.9,
		CompletionScale: 10,
		ExcellentMin:    8,
		GoodMin:         6,
		FairMin:         4,
	}
}

// AggregateDay builds one comparison entry per observation of dayIndex,
// ordered by period number. Observations keyed to another day are skipped.
// The first entry always has trend 0.
func AggregateDay(dayIndex int, observations []types.Observation, tuning Tuning) []types.DayComparisonEntry {
	ordered := forDay(dayIndex, observations)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PeriodNumber < ordered[j].PeriodNumber
	})

	entries := make([]types.DayComparisonEntry, 0, len(ordered))
	for i, obs := range ordered {
		rating := compositeRating(obs)

		entry := types.DayComparisonEntry{
			PeriodNumber:   obs.PeriodNumber,
			Rating:         rating,
			MoodRating:     scoreOrScaled(obs.Mood, rating, tuning.MoodScale),
			EnergyLevel:    scoreOrScaled(obs.Energy, rating, tuning.EnergyScale),
			CompletionRate: completionOrScaled(obs.Completion, rating, tuning.CompletionScale),
			Summary:        obs.Summary,
		}
		if i > 0 {
			entry.Trend = sign(rating - entries[i-1].Rating)
		}
		entries = append(entries, entry)
	}

	return entries
}

// SummaryStats computes averages, best and worst entries and the rating
// distribution. An empty input yields zero values and nil best/worst.
func SummaryStats(entries []types.DayComparisonEntry, tuning Tuning) types.DayStats {
	var stats types.DayStats
	if len(entries) == 0 {
		return stats
	}

	var rating, mood, energy, completion float64
	best, worst := 0, 0
	for i, e := range entries {
		rating += float64(e.Rating)
		mood += float64(e.MoodRating)
		energy += float64(e.EnergyLevel)
		completion += float64(e.CompletionRate)

		if better(e, entries[best]) {
			best = i
		}
		if worse(e, entries[worst]) {
			worst = i
		}

		switch {
		case e.Rating >= tuning.ExcellentMin:
			stats.Distribution.Excellent++
		case e.Rating >= tuning.GoodMin:
			stats.Distribution.Good++
		case e.Rating >= tuning.FairMin:
			stats.Distribution.Fair++
		default:
			stats.Distribution.Poor++
		}
	}

	n := float64(len(entries))
	stats.AverageRating = rating / n
	stats.AverageMood = mood / n
	stats.AverageEnergy = energy / n
	stats.AverageCompletion = completion / n

	b, w := entries[best], entries[worst]
	stats.Best = &b
	stats.Worst = &w
	return stats
}

// TrendAnalysis classifies the overall direction of the per-entry trends.
// Fewer than two entries carry no trend and yield TrendUnknown.
func TrendAnalysis(entries []types.DayComparisonEntry) types.TrendSummary {
	if len(entries) < 2 {
		return types.TrendSummary{Direction: types.TrendUnknown}
	}

	var s types.TrendSummary
	for _, e := range entries {
		switch {
		case e.Trend > 0:
			s.Rising++
		case e.Trend < 0:
			s.Falling++
		default:
			s.Stable++
		}
	}

	switch {
	case s.Rising > s.Falling:
		s.Direction = types.TrendRising
	case s.Falling > s.Rising:
		s.Direction = types.TrendFalling
	default:
		s.Direction = types.TrendStable
	}

	total := float64(len(entries))
	s.ImprovementRate = float64(s.Rising) / total
	s.ConsistencyScore = float64(s.Stable) / total
	return s
}

// MissingPeriods returns the period numbers in 1..upTo that have no
// observation carrying metrics.
func MissingPeriods(observations []types.Observation, upTo int) []int {
	seen := make(map[int]bool, len(observations))
	for _, o := range observations {
		if o.HasMetrics() {
			seen[o.PeriodNumber] = true
		}
	}

	missing := []int{}
	for n := 1; n <= upTo; n++ {
		if !seen[n] {
			missing = append(missing, n)
		}
	}
	return missing
}

// DayView assembles the full comparison of one day index of year as seen on
// today. Periods that have reached the day without recording anything are
// reported as missing rather than filled in.
func DayView(year, dayIndex int, observations []types.Observation, today time.Time, tuning Tuning) types.ComparisonResponse {
	observations = forDay(dayIndex, observations)
	entries := AggregateDay(dayIndex, observations, tuning)
	return types.ComparisonResponse{
		Year:             year,
		DayIndex:         dayIndex,
		InsufficientData: len(entries) < minComparable,
		MissingPeriods:   MissingPeriods(observations, period.Reached(year, dayIndex, today)),
		Entries:          entries,
		Stats:            SummaryStats(entries, tuning),
		Trend:            TrendAnalysis(entries),
	}
}

// forDay copies the observations recorded on dayIndex or not keyed to a day.
func forDay(dayIndex int, observations []types.Observation) []types.Observation {
	out := make([]types.Observation, 0, len(observations))
	for _, o := range observations {
		if o.DayNumber == 0 || o.DayNumber == dayIndex {
			out = append(out, o)
		}
	}
	return out
}

// compositeRating is the rounded mean of the recorded metrics on a 1-10
// scale. Completion contributes a tenth of its percentage.
func compositeRating(o types.Observation) int {
	var sum float64
	var n int
	if o.Mood != nil {
		sum += float64(*o.Mood)
		n++
	}
	if o.Energy != nil {
		sum += float64(*o.Energy)
		n++
	}
	if o.Completion != nil {
		sum += *o.Completion / 10
		n++
	}
	if n == 0 {
		return minScore
	}
	return clamp(int(math.Round(sum/float64(n))), minScore, maxScore)
}

// Derived metrics truncate toward zero before clamping.
func scoreOrScaled(recorded *int, rating int, scale float64) int {
	if recorded != nil {
		return clamp(*recorded, minScore, maxScore)
	}
	return clamp(int(float64(rating)*scale), minScore, maxScore)
}

func completionOrScaled(recorded *float64, rating int, scale float64) int {
	if recorded != nil {
		return clamp(int(math.Round(*recorded)), minCompletion, maxCompletion)
	}
	return clamp(int(float64(rating)*scale), minCompletion, maxCompletion)
}

// better and worse break rating ties toward the lowest period number.
func better(a, b types.DayComparisonEntry) bool {
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	return a.PeriodNumber < b.PeriodNumber
}

func worse(a, b types.DayComparisonEntry) bool {
	if a.Rating != b.Rating {
		return a.Rating < b.Rating
	}
	return a.PeriodNumber < b.PeriodNumber
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
