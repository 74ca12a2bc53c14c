package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dekadapp/dekad/internal/compare"
	"github.com/dekadapp/dekad/internal/validation"
)

var (
	compareYear       int
	compareDay        int
	compareToday      string
	compareJSONOutput bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare one day index across the periods of a year",
	Long:  "Show what was recorded on day N of every period of a year, with summary statistics and the overall trend.",
	Args:  cobra.NoArgs,
	RunE:  runCompare,
}

func init() {
	addLocalFlags(compareCmd)
	compareCmd.Flags().IntVar(&compareYear, "year", 0,
		"Year (default: current year)")
	compareCmd.Flags().IntVar(&compareDay, "day", 0,
		"Day index within each period, 1-10")
	compareCmd.Flags().StringVar(&compareToday, "today", "",
		"Reference date YYYY-MM-DD (default: today)")
	compareCmd.Flags().BoolVar(&compareJSONOutput, "json", false,
		"Output in JSON format")
	compareCmd.MarkFlagRequired("day")
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	today, err := parseToday(compareToday)
	if err != nil {
		return err
	}
	year := resolveYear(compareYear, today)
	if verr := validation.ValidateYear("year", year); verr != nil {
		return fmt.Errorf("--year %s", verr.Message)
	}
	if verr := validation.ValidateDayNumber("day", compareDay); verr != nil {
		return fmt.Errorf("--day %s", verr.Message)
	}

	cfg, db, err := openLocalStore()
	if err != nil {
		return err
	}
	defer db.Close()

	obs, err := db.DayObservations(ctx, year, compareDay)
	if err != nil {
		return fmt.Errorf("load observations: %w", err)
	}
	view := compare.DayView(year, compareDay, obs, today, cfg.Comparison)

	if compareJSONOutput {
		return printJSON(cmd.OutOrStdout(), view)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Day %d across the periods of %d\n\n", view.DayIndex, view.Year)

	if len(view.Entries) > 0 {
		w := newTabWriter(out)
		fmt.Fprintln(w, "PERIOD\tRATING\tMOOD\tENERGY\tCOMPLETION\tTREND\tSUMMARY")
		for _, e := range view.Entries {
			summary := e.Summary
			if summary == "" {
				summary = "-"
			}
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d%%\t%s\t%s\n",
				e.PeriodNumber,
				e.Rating,
				e.MoodRating,
				e.EnergyLevel,
				e.CompletionRate,
				trendArrow(e.Trend),
				summary,
			)
		}
		w.Flush()
		fmt.Fprintln(out)
	}

	if view.InsufficientData {
		fmt.Fprintf(out, "Not enough recorded data to compare (%d entries).\n", len(view.Entries))
	} else {
		s := view.Stats
		fmt.Fprintf(out, "Average rating %.1f, mood %.1f, energy %.1f, completion %.0f%%\n",
			s.AverageRating, s.AverageMood, s.AverageEnergy, s.AverageCompletion)
		fmt.Fprintf(out, "Best period %d (%d), worst period %d (%d)\n",
			s.Best.PeriodNumber, s.Best.Rating, s.Worst.PeriodNumber, s.Worst.Rating)
		fmt.Fprintf(out, "Distribution: %d excellent, %d good, %d fair, %d poor\n",
			s.Distribution.Excellent, s.Distribution.Good, s.Distribution.Fair, s.Distribution.Poor)
		fmt.Fprintf(out, "Trend: %s (improvement %.0f%%, consistency %.0f%%)\n",
			view.Trend.Direction, view.Trend.ImprovementRate*100, view.Trend.ConsistencyScore*100)
	}

	if len(view.MissingPeriods) > 0 {
		nums := make([]string, len(view.MissingPeriods))
		for i, n := range view.MissingPeriods {
			nums[i] = fmt.Sprint(n)
		}
		fmt.Fprintf(out, "No data for periods: %s\n", strings.Join(nums, ", "))
	}

	return nil
}

func trendArrow(trend int) string {
	switch {
	case trend > 0:
		return "up"
	case trend < 0:
		return "down"
	default:
		return "-"
	}
}
