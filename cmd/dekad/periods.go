package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dekadapp/dekad/internal/period"
	"github.com/dekadapp/dekad/internal/store"
	"github.com/dekadapp/dekad/internal/types"
)

var (
	periodsYear        int
	periodsToday       string
	periodsJSONOutput  bool
	periodsIfNotExists bool
	periodsForce       bool
)

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "Manage the periods of a year",
	Long:  "Generate and list the 36 ten-day periods of a year without running the server.",
}

var periodsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the periods of a year",
	Args:  cobra.NoArgs,
	RunE:  runPeriodsGenerate,
}

var periodsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the periods of a year with their status",
	Args:  cobra.NoArgs,
	RunE:  runPeriodsList,
}

func init() {
	addLocalFlags(periodsCmd)
	periodsCmd.PersistentFlags().IntVar(&periodsYear, "year", 0,
		"Year (default: current year)")
	periodsCmd.PersistentFlags().StringVar(&periodsToday, "today", "",
		"Reference date YYYY-MM-DD (default: today)")
	periodsCmd.PersistentFlags().BoolVar(&periodsJSONOutput, "json", false,
		"Output in JSON format")

	periodsGenerateCmd.Flags().BoolVar(&periodsIfNotExists, "if-not-exists", false,
		"Exit 0 if the year has already been generated")
	periodsGenerateCmd.Flags().BoolVar(&periodsForce, "force", false,
		"Delete the year and everything recorded in it before generating")

	periodsCmd.AddCommand(periodsGenerateCmd)
	periodsCmd.AddCommand(periodsListCmd)
}

func runPeriodsGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	today, err := parseToday(periodsToday)
	if err != nil {
		return err
	}
	year := resolveYear(periodsYear, today)

	_, db, err := openLocalStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if periodsForce {
		n, err := db.DeleteYear(ctx, year)
		if err != nil {
			return fmt.Errorf("delete year %d: %w", year, err)
		}
		if n > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %d periods of %d\n", n, year)
		}
	}

	if err := db.CreatePeriods(ctx, year, period.Generate(year, today)); err != nil {
		if errors.Is(err, store.ErrPeriodsExist) && periodsIfNotExists {
			fmt.Fprintf(cmd.ErrOrStderr(), "Periods for %d already exist\n", year)
			return nil
		}
		if errors.Is(err, store.ErrPeriodsExist) {
			return fmt.Errorf("periods for %d already exist (use --if-not-exists or --force)", year)
		}
		return err
	}

	if periodsJSONOutput {
		stored, err := db.ListPeriods(ctx, year)
		if err != nil {
			return fmt.Errorf("list periods: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"year":    year,
			"periods": period.WithStatus(stored, today),
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d periods for %d\n", types.PeriodsPerYear, year)
	return nil
}

func runPeriodsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	today, err := parseToday(periodsToday)
	if err != nil {
		return err
	}
	year := resolveYear(periodsYear, today)

	_, db, err := openLocalStore()
	if err != nil {
		return err
	}
	defer db.Close()

	stored, err := db.ListPeriods(ctx, year)
	if err != nil {
		return fmt.Errorf("list periods: %w", err)
	}
	if len(stored) == 0 {
		return fmt.Errorf("periods for %d have not been generated (run: dekad periods generate --year %d)", year, year)
	}

	views := make([]types.PeriodView, len(stored))
	for i, p := range stored {
		views[i] = period.View(p, today)
	}

	if periodsJSONOutput {
		return printJSON(cmd.OutOrStdout(), types.PeriodListResponse{
			Year:    year,
			Today:   period.Date(today).Format("2006-01-02"),
			Periods: views,
		})
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "PERIOD\tSTART\tEND\tSTATUS\tDAY\tPROGRESS\tREMAINING")
	for _, v := range views {
		day := "-"
		if v.DayOfPeriod > 0 {
			day = strconv.Itoa(v.DayOfPeriod)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%3.0f%%\t%d\n",
			v.Number,
			v.StartDate.Format("Jan 02"),
			v.EndDate.Format("Jan 02"),
			v.Status,
			day,
			v.Progress*100,
			v.RemainingDays,
		)
	}
	w.Flush()

	return nil
}
