package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dekadapp/dekad/internal/config"
	"github.com/dekadapp/dekad/internal/store"
)

// dbOverride is the --db flag shared by the offline commands.
var dbOverride string

// addLocalFlags registers the flags every offline command accepts.
func addLocalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&dbOverride, "db", "",
		"Database path (overrides config and DEKAD_DB_PATH)")
}

// openLocalStore loads configuration without requiring an API key and opens
// the store, honouring --db.
func openLocalStore() (*config.Config, *store.SQLiteStore, error) {
	cfg, err := config.LoadLocal()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if dbOverride != "" {
		cfg.Database.Path = dbOverride
	}

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// resolveYear returns year, or the current year when it is zero.
func resolveYear(year int, today time.Time) int {
	if year == 0 {
		return today.Year()
	}
	return year
}

// parseToday parses a --today value, defaulting to the local clock.
func parseToday(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--today must be a date in YYYY-MM-DD format: %w", err)
	}
	return t, nil
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
