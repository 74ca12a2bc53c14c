package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dekadapp/dekad/internal/period"
	"github.com/dekadapp/dekad/internal/store"
	"github.com/dekadapp/dekad/internal/types"
)

// SeedStore defines the store operations needed by the seeding worker.
type SeedStore interface {
	HasPeriods(ctx context.Context, year int) (bool, error)
	CreatePeriods(ctx context.Context, year int, periods []types.Period) error
}

// PeriodSeedWorker makes sure the current year's periods exist.
type PeriodSeedWorker struct {
	store    SeedStore
	interval time.Duration
	now      func() time.Time
}

// NewPeriodSeedWorker creates a worker with the given store and interval.
func NewPeriodSeedWorker(store SeedStore, interval time.Duration) *PeriodSeedWorker {
	return &PeriodSeedWorker{
		store:    store,
		interval: interval,
		now:      time.Now,
	}
}

// Run starts the worker loop. Seeds immediately on start, then on each
// interval, so a year rollover is picked up without a restart.
// Blocks until ctx is cancelled.
func (w *PeriodSeedWorker) Run(ctx context.Context) {
	slog.Info("worker started",
		"component", "worker",
		"worker", "period-seed",
		"interval", w.interval.String(),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.seed(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "worker",
				"worker", "period-seed",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			w.seed(ctx)
		}
	}
}

// seed generates and stores the current year's periods when missing.
func (w *PeriodSeedWorker) seed(ctx context.Context) {
	today := w.now()
	year := today.Year()

	has, err := w.store.HasPeriods(ctx, year)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("period check failed",
			"component", "worker",
			"action", "seed_check_failed",
			"year", year,
			"error", err,
		)
		return
	}
	if has {
		slog.Debug("periods already seeded",
			"component", "worker",
			"action", "seed_skip",
			"year", year,
		)
		return
	}

	err = w.store.CreatePeriods(ctx, year, period.Generate(year, today))
	switch {
	case err == nil:
		slog.Info("periods seeded",
			"component", "worker",
			"action", "seed_complete",
			"year", year,
			"count", types.PeriodsPerYear,
		)
	case errors.Is(err, store.ErrPeriodsExist):
		// Another writer seeded the year first.
		slog.Debug("periods already seeded",
			"component", "worker",
			"action", "seed_skip",
			"year", year,
		)
	case ctx.Err() != nil:
	default:
		slog.Error("period seeding failed",
			"component", "worker",
			"action", "seed_failed",
			"year", year,
			"error", err,
		)
	}
}
