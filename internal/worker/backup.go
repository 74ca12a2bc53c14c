package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/dekadapp/dekad/internal/backup"
	"github.com/dekadapp/dekad/internal/types"
)

// BackupStore defines the store operations needed by the backup worker.
type BackupStore interface {
	backup.Source
	GetSettings(ctx context.Context) (*types.Settings, error)
}

// BackupWorker takes periodic snapshots while backups are enabled in the
// user's settings.
type BackupWorker struct {
	store    BackupStore
	uploader backup.Uploader
	dir      string
	interval time.Duration
	now      func() time.Time
}

// NewBackupWorker creates a backup worker. The uploader may be nil, in which
// case snapshots stay local.
func NewBackupWorker(store BackupStore, uploader backup.Uploader, dir string, interval time.Duration) *BackupWorker {
	return &BackupWorker{
		store:    store,
		uploader: uploader,
		dir:      dir,
		interval: interval,
		now:      time.Now,
	}
}

// Run starts the worker loop. Blocks until ctx is cancelled.
// Does NOT run immediately on start.
func (w *BackupWorker) Run(ctx context.Context) {
	slog.Info("worker started",
		"component", "worker",
		"worker", "backup",
		"interval", w.interval.String(),
		"dir", w.dir,
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "worker",
				"worker", "backup",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			w.runBackup(ctx)
		}
	}
}

// runBackup executes a single backup cycle.
func (w *BackupWorker) runBackup(ctx context.Context) {
	settings, err := w.store.GetSettings(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("read settings failed",
			"component", "worker",
			"action", "backup_failed",
			"error", err,
		)
		return
	}
	if !settings.BackupEnabled {
		slog.Debug("backups disabled",
			"component", "worker",
			"action", "backup_skip",
		)
		return
	}

	start := w.now()
	res, err := backup.Take(ctx, w.store, w.uploader, w.dir, start)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Warn("backup failed",
			"component", "worker",
			"action", "backup_failed",
			"error", err,
		)
		return
	}

	slog.Info("backup completed",
		"component", "worker",
		"action", "backup_complete",
		"path", res.Path,
		"uploaded", res.Uploaded,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
