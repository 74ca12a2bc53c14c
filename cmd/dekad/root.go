package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dekadapp/dekad/internal/api"
	"github.com/dekadapp/dekad/internal/backup"
	"github.com/dekadapp/dekad/internal/config"
	"github.com/dekadapp/dekad/internal/store"
	"github.com/dekadapp/dekad/internal/worker"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:          "dekad",
	Short:        "Dekad - ten-day period planner",
	Long:         "Dekad splits each year into 36 ten-day periods and compares what was recorded on the same day of every period.",
	SilenceUsage: true,
	RunE:         run,
	Version:      Version,
}

func init() {
	rootCmd.AddCommand(periodsCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(backupCmd)
}

// app is the assembled server: store, HTTP server and background workers.
type app struct {
	store           *store.SQLiteStore
	server          *http.Server
	workers         map[string]func(ctx context.Context)
	shutdownTimeout time.Duration
}

func run(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(os.Stdout, cfg.Log)
	slog.SetDefault(logger)
	slog.Info("configuration loaded", "level", cfg.Log.Level, "format", cfg.Log.Format)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		a.store.Close()
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}
	return a.serve(ctx, ln)
}

// newApp opens the store and wires the uploader, router and workers.
func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	slog.Info("store initialized", "path", cfg.Database.Path)

	// Local-only backups without a bucket.
	uploader, err := backup.NewUploader(cfg.Backup, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("uploader initialized", "bucket", cfg.Backup.Bucket, "dir", cfg.Backup.Dir)

	handler := api.NewHandler(db, cfg.Comparison, cfg.Auth.APIKey, Version)

	seed := worker.NewPeriodSeedWorker(db, time.Duration(cfg.Worker.SeedInterval))
	snapshots := worker.NewBackupWorker(db, uploader, cfg.Backup.Dir, time.Duration(cfg.Worker.BackupInterval))

	return &app{
		store: db,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      api.NewRouter(handler),
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
		},
		workers: map[string]func(ctx context.Context){
			"period-seed": seed.Run,
			"backup":      snapshots.Run,
		},
		shutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout),
	}, nil
}

// serve runs the workers and the HTTP server on ln until ctx is cancelled or
// the server fails, then shuts down in order: server, workers, store.
func (a *app) serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for name, fn := range a.workers {
		startWorker(ctx, &wg, name, fn)
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "address", ln.Addr().String())
		if err := a.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			serveErr <- err
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer shutdownCancel()

	// Drain in-flight requests before the workers and the store go away.
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	cancel()
	wg.Wait()

	if err := a.store.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}
	slog.Info("shutdown complete")

	select {
	case err := <-serveErr:
		return err
	default:
		return nil
	}
}

// newLogger builds the process logger from the log settings.
// Any format other than "text" logs JSON.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// startWorker launches a background worker goroutine that respects context cancellation.
// Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}
