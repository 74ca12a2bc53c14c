package store

import (
	"context"
	"time"

	"github.com/dekadapp/dekad/internal/types"
)

// Store defines the interface contract for all planner storage operations.
// Periods are stored without status; status is derived by callers.
type Store interface {
	CreatePeriods(ctx context.Context, year int, periods []types.Period) error
	HasPeriods(ctx context.Context, year int) (bool, error)
	DeleteYear(ctx context.Context, year int) (int64, error)
	ListPeriods(ctx context.Context, year int) ([]types.Period, error)
	GetPeriod(ctx context.Context, year, number int) (*types.Period, error)

	AddGoal(ctx context.Context, periodID string, goal types.NewGoal) (*types.Goal, error)
	ListGoals(ctx context.Context, periodID string) ([]types.Goal, error)
	SetGoalCompleted(ctx context.Context, id string, completed bool) (*types.Goal, error)
	DeleteGoal(ctx context.Context, id string) error

	SaveResult(ctx context.Context, periodID string, result types.NewResult) (*types.Result, error)
	GetResult(ctx context.Context, periodID string) (*types.Result, error)

	SaveDailyRecord(ctx context.Context, periodID string, day int, record types.NewDailyRecord) (*types.DailyRecord, error)
	GetDailyRecord(ctx context.Context, periodID string, day int) (*types.DailyRecord, error)
	ListDailyRecords(ctx context.Context, periodID string) ([]types.DailyRecord, error)
	DeleteDailyRecord(ctx context.Context, periodID string, day int) error
	DayObservations(ctx context.Context, year, day int) ([]types.Observation, error)

	GetSettings(ctx context.Context) (*types.Settings, error)
	UpdateSettings(ctx context.Context, settings types.Settings) error

	GetStats(ctx context.Context) (*types.StoreStats, error)
	GenerateBackup(ctx context.Context, path string) error
	RecordBackup(ctx context.Context, at time.Time) error
	Close() error
}
