package store

import (
	"context"
	"time"

	"github.com/dekadapp/dekad/internal/types"
)

// mockStore is a compile-time check that the Store interface can be implemented.
type mockStore struct{}

var _ Store = (*mockStore)(nil)
var _ Store = (*SQLiteStore)(nil)

func (m *mockStore) CreatePeriods(ctx context.Context, year int, periods []types.Period) error {
	return nil
}
func (m *mockStore) HasPeriods(ctx context.Context, year int) (bool, error) {
	return false, nil
}
func (m *mockStore) DeleteYear(ctx context.Context, year int) (int64, error) {
	return 0, nil
}
func (m *mockStore) ListPeriods(ctx context.Context, year int) ([]types.Period, error) {
	return nil, nil
}
func (m *mockStore) GetPeriod(ctx context.Context, year, number int) (*types.Period, error) {
	return nil, nil
}
func (m *mockStore) AddGoal(ctx context.Context, periodID string, goal types.NewGoal) (*types.Goal, error) {
	return nil, nil
}
func (m *mockStore) ListGoals(ctx context.Context, periodID string) ([]types.Goal, error) {
	return nil, nil
}
func (m *mockStore) SetGoalCompleted(ctx context.Context, id string, completed bool) (*types.Goal, error) {
	return nil, nil
}
func (m *mockStore) DeleteGoal(ctx context.Context, id string) error {
	return nil
}
func (m *mockStore) SaveResult(ctx context.Context, periodID string, result types.NewResult) (*types.Result, error) {
	return nil, nil
}
func (m *mockStore) GetResult(ctx context.Context, periodID string) (*types.Result, error) {
	return nil, nil
}
func (m *mockStore) SaveDailyRecord(ctx context.Context, periodID string, day int, record types.NewDailyRecord) (*types.DailyRecord, error) {
	return nil, nil
}
func (m *mockStore) GetDailyRecord(ctx context.Context, periodID string, day int) (*types.DailyRecord, error) {
	return nil, nil
}
func (m *mockStore) ListDailyRecords(ctx context.Context, periodID string) ([]types.DailyRecord, error) {
	return nil, nil
}
func (m *mockStore) DeleteDailyRecord(ctx context.Context, periodID string, day int) error {
	return nil
}
func (m *mockStore) DayObservations(ctx context.Context, year, day int) ([]types.Observation, error) {
	return nil, nil
}
func (m *mockStore) GetSettings(ctx context.Context) (*types.Settings, error) {
	return nil, nil
}
func (m *mockStore) UpdateSettings(ctx context.Context, settings types.Settings) error {
	return nil
}
func (m *mockStore) GetStats(ctx context.Context) (*types.StoreStats, error) {
	return nil, nil
}
func (m *mockStore) GenerateBackup(ctx context.Context, path string) error {
	return nil
}
func (m *mockStore) RecordBackup(ctx context.Context, at time.Time) error {
	return nil
}
func (m *mockStore) Close() error {
	return nil
}
