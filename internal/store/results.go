package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekadapp/dekad/internal/types"
	"github.com/oklog/ulid/v2"
)

const resultColumns = `id, period_id, completion_rate, achievements, challenges, lessons, next_steps, rating, created_at, updated_at`

// SaveResult creates or replaces the retrospective of a period.
func (s *SQLiteStore) SaveResult(ctx context.Context, periodID string, result types.NewResult) (*types.Result, error) {
	if err := s.requirePeriod(ctx, periodID); err != nil {
		return nil, err
	}

	lists := make([]string, 0, 4)
	for _, items := range [][]string{result.Achievements, result.Challenges, result.Lessons, result.NextSteps} {
		encoded, err := marshalList(items)
		if err != nil {
			return nil, fmt.Errorf("marshal result list: %w", err)
		}
		lists = append(lists, encoded)
	}

	now := formatTime(time.Now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO period_results (`+resultColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(period_id) DO UPDATE SET
			completion_rate = excluded.completion_rate,
			achievements    = excluded.achievements,
			challenges      = excluded.challenges,
			lessons         = excluded.lessons,
			next_steps      = excluded.next_steps,
			rating          = excluded.rating,
			updated_at      = excluded.updated_at
	`, ulid.Make().String(), periodID, result.CompletionRate,
		lists[0], lists[1], lists[2], lists[3],
		nullableInt(result.Rating), now, now)
	if err != nil {
		return nil, fmt.Errorf("upsert result: %w", err)
	}

	return s.GetResult(ctx, periodID)
}

// GetResult returns the retrospective of a period, or ErrNotFound.
func (s *SQLiteStore) GetResult(ctx context.Context, periodID string) (*types.Result, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM period_results WHERE period_id = ?`, periodID)

	var r types.Result
	var achievements, challenges, lessons, nextSteps, createdAt, updatedAt string
	var rating sql.NullInt64
	err := row.Scan(&r.ID, &r.PeriodID, &r.CompletionRate,
		&achievements, &challenges, &lessons, &nextSteps,
		&rating, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan result: %w", err)
	}

	for _, f := range []struct {
		dst *[]string
		src string
	}{
		{&r.Achievements, achievements},
		{&r.Challenges, challenges},
		{&r.Lessons, lessons},
		{&r.NextSteps, nextSteps},
	} {
		items, err := unmarshalList(f.src)
		if err != nil {
			return nil, fmt.Errorf("parse result list: %w", err)
		}
		*f.dst = items
	}

	r.Rating = intPtr(rating)
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return &r, nil
}
