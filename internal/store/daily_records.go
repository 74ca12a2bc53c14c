package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekadapp/dekad/internal/types"
	"github.com/oklog/ulid/v2"
)

const recordColumns = `id, period_id, day_number, mood, energy, summary, notes, completed_tasks, created_at, updated_at`

// SaveDailyRecord creates or replaces the record for one day of a period.
func (s *SQLiteStore) SaveDailyRecord(ctx context.Context, periodID string, day int, record types.NewDailyRecord) (*types.DailyRecord, error) {
	if day < 1 || day > types.DaysPerPeriod {
		return nil, fmt.Errorf("%w: day %d outside 1..%d", ErrInvalidInput, day, types.DaysPerPeriod)
	}
	if err := s.requirePeriod(ctx, periodID); err != nil {
		return nil, err
	}

	tasks, err := marshalList(record.CompletedTasks)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}

	now := formatTime(time.Now())
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO daily_records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(period_id, day_number) DO UPDATE SET
			mood            = excluded.mood,
			energy          = excluded.energy,
			summary         = excluded.summary,
			notes           = excluded.notes,
			completed_tasks = excluded.completed_tasks,
			updated_at      = excluded.updated_at
	`, ulid.Make().String(), periodID, day,
		nullableInt(record.Mood), nullableInt(record.Energy),
		record.Summary, record.Notes, tasks, now, now)
	if err != nil {
		return nil, fmt.Errorf("upsert daily record: %w", err)
	}

	return s.GetDailyRecord(ctx, periodID, day)
}

// GetDailyRecord returns the record for one day of a period, or ErrNotFound.
func (s *SQLiteStore) GetDailyRecord(ctx context.Context, periodID string, day int) (*types.DailyRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM daily_records
		WHERE period_id = ? AND day_number = ?
	`, periodID, day)

	r, err := scanDailyRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// ListDailyRecords returns the records of a period ordered by day number.
func (s *SQLiteStore) ListDailyRecords(ctx context.Context, periodID string) ([]types.DailyRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM daily_records
		WHERE period_id = ?
		ORDER BY day_number ASC
	`, periodID)
	if err != nil {
		return nil, fmt.Errorf("query daily records: %w", err)
	}
	defer rows.Close()

	records := []types.DailyRecord{}
	for rows.Next() {
		r, err := scanDailyRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily records: %w", err)
	}
	return records, nil
}

// DeleteDailyRecord removes the record for one day of a period, or returns
// ErrNotFound when that day has nothing recorded.
func (s *SQLiteStore) DeleteDailyRecord(ctx context.Context, periodID string, day int) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM daily_records WHERE period_id = ? AND day_number = ?
	`, periodID, day)
	if err != nil {
		return fmt.Errorf("delete daily record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DayObservations joins the daily records for one day index with their
// period results across a year, ordered by period number. Periods with no
// record for that day, or a record without any metric, are omitted.
func (s *SQLiteStore) DayObservations(ctx context.Context, year, day int) ([]types.Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.period_number, d.day_number, d.mood, d.energy, r.completion_rate, d.summary
		FROM daily_records d
		JOIN periods p ON p.id = d.period_id
		LEFT JOIN period_results r ON r.period_id = p.id
		WHERE p.year = ? AND d.day_number = ?
		  AND (d.mood IS NOT NULL OR d.energy IS NOT NULL OR r.completion_rate IS NOT NULL)
		ORDER BY p.period_number ASC
	`, year, day)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	observations := []types.Observation{}
	for rows.Next() {
		var o types.Observation
		var mood, energy sql.NullInt64
		var completion sql.NullFloat64
		if err := rows.Scan(&o.PeriodNumber, &o.DayNumber, &mood, &energy, &completion, &o.Summary); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		o.Mood = intPtr(mood)
		o.Energy = intPtr(energy)
		if completion.Valid {
			c := completion.Float64
			o.Completion = &c
		}
		observations = append(observations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return observations, nil
}

func scanDailyRecord(scanner interface{ Scan(...any) error }) (*types.DailyRecord, error) {
	var r types.DailyRecord
	var mood, energy sql.NullInt64
	var tasks, createdAt, updatedAt string
	err := scanner.Scan(&r.ID, &r.PeriodID, &r.DayNumber, &mood, &energy,
		&r.Summary, &r.Notes, &tasks, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan daily record: %w", err)
	}

	if r.CompletedTasks, err = unmarshalList(tasks); err != nil {
		return nil, fmt.Errorf("parse completed tasks: %w", err)
	}
	r.Mood = intPtr(mood)
	r.Energy = intPtr(energy)
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return &r, nil
}
