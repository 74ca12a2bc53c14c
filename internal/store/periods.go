package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekadapp/dekad/internal/types"
	"github.com/oklog/ulid/v2"
)

// CreatePeriods stores the full set of periods for year in one transaction.
// It returns ErrPeriodsExist when the year has already been seeded; existing
// rows are never overwritten.
func (s *SQLiteStore) CreatePeriods(ctx context.Context, year int, periods []types.Period) error {
	if len(periods) != types.PeriodsPerYear {
		return fmt.Errorf("%w: expected %d periods, got %d", ErrInvalidInput, types.PeriodsPerYear, len(periods))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM periods WHERE year = ?`, year).Scan(&existing); err != nil {
		return fmt.Errorf("count periods: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("%w: %d", ErrPeriodsExist, year)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO periods (id, year, period_number, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	now := formatTime(time.Now())
	for _, p := range periods {
		if p.Year != year {
			return fmt.Errorf("%w: period %d belongs to %d, not %d", ErrInvalidInput, p.Number, p.Year, year)
		}
		_, err := stmt.ExecContext(ctx,
			ulid.Make().String(),
			year,
			p.Number,
			p.StartDate.Format(dateLayout),
			p.EndDate.Format(dateLayout),
			now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %d", ErrPeriodsExist, year)
			}
			return fmt.Errorf("insert period %d: %w", p.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// HasPeriods reports whether any period exists for year.
func (s *SQLiteStore) HasPeriods(ctx context.Context, year int) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM periods WHERE year = ?)`, year).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check periods: %w", err)
	}
	return exists, nil
}

// DeleteYear removes every period of year together with its goals, results
// and daily records. It returns the number of periods removed.
func (s *SQLiteStore) DeleteYear(ctx context.Context, year int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM periods WHERE year = ?`, year)
	if err != nil {
		return 0, fmt.Errorf("delete periods: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// ListPeriods returns the periods of year ordered by period number.
// Status is left empty.
func (s *SQLiteStore) ListPeriods(ctx context.Context, year int) ([]types.Period, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, year, period_number, start_date, end_date
		FROM periods
		WHERE year = ?
		ORDER BY period_number ASC
	`, year)
	if err != nil {
		return nil, fmt.Errorf("query periods: %w", err)
	}
	defer rows.Close()

	periods := []types.Period{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate periods: %w", err)
	}
	return periods, nil
}

// GetPeriod returns one period of year by number.
func (s *SQLiteStore) GetPeriod(ctx context.Context, year, number int) (*types.Period, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, year, period_number, start_date, end_date
		FROM periods
		WHERE year = ? AND period_number = ?
	`, year, number)

	p, err := scanPeriod(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanPeriod(scanner interface{ Scan(...any) error }) (*types.Period, error) {
	var p types.Period
	var start, end string
	if err := scanner.Scan(&p.ID, &p.Year, &p.Number, &start, &end); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan period: %w", err)
	}

	var err error
	if p.StartDate, err = time.Parse(dateLayout, start); err != nil {
		return nil, fmt.Errorf("parse start date %q: %w", start, err)
	}
	if p.EndDate, err = time.Parse(dateLayout, end); err != nil {
		return nil, fmt.Errorf("parse end date %q: %w", end, err)
	}
	return &p, nil
}
