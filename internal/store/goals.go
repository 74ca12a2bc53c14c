package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekadapp/dekad/internal/types"
	"github.com/oklog/ulid/v2"
)

const goalColumns = `id, period_id, content, category, priority, completed, created_at, updated_at`

// AddGoal attaches a new, incomplete goal to a period.
func (s *SQLiteStore) AddGoal(ctx context.Context, periodID string, goal types.NewGoal) (*types.Goal, error) {
	if err := s.requirePeriod(ctx, periodID); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	g := types.Goal{
		ID:        ulid.Make().String(),
		PeriodID:  periodID,
		Content:   goal.Content,
		Category:  goal.Category,
		Priority:  goal.Priority,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
	`, g.ID, g.PeriodID, g.Content, string(g.Category), string(g.Priority), formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	return &g, nil
}

// ListGoals returns the goals of a period, high priority first and in
// creation order within a priority.
func (s *SQLiteStore) ListGoals(ctx context.Context, periodID string) ([]types.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+goalColumns+`
		FROM goals
		WHERE period_id = ?
		ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END,
			created_at ASC, id ASC
	`, periodID)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	goals := []types.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return goals, nil
}

// SetGoalCompleted toggles a goal's completion flag.
func (s *SQLiteStore) SetGoalCompleted(ctx context.Context, id string, completed bool) (*types.Goal, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE goals SET completed = ?, updated_at = ? WHERE id = ?
	`, completed, formatTime(time.Now()), id)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

// DeleteGoal removes a goal.
func (s *SQLiteStore) DeleteGoal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
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

func scanGoal(scanner interface{ Scan(...any) error }) (*types.Goal, error) {
	var g types.Goal
	var category, priority, createdAt, updatedAt string
	err := scanner.Scan(&g.ID, &g.PeriodID, &g.Content, &category, &priority, &g.Completed, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan goal: %w", err)
	}
	g.Category = types.GoalCategory(category)
	g.Priority = types.GoalPriority(priority)
	g.CreatedAt = parseTime(createdAt)
	g.UpdatedAt = parseTime(updatedAt)
	return &g, nil
}

// requirePeriod returns ErrNotFound unless periodID names a stored period.
func (s *SQLiteStore) requirePeriod(ctx context.Context, periodID string) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM periods WHERE id = ?)`, periodID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check period: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}
