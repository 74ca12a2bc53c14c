package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dekadapp/dekad/internal/types"
)

const (
	settingNotifications = "notifications_enabled"
	settingReminderTime  = "reminder_time"
	settingBackup        = "backup_enabled"
	settingTheme         = "theme"
)

// GetSettings returns the saved preferences layered over the defaults.
func (s *SQLiteStore) GetSettings(ctx context.Context) (*types.Settings, error) {
	settings := types.DefaultSettings()

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		switch key {
		case settingNotifications:
			settings.NotificationsEnabled, _ = strconv.ParseBool(value)
		case settingReminderTime:
			settings.ReminderTime = value
		case settingBackup:
			settings.BackupEnabled, _ = strconv.ParseBool(value)
		case settingTheme:
			settings.Theme = types.Theme(value)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return &settings, nil
}

// UpdateSettings replaces every saved preference.
func (s *SQLiteStore) UpdateSettings(ctx context.Context, settings types.Settings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	values := map[string]string{
		settingNotifications: strconv.FormatBool(settings.NotificationsEnabled),
		settingReminderTime:  settings.ReminderTime,
		settingBackup:        strconv.FormatBool(settings.BackupEnabled),
		settingTheme:         string(settings.Theme),
	}
	for key, value := range values {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value)
		if err != nil {
			return fmt.Errorf("save setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
