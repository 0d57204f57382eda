package sqlite

import (
	"context"
	"time"

	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
)

type settingsRepository struct {
	db querier
}

var _ portsrepo.SettingsRepository = (*settingsRepository)(nil)

func (r *settingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	if err := r.db.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE key = ?`, key).Scan(&value); err != nil {
		return "", wrapError(err, "failed to read setting "+key)
	}
	return value, nil
}

func (r *settingsRepository) PutSetting(ctx context.Context, key, value string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO app_settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, formatTime(now))
	return wrapError(err, "failed to store setting "+key)
}

func (r *settingsRepository) DeleteSetting(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM app_settings WHERE key = ?`, key)
	return wrapError(err, "failed to delete setting "+key)
}
