package pgsql

import (
	"context"
	"time"

	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
)

type PgxSettingsRepository struct {
	BaseRepository
}

var _ portsrepo.SettingsRepository = (*PgxSettingsRepository)(nil)

func (r *PgxSettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRow(ctx, `SELECT value FROM app_settings WHERE key = $1;`, key).Scan(&value)
	if err != nil {
		return "", wrapError(err, "failed to read setting "+key)
	}
	return value, nil
}

func (r *PgxSettingsRepository) PutSetting(ctx context.Context, key, value string, now time.Time) error {
	query := `
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at;
	`
	_, err := r.db.Exec(ctx, query, key, value, now.UTC())
	return wrapError(err, "failed to store setting "+key)
}

func (r *PgxSettingsRepository) DeleteSetting(ctx context.Context, key string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM app_settings WHERE key = $1;`, key)
	return wrapError(err, "failed to delete setting "+key)
}
