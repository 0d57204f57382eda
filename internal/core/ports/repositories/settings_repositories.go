package repositories

import (
	"context"
	"time"
)

// SettingsRepository is a small key/value table for application state such as stored OAuth tokens.
type SettingsRepository interface {
	// GetSetting returns apperrors.ErrNotFound when the key is absent.
	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string, now time.Time) error
	DeleteSetting(ctx context.Context, key string) error
}
