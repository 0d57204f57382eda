package memory

import (
	"context"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
)

type settingsRepository struct {
	b *binding
}

var _ portsrepo.SettingsRepository = (*settingsRepository)(nil)

func (r *settingsRepository) GetSetting(_ context.Context, key string) (string, error) {
	var value string
	err := r.b.read(func(st *state) error {
		v, ok := st.settings[key]
		if !ok {
			return apperrors.ErrNotFound
		}
		value = v
		return nil
	})
	return value, err
}

func (r *settingsRepository) PutSetting(_ context.Context, key, value string, _ time.Time) error {
	return r.b.write(func(st *state) error {
		st.settings[key] = value
		return nil
	})
}

func (r *settingsRepository) DeleteSetting(_ context.Context, key string) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.settings[key]; !ok {
			return apperrors.ErrNotFound
		}
		delete(st.settings, key)
		return nil
	})
}
