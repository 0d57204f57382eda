package pgsql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL backend.
type Store struct {
	Pool *pgxpool.Pool
}

var _ portsrepo.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return newRepositoryProvider(s.Pool)
}

// WithinTx runs fn in a read-committed transaction. Row locks taken with
// FOR UPDATE inside fn are held until commit or rollback.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.RepositoryProvider) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternal, "failed to begin transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "Failed to rollback transaction", "error", rbErr)
		}
	}()

	if err := fn(ctx, newRepositoryProvider(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(apperrors.ErrInternal, "failed to commit transaction", err)
	}
	return nil
}

// WithinReadTx runs fn in a read-only repeatable-read transaction, so every
// query sees the same snapshot. It always rolls back.
func (s *Store) WithinReadTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.RepositoryProvider) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternal, "failed to begin read transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "Failed to end read transaction", "error", rbErr)
		}
	}()

	return fn(ctx, newRepositoryProvider(tx))
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.Pool.Close()
	return nil
}

func newRepositoryProvider(db querier) portsrepo.RepositoryProvider {
	base := BaseRepository{db: db}
	return portsrepo.RepositoryProvider{
		AccountRepo:     &PgxAccountRepository{BaseRepository: base},
		CategoryRepo:    &PgxCategoryRepository{BaseRepository: base},
		TransactionRepo: &PgxTransactionRepository{BaseRepository: base},
		SettingsRepo:    &PgxSettingsRepository{BaseRepository: base},
	}
}
