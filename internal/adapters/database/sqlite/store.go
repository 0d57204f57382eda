// Package sqlite is the single-file backend. Amounts are stored as decimal text and
// times as fixed-width UTC text so that string order matches time order.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored time %q: %w", s, err)
	}
	return t, nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the SQLite backend.
type Store struct {
	db *sql.DB
}

var _ portsrepo.Store = (*Store)(nil)

// NewStore wraps an open database. See database.NewSQLiteDB.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return newRepositoryProvider(s.db)
}

// WithinTx runs fn in one SQLite transaction. The pool holds a single connection,
// so units of work are serialized.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.RepositoryProvider) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternal, "failed to begin transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "Failed to rollback transaction", "error", rbErr)
		}
	}()

	if err := fn(ctx, newRepositoryProvider(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewAppError(apperrors.ErrInternal, "failed to commit transaction", err)
	}
	return nil
}

// WithinReadTx runs fn in a transaction that is always rolled back. SQLite
// reads inside one transaction all see the same database state.
func (s *Store) WithinReadTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.RepositoryProvider) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrInternal, "failed to begin read transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "Failed to end read transaction", "error", rbErr)
		}
	}()

	return fn(ctx, newRepositoryProvider(tx))
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func newRepositoryProvider(db querier) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     &accountRepository{db: db},
		CategoryRepo:    &categoryRepository{db: db},
		TransactionRepo: &transactionRepository{db: db},
		SettingsRepo:    &settingsRepository{db: db},
	}
}

// wrapError translates driver errors into apperrors kinds.
func wrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return apperrors.NewAppError(apperrors.ErrDuplicate, msg+": already exists", err)
		// ON DELETE RESTRICT is enforced by an internal trigger and reports its own code.
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3.SQLITE_CONSTRAINT_TRIGGER:
			return apperrors.NewAppError(apperrors.ErrValidation, msg+": referenced row does not exist", err)
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return apperrors.NewAppError(apperrors.ErrValidation, msg+": check constraint failed", err)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func expectOneRow(res sql.Result, err error, msg string) error {
	if err != nil {
		return wrapError(err, msg)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
