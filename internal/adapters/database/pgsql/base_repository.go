package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so a repository can run
// on its own or inside a unit of work without knowing which.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db querier
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// wrapError translates driver errors into apperrors kinds.
func wrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return apperrors.NewAppError(apperrors.ErrDuplicate, msg+": already exists", err)
		case codeForeignKeyViolation:
			return apperrors.NewAppError(apperrors.ErrValidation, msg+": referenced row does not exist", err)
		case codeCheckViolation:
			return apperrors.NewAppError(apperrors.ErrValidation, msg+": "+pgErr.ConstraintName, err)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// expectOneRow turns an UPDATE/DELETE that matched nothing into ErrNotFound.
func expectOneRow(tag pgconn.CommandTag, err error, msg string) error {
	if err != nil {
		return wrapError(err, msg)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
