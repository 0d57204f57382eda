package pgsql

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: apperrors.ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: codeUniqueViolation}, want: apperrors.ErrDuplicate},
		{name: "foreign key violation", err: &pgconn.PgError{Code: codeForeignKeyViolation}, want: apperrors.ErrValidation},
		{name: "check violation", err: &pgconn.PgError{Code: codeCheckViolation, ConstraintName: "transactions_amount_check"}, want: apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, wrapError(tt.err, "op"), tt.want)
		})
	}

	t.Run("other errors are wrapped", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := wrapError(cause, "op")
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	})

	assert.NoError(t, wrapError(nil, "op"))
}

func TestWhereClause(t *testing.T) {
	expense := domain.TransactionKindExpense
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	where, args := whereClause(&expense, "50%_off", &from, &to)
	assert.Equal(t, ` WHERE t.kind = $1 AND t.category ILIKE '%' || $2 || '%' AND t.txn_date >= $3 AND t.txn_date <= $4`, where)
	assert.Equal(t, []any{"Expense", `50\%\_off`, from, to}, args)

	where, args = whereClause(nil, "", nil, nil)
	assert.Empty(t, where)
	assert.Empty(t, args)
}
