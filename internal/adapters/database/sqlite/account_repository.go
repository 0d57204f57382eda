package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/income_expense_tracker/internal/models"
	"github.com/SscSPs/income_expense_tracker/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

type accountRepository struct {
	db querier
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

const accountColumns = `account_id, name, description, kind, icon, balance, is_default, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var m models.Account
	var createdAt, updatedAt string
	err := row.Scan(&m.AccountID, &m.Name, &m.Description, &m.Kind, &m.Icon, &m.Balance, &m.IsDefault, &createdAt, &updatedAt)
	if err != nil {
		return domain.Account{}, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Account{}, err
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func (r *accountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(err, "failed to query accounts")
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	acc, err := scanAccount(r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ?`, accountID))
	if err != nil {
		return nil, wrapError(err, "failed to find account by ID "+accountID)
	}
	return &acc, nil
}

// FindAccountByName relies on the NOCASE collation of accounts.name.
func (r *accountRepository) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	acc, err := scanAccount(r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE name = ?`, name))
	if err != nil {
		return nil, wrapError(err, "failed to find account by name")
	}
	return &acc, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return r.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY name, account_id`)
}

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (account_id, name, description, kind, icon, balance, is_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.AccountID, m.Name, m.Description, m.Kind, m.Icon, m.Balance.String(), m.IsDefault,
		formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
	)
	return wrapError(err, "failed to save account "+account.AccountID)
}

func (r *accountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET name = ?, description = ?, kind = ?, icon = ?, updated_at = ?
		WHERE account_id = ?`,
		m.Name, m.Description, m.Kind, m.Icon, formatTime(m.UpdatedAt), m.AccountID,
	)
	return expectOneRow(res, err, "failed to update account "+account.AccountID)
}

func (r *accountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE account_id = ?`, accountID)
	return expectOneRow(res, err, "failed to delete account "+accountID)
}

func (r *accountRepository) DeleteAllAccounts(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM accounts`)
	return wrapError(err, "failed to delete accounts")
}

// FindAccountsByIDsForUpdate is a plain read; the single-connection pool already
// serializes units of work.
func (r *accountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(accountIDs)), ",")
	args := make([]any, len(accountIDs))
	for i, id := range accountIDs {
		args[i] = id
	}
	accounts, err := r.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		result[acc.AccountID] = acc
	}
	return result, nil
}

// UpdateAccountBalances reads, adds and writes each balance in Go so the decimal
// text never passes through SQLite's floating point arithmetic.
func (r *accountRepository) UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	for accountID, delta := range balanceChanges {
		if delta.IsZero() {
			continue
		}
		var balance decimal.Decimal
		err := r.db.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE account_id = ?`, accountID).Scan(&balance)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountID)
		}
		if err != nil {
			return wrapError(err, "failed to read balance for account "+accountID)
		}
		_, err = r.db.ExecContext(ctx, `UPDATE accounts SET balance = ?, updated_at = ? WHERE account_id = ?`,
			balance.Add(delta).String(), formatTime(now), accountID)
		if err != nil {
			return wrapError(err, "failed to update balance for account "+accountID)
		}
	}
	return nil
}
