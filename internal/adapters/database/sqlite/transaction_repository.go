package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/income_expense_tracker/internal/models"
	"github.com/SscSPs/income_expense_tracker/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

type transactionRepository struct {
	db querier
}

var _ portsrepo.TransactionRepositoryFacade = (*transactionRepository)(nil)

const transactionColumns = `t.transaction_id, t.description, t.amount, t.kind, t.category, t.account_id, t.txn_date, t.notes, t.created_at, t.updated_at`

const newestFirst = ` ORDER BY t.txn_date DESC, t.created_at DESC, t.transaction_id DESC`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// scanTransaction reads the transaction columns plus any extra destinations.
func scanTransaction(row rowScanner, extra ...any) (models.Transaction, error) {
	var m models.Transaction
	var txnDate, createdAt, updatedAt string
	dest := append([]any{
		&m.TransactionID, &m.Description, &m.Amount, &m.Kind, &m.Category, &m.AccountID,
		&txnDate, &m.Notes, &createdAt, &updatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return m, err
	}
	var err error
	if m.TxnDate, err = parseTime(txnDate); err != nil {
		return m, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return m, err
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return m, err
	}
	return m, nil
}

func scanDetail(row rowScanner) (domain.TransactionDetail, error) {
	var name, icon string
	m, err := scanTransaction(row, &name, &icon)
	if err != nil {
		return domain.TransactionDetail{}, err
	}
	return mapping.ToDomainTransactionDetail(models.TransactionWithAccount{Transaction: m, AccountName: name, AccountIcon: icon}), nil
}

func whereClause(kind *domain.TransactionKind, category string, from, to *time.Time) (string, []any) {
	var conds []string
	var args []any
	if kind != nil {
		conds = append(conds, "t.kind = ?")
		args = append(args, string(*kind))
	}
	if category != "" {
		conds = append(conds, `t.category LIKE '%' || ? || '%' ESCAPE '\'`)
		args = append(args, likeEscaper.Replace(category))
	}
	if from != nil {
		conds = append(conds, "t.txn_date >= ?")
		args = append(args, formatTime(*from))
	}
	if to != nil {
		conds = append(conds, "t.txn_date <= ?")
		args = append(args, formatTime(*to))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *transactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionDetail, error) {
	d, err := scanDetail(r.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`, a.name, a.icon
		FROM transactions t JOIN accounts a ON a.account_id = t.account_id
		WHERE t.transaction_id = ?`, transactionID))
	if err != nil {
		return nil, wrapError(err, "failed to find transaction "+transactionID)
	}
	return &d, nil
}

func (r *transactionRepository) FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	m, err := scanTransaction(r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions t WHERE t.transaction_id = ?`, transactionID))
	if err != nil {
		return nil, wrapError(err, "failed to load transaction "+transactionID)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func (r *transactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.TransactionDetail, error) {
	where, args := whereClause(filter.Kind, filter.Category, filter.FromDate, filter.ToDate)
	query := `SELECT ` + transactionColumns + `, a.name, a.icon
		FROM transactions t JOIN accounts a ON a.account_id = t.account_id` + where + newestFirst
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(err, "failed to list transactions")
	}
	defer rows.Close()

	result := []domain.TransactionDetail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *transactionRepository) FindTransactionsInRange(ctx context.Context, from, to *time.Time) ([]domain.Transaction, error) {
	where, args := whereClause(nil, "", from, to)
	rows, err := r.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions t`+where+newestFirst, args...)
	if err != nil {
		return nil, wrapError(err, "failed to query transactions in range")
	}
	defer rows.Close()

	result := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		result = append(result, mapping.ToDomainTransaction(m))
	}
	return result, rows.Err()
}

func (r *transactionRepository) ListCategoryNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM transactions ORDER BY category`)
	if err != nil {
		return nil, wrapError(err, "failed to list category names")
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *transactionRepository) count(ctx context.Context, query string, arg any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&n); err != nil {
		return 0, wrapError(err, "failed to count transactions")
	}
	return n, nil
}

func (r *transactionRepository) CountTransactionsByAccount(ctx context.Context, accountID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = ?`, accountID)
}

func (r *transactionRepository) CountTransactionsByCategory(ctx context.Context, categoryName string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM transactions WHERE category = ?`, categoryName)
}

func (r *transactionRepository) CountTransactionsPerAccount(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT account_id, COUNT(*) FROM transactions GROUP BY account_id`)
	if err != nil {
		return nil, wrapError(err, "failed to count transactions per account")
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var accountID string
		var n int
		if err := rows.Scan(&accountID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan account count: %w", err)
		}
		counts[accountID] = n
	}
	return counts, rows.Err()
}

// CategoryUsage sums amounts in Go; SUM over TEXT would go through REAL.
func (r *transactionRepository) CategoryUsage(ctx context.Context) (map[domain.CategoryKey]domain.CategoryUsage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, kind, amount FROM transactions`)
	if err != nil {
		return nil, wrapError(err, "failed to aggregate category usage")
	}
	defer rows.Close()

	usage := map[domain.CategoryKey]domain.CategoryUsage{}
	for rows.Next() {
		var key domain.CategoryKey
		var kind string
		var amount decimal.Decimal
		if err := rows.Scan(&key.Name, &kind, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan category usage: %w", err)
		}
		key.Kind = domain.TransactionKind(kind)
		u := usage[key]
		u.TransactionCount++
		u.TotalAmount = u.TotalAmount.Add(amount)
		usage[key] = u
	}
	return usage, rows.Err()
}

func (r *transactionRepository) SaveTransactions(ctx context.Context, transactions []domain.Transaction) error {
	for _, txn := range transactions {
		m := mapping.ToModelTransaction(txn)
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO transactions (transaction_id, description, amount, kind, category, account_id, txn_date, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.TransactionID, m.Description, m.Amount.String(), m.Kind, m.Category, m.AccountID,
			formatTime(m.TxnDate), m.Notes, formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
		)
		if err != nil {
			return wrapError(err, "failed to save transaction "+txn.TransactionID)
		}
	}
	return nil
}

func (r *transactionRepository) UpdateTransaction(ctx context.Context, transaction domain.Transaction) error {
	m := mapping.ToModelTransaction(transaction)
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET description = ?, amount = ?, kind = ?, category = ?, account_id = ?, txn_date = ?, notes = ?, updated_at = ?
		WHERE transaction_id = ?`,
		m.Description, m.Amount.String(), m.Kind, m.Category, m.AccountID, formatTime(m.TxnDate), m.Notes,
		formatTime(m.UpdatedAt), m.TransactionID,
	)
	return expectOneRow(res, err, "failed to update transaction "+transaction.TransactionID)
}

func (r *transactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE transaction_id = ?`, transactionID)
	return expectOneRow(res, err, "failed to delete transaction "+transactionID)
}

func (r *transactionRepository) DeleteAllTransactions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions`)
	return wrapError(err, "failed to delete transactions")
}
