package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/income_expense_tracker/internal/models"
	"github.com/SscSPs/income_expense_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxTransactionRepository struct {
	BaseRepository
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `t.transaction_id, t.description, t.amount, t.kind, t.category, t.account_id, t.txn_date, t.notes, t.created_at, t.updated_at`

const newestFirst = ` ORDER BY t.txn_date DESC, t.created_at DESC, t.transaction_id DESC`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func transactionDest(m *models.Transaction) []any {
	return []any{
		&m.TransactionID,
		&m.Description,
		&m.Amount,
		&m.Kind,
		&m.Category,
		&m.AccountID,
		&m.TxnDate,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	}
}

func scanTransactionDetail(row pgx.Row) (domain.TransactionDetail, error) {
	var m models.TransactionWithAccount
	dest := append(transactionDest(&m.Transaction), &m.AccountName, &m.AccountIcon)
	if err := row.Scan(dest...); err != nil {
		return domain.TransactionDetail{}, err
	}
	return mapping.ToDomainTransactionDetail(m), nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionDetail, error) {
	query := `
		SELECT ` + transactionColumns + `, a.name, a.icon
		FROM transactions t
		JOIN accounts a ON a.account_id = t.account_id
		WHERE t.transaction_id = $1;
	`
	d, err := scanTransactionDetail(r.db.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, wrapError(err, "failed to find transaction "+transactionID)
	}
	return &d, nil
}

func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.transaction_id = $1 FOR UPDATE;`
	var m models.Transaction
	if err := r.db.QueryRow(ctx, query, transactionID).Scan(transactionDest(&m)...); err != nil {
		return nil, wrapError(err, "failed to lock transaction "+transactionID)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// whereClause builds the filter predicates with positional placeholders.
func whereClause(kind *domain.TransactionKind, category string, from, to *time.Time) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if kind != nil {
		add("t.kind = $%d", string(*kind))
	}
	if category != "" {
		add(`t.category ILIKE '%%' || $%d || '%%'`, likeEscaper.Replace(category))
	}
	if from != nil {
		add("t.txn_date >= $%d", from.UTC())
	}
	if to != nil {
		add("t.txn_date <= $%d", to.UTC())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.TransactionDetail, error) {
	where, args := whereClause(filter.Kind, filter.Category, filter.FromDate, filter.ToDate)
	query := `
		SELECT ` + transactionColumns + `, a.name, a.icon
		FROM transactions t
		JOIN accounts a ON a.account_id = t.account_id` + where + newestFirst
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapError(err, "failed to list transactions")
	}
	defer rows.Close()

	result := []domain.TransactionDetail{}
	for rows.Next() {
		d, err := scanTransactionDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return result, nil
}

func (r *PgxTransactionRepository) FindTransactionsInRange(ctx context.Context, from, to *time.Time) ([]domain.Transaction, error) {
	where, args := whereClause(nil, "", from, to)
	rows, err := r.db.Query(ctx, `SELECT `+transactionColumns+` FROM transactions t`+where+newestFirst, args...)
	if err != nil {
		return nil, wrapError(err, "failed to query transactions in range")
	}
	defer rows.Close()

	result := []domain.Transaction{}
	for rows.Next() {
		var m models.Transaction
		if err := rows.Scan(transactionDest(&m)...); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		result = append(result, mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return result, nil
}

func (r *PgxTransactionRepository) ListCategoryNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT category FROM transactions ORDER BY category;`)
	if err != nil {
		return nil, wrapError(err, "failed to list category names")
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect category names: %w", err)
	}
	return names, nil
}

func (r *PgxTransactionRepository) CountTransactionsByAccount(ctx context.Context, accountID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1;`, accountID).Scan(&count)
	if err != nil {
		return 0, wrapError(err, "failed to count transactions for account "+accountID)
	}
	return count, nil
}

func (r *PgxTransactionRepository) CountTransactionsPerAccount(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT account_id, COUNT(*) FROM transactions GROUP BY account_id;`)
	if err != nil {
		return nil, wrapError(err, "failed to count transactions per account")
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var accountID string
		var count int
		if err := rows.Scan(&accountID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan account count: %w", err)
		}
		counts[accountID] = count
	}
	return counts, rows.Err()
}

func (r *PgxTransactionRepository) CountTransactionsByCategory(ctx context.Context, categoryName string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE category = $1;`, categoryName).Scan(&count)
	if err != nil {
		return 0, wrapError(err, "failed to count transactions for category")
	}
	return count, nil
}

func (r *PgxTransactionRepository) CategoryUsage(ctx context.Context) (map[domain.CategoryKey]domain.CategoryUsage, error) {
	rows, err := r.db.Query(ctx, `SELECT category, kind, COUNT(*), COALESCE(SUM(amount), 0) FROM transactions GROUP BY category, kind;`)
	if err != nil {
		return nil, wrapError(err, "failed to aggregate category usage")
	}
	defer rows.Close()

	usage := map[domain.CategoryKey]domain.CategoryUsage{}
	for rows.Next() {
		var name, kind string
		var count int
		var total decimal.Decimal
		if err := rows.Scan(&name, &kind, &count, &total); err != nil {
			return nil, fmt.Errorf("failed to scan category usage: %w", err)
		}
		usage[domain.CategoryKey{Name: name, Kind: domain.TransactionKind(kind)}] = domain.CategoryUsage{TransactionCount: count, TotalAmount: total}
	}
	return usage, rows.Err()
}

func (r *PgxTransactionRepository) SaveTransactions(ctx context.Context, transactions []domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}
	query := `
		INSERT INTO transactions (transaction_id, description, amount, kind, category, account_id, txn_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, txn := range transactions {
		m := mapping.ToModelTransaction(txn)
		batch.Queue(query, m.TransactionID, m.Description, m.Amount, m.Kind, m.Category, m.AccountID, m.TxnDate, m.Notes, m.CreatedAt, m.UpdatedAt)
	}

	br := r.db.SendBatch(ctx, batch)
	var batchErr error
	for _, txn := range transactions {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = wrapError(err, "failed to save transaction "+txn.TransactionID)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = wrapError(err, "failed to close transaction batch")
	}
	return batchErr
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, transaction domain.Transaction) error {
	m := mapping.ToModelTransaction(transaction)
	query := `
		UPDATE transactions
		SET description = $2, amount = $3, kind = $4, category = $5, account_id = $6, txn_date = $7, notes = $8, updated_at = $9
		WHERE transaction_id = $1;
	`
	tag, err := r.db.Exec(ctx, query, m.TransactionID, m.Description, m.Amount, m.Kind, m.Category, m.AccountID, m.TxnDate, m.Notes, m.UpdatedAt)
	return expectOneRow(tag, err, "failed to update transaction "+transaction.TransactionID)
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	return expectOneRow(tag, err, "failed to delete transaction "+transactionID)
}

func (r *PgxTransactionRepository) DeleteAllTransactions(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM transactions;`)
	return wrapError(err, "failed to delete transactions")
}
