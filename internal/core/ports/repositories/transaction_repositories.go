package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
)

// TransactionReader defines read operations for transactions
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionDetail, error)

	// FindTransactionByIDForUpdate loads and locks a transaction row for the rest of the unit of work.
	FindTransactionByIDForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns matching transactions, newest date first.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.TransactionDetail, error)

	// FindTransactionsInRange returns the transactions dated within [from, to]. Nil bounds are open.
	FindTransactionsInRange(ctx context.Context, from, to *time.Time) ([]domain.Transaction, error)

	// ListCategoryNames returns the distinct category strings in use, sorted.
	ListCategoryNames(ctx context.Context) ([]string, error)
}

// TransactionStats defines the aggregate queries used by account and category admin rules.
type TransactionStats interface {
	CountTransactionsByAccount(ctx context.Context, accountID string) (int, error)
	CountTransactionsPerAccount(ctx context.Context) (map[string]int, error)
	CountTransactionsByCategory(ctx context.Context, categoryName string) (int, error)

	// CategoryUsage aggregates count and total amount per category string and kind.
	CategoryUsage(ctx context.Context) (map[domain.CategoryKey]domain.CategoryUsage, error)
}

// TransactionWriter defines write operations for transactions
type TransactionWriter interface {
	// SaveTransactions inserts all given rows.
	SaveTransactions(ctx context.Context, transactions []domain.Transaction) error

	// UpdateTransaction overwrites every mutable column of an existing row.
	UpdateTransaction(ctx context.Context, transaction domain.Transaction) error

	DeleteTransaction(ctx context.Context, transactionID string) error
	DeleteAllTransactions(ctx context.Context) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionStats
	TransactionWriter
}
