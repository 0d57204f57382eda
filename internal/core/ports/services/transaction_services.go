package services

import (
	"context"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
)

// TransactionReaderSvc defines the read side of transactions.
type TransactionReaderSvc interface {
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionDetail, error)
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.TransactionDetail, error)

	// GetSummary totals matching transactions in memory.
	GetSummary(ctx context.Context, from, to *time.Time) (*domain.Summary, error)

	ListCategoryNames(ctx context.Context) ([]string, error)
}
