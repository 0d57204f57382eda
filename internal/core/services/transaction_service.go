package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/income_expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/income_expense_tracker/internal/utils/accounting"
)

// transactionService serves the read side of transactions.
type transactionService struct {
	BaseService
	store portsrepo.Store
}

// NewTransactionService creates a new transaction read service
func NewTransactionService(store portsrepo.Store, options ...ServiceOption) portssvc.TransactionReaderSvc {
	return &transactionService{
		BaseService: newBaseService(applyOptions(options)),
		store:       store,
	}
}

var _ portssvc.TransactionReaderSvc = (*transactionService)(nil)

func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.TransactionDetail, error) {
	txn, err := s.store.Repositories().TransactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("transaction", transactionID)
		}
		s.LogError(ctx, err, "Failed to get transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.TransactionDetail, error) {
	if filter.Kind != nil && !filter.Kind.IsValid() {
		return nil, apperrors.NewValidationError("type must be Income or Expense")
	}
	if filter.FromDate != nil && filter.ToDate != nil && filter.FromDate.After(*filter.ToDate) {
		return nil, apperrors.NewValidationError("fromDate must not be after toDate")
	}

	txns, err := s.store.Repositories().TransactionRepo.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, err
	}
	return txns, nil
}

func (s *transactionService) GetSummary(ctx context.Context, from, to *time.Time) (*domain.Summary, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, apperrors.NewValidationError("fromDate must not be after toDate")
	}

	txns, err := s.store.Repositories().TransactionRepo.FindTransactionsInRange(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for summary")
		return nil, err
	}

	summary := accounting.Summarize(txns)
	summary.FromDate = from
	summary.ToDate = to
	s.LogDebug(ctx, "Summary computed", slog.Int("transactions", len(txns)))
	return &summary, nil
}

func (s *transactionService) ListCategoryNames(ctx context.Context) ([]string, error) {
	names, err := s.store.Repositories().TransactionRepo.ListCategoryNames(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list category names")
		return nil, err
	}
	return names, nil
}
