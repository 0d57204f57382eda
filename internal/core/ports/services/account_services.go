package services

import (
	"context"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	"github.com/SscSPs/income_expense_tracker/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, accountID string) (*domain.AccountWithStats, error)
	ListAccounts(ctx context.Context) ([]domain.AccountWithStats, error)
}

// AccountWriterSvc defines administrative writes. Balances change only through LedgerSvc.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
