package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByName looks an account up by name, ignoring case.
	FindAccountByName(ctx context.Context, name string) (*domain.Account, error)

	// ListAccounts retrieves every account ordered by name.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account, balance included.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates name, description, kind, icon and updatedAt. Balance is untouched.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account.
	DeleteAccount(ctx context.Context, accountID string) error

	// DeleteAllAccounts removes every account. Used by restore.
	DeleteAllAccounts(ctx context.Context) error
}

// AccountBalanceSupport defines the operations the ledger uses inside a unit of work.
type AccountBalanceSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them until the unit of work ends.
	// Ids that do not exist are simply absent from the result.
	FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalances adds each delta to the matching account balance and stamps updatedAt.
	UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceSupport
}
