package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/income_expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/income_expense_tracker/internal/dto"
	"github.com/SscSPs/income_expense_tracker/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	store portsrepo.Store
}

// NewAccountService creates a new account service
func NewAccountService(store portsrepo.Store, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(applyOptions(options)),
		store:       store,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func normalizeAccountFields(name, description string, kind domain.AccountKind, icon string) (string, string, string, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	icon = strings.TrimSpace(icon)
	switch {
	case name == "":
		return "", "", "", apperrors.NewValidationError("name is required")
	case len(name) > 100:
		return "", "", "", apperrors.NewValidationError("name must be at most 100 characters")
	case len(description) > 500:
		return "", "", "", apperrors.NewValidationError("description must be at most 500 characters")
	case !kind.IsValid():
		return "", "", "", apperrors.NewValidationError("invalid account kind %q", kind)
	}
	if icon == "" {
		icon = domain.DefaultAccountIcon
	}
	return name, description, icon, nil
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	name, description, icon, err := normalizeAccountFields(req.Name, req.Description, req.Kind, req.Icon)
	if err != nil {
		return nil, err
	}
	if !req.InitialBalance.IsZero() {
		if err := accounting.ValidateAmount(req.InitialBalance.Abs()); err != nil {
			return nil, apperrors.NewValidationError("invalid initial balance: %s", err.Error())
		}
	}

	account := domain.Account{
		AccountID:   uuid.NewString(),
		Name:        name,
		Description: description,
		Kind:        req.Kind,
		Icon:        icon,
		Balance:     decimal.Zero,
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.AccountRepo.FindAccountByName(ctx, name); err == nil {
			return apperrors.NewDuplicateError("an account named %q already exists", name)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to check account name: %w", err)
		}

		now := s.Now()
		account.Stamp(now)
		if err := repos.AccountRepo.SaveAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to save account: %w", err)
		}

		if req.InitialBalance.IsZero() {
			return nil
		}

		// The opening balance goes through a transaction so the balance stays derivable.
		opening := domain.Transaction{
			TransactionID: uuid.NewString(),
			Description:   "Opening balance",
			Amount:        req.InitialBalance.Abs(),
			Kind:          domain.TransactionKindIncome,
			Category:      domain.OpeningBalanceCategory,
			AccountID:     account.AccountID,
			Date:          dateOf(now),
		}
		if req.InitialBalance.IsNegative() {
			opening.Kind = domain.TransactionKindExpense
		}
		opening.Stamp(now)

		changes := accounting.BalanceChanges{}
		changes.Apply(opening)
		if err := repos.TransactionRepo.SaveTransactions(ctx, []domain.Transaction{opening}); err != nil {
			return fmt.Errorf("failed to save opening balance: %w", err)
		}
		if err := repos.AccountRepo.UpdateAccountBalances(ctx, changes, now); err != nil {
			return fmt.Errorf("failed to apply opening balance: %w", err)
		}
		account = changes.ApplyTo(account)
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create account", slog.String("account_name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully", slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.AccountWithStats, error) {
	repos := s.store.Repositories()
	account, err := repos.AccountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("account", accountID)
		}
		s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		return nil, err
	}

	count, err := repos.TransactionRepo.CountTransactionsByAccount(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count account transactions", slog.String("account_id", accountID))
		return nil, err
	}
	return &domain.AccountWithStats{Account: *account, TransactionCount: count}, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.AccountWithStats, error) {
	repos := s.store.Repositories()
	accounts, err := repos.AccountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	counts, err := repos.TransactionRepo.CountTransactionsPerAccount(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to count transactions per account")
		return nil, err
	}

	result := make([]domain.AccountWithStats, len(accounts))
	for i, acc := range accounts {
		result[i] = domain.AccountWithStats{Account: acc, TransactionCount: counts[acc.AccountID]}
	}
	return result, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	name, description, icon, err := normalizeAccountFields(req.Name, req.Description, req.Kind, req.Icon)
	if err != nil {
		return nil, err
	}

	var updated domain.Account
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		account, err := repos.AccountRepo.FindAccountByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError("account", accountID)
			}
			return fmt.Errorf("failed to load account: %w", err)
		}

		if account.Name != name {
			if account.IsDefault {
				return apperrors.NewBusinessRuleError("default account %q cannot be renamed", account.Name)
			}
			other, err := repos.AccountRepo.FindAccountByName(ctx, name)
			switch {
			case err == nil && other.AccountID != accountID:
				return apperrors.NewDuplicateError("an account named %q already exists", name)
			case err != nil && !errors.Is(err, apperrors.ErrNotFound):
				return fmt.Errorf("failed to check account name: %w", err)
			}
		}

		account.Name = name
		account.Description = description
		account.Kind = req.Kind
		account.Icon = icon
		account.Touch(s.Now())

		if err := repos.AccountRepo.UpdateAccount(ctx, *account); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		updated = *account
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return &updated, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		locked, err := repos.AccountRepo.FindAccountsByIDsForUpdate(ctx, []string{accountID})
		if err != nil {
			return fmt.Errorf("failed to lock account: %w", err)
		}
		account, ok := locked[accountID]
		if !ok {
			return apperrors.NewNotFoundError("account", accountID)
		}
		if account.IsDefault {
			return apperrors.NewBusinessRuleError("default account %q cannot be deleted", account.Name)
		}

		count, err := repos.TransactionRepo.CountTransactionsByAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to count account transactions: %w", err)
		}
		if count > 0 {
			return apperrors.NewBusinessRuleError("account %q has %d transactions and cannot be deleted", account.Name, count)
		}

		return repos.AccountRepo.DeleteAccount(ctx, accountID)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}
