package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/income_expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/income_expense_tracker/internal/dto"
	"github.com/SscSPs/income_expense_tracker/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService owns every balance change. Each public method is one unit of work:
// the transaction rows and the balance deltas commit together or not at all.
type ledgerService struct {
	BaseService
	store           portsrepo.Store
	rejectOverdraft bool
}

// NewLedgerService creates the ledger mutator on top of a store.
func NewLedgerService(store portsrepo.Store, options ...ServiceOption) portssvc.LedgerSvc {
	o := applyOptions(options)
	return &ledgerService{
		BaseService:     newBaseService(o),
		store:           store,
		rejectOverdraft: o.rejectOverdraft,
	}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

type transactionInput struct {
	description string
	amount      decimal.Decimal
	kind        domain.TransactionKind
	category    string
	accountID   string
	date        time.Time
	notes       string
}

// validate trims the free-text fields and checks every precondition that does not need the store.
func (in *transactionInput) validate() error {
	in.description = strings.TrimSpace(in.description)
	in.category = strings.TrimSpace(in.category)
	in.accountID = strings.TrimSpace(in.accountID)
	in.notes = strings.TrimSpace(in.notes)

	switch {
	case in.description == "":
		return apperrors.NewValidationError("description is required")
	case len(in.description) > 200:
		return apperrors.NewValidationError("description must be at most 200 characters")
	case in.category == "":
		return apperrors.NewValidationError("category is required")
	case len(in.category) > 100:
		return apperrors.NewValidationError("category must be at most 100 characters")
	case in.accountID == "":
		return apperrors.NewValidationError("accountID is required")
	case !in.kind.IsValid():
		return apperrors.NewValidationError("kind must be Income or Expense")
	case len(in.notes) > 1000:
		return apperrors.NewValidationError("notes must be at most 1000 characters")
	}
	if err := accounting.ValidateAmount(in.amount); err != nil {
		return apperrors.NewValidationError("%s", err.Error())
	}
	return nil
}

func (in transactionInput) toDomain() domain.Transaction {
	return domain.Transaction{
		Description: in.description,
		Amount:      in.amount,
		Kind:        in.kind,
		Category:    in.category,
		AccountID:   in.accountID,
		Date:        in.date.UTC(),
		Notes:       in.notes,
	}
}

// lockAccounts locks the accounts touched by changes and returns them by id.
// A missing account is reported through missing.
func lockAccounts(ctx context.Context, repos portsrepo.RepositoryProvider, ids []string) (map[string]domain.Account, []string, error) {
	locked, err := repos.AccountRepo.FindAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	var missing []string
	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			missing = append(missing, id)
		}
	}
	return locked, missing, nil
}

func (s *ledgerService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, *domain.Account, error) {
	in := transactionInput{
		description: req.Description,
		amount:      req.Amount,
		kind:        req.Kind,
		category:    req.Category,
		accountID:   req.AccountID,
		date:        req.Date.Time,
		notes:       req.Notes,
	}
	if err := in.validate(); err != nil {
		s.LogDebug(ctx, "Rejected transaction create", slog.String("reason", err.Error()))
		return nil, nil, err
	}

	txn := in.toDomain()
	txn.TransactionID = uuid.NewString()

	var account domain.Account
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		changes := accounting.BalanceChanges{}
		changes.Apply(txn)

		locked, missing, err := lockAccounts(ctx, repos, changes.AccountIDs())
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return apperrors.NewValidationError("account %s not found", txn.AccountID)
		}

		now := s.Now()
		if txn.Date.IsZero() {
			txn.Date = dateOf(now)
		}
		txn.Stamp(now)

		if err := repos.TransactionRepo.SaveTransactions(ctx, []domain.Transaction{txn}); err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}
		if err := repos.AccountRepo.UpdateAccountBalances(ctx, changes, now); err != nil {
			return fmt.Errorf("failed to update account balance: %w", err)
		}

		account = changes.ApplyTo(locked[txn.AccountID])
		account.Touch(now)
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create transaction", slog.String("account_id", txn.AccountID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", txn.AccountID),
		slog.String("kind", string(txn.Kind)),
		slog.String("amount", txn.Amount.String()))
	return &txn, &account, nil
}

func (s *ledgerService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	in := transactionInput{
		description: req.Description,
		amount:      req.Amount,
		kind:        req.Kind,
		category:    req.Category,
		accountID:   req.AccountID,
		date:        req.Date.Time,
		notes:       req.Notes,
	}
	if err := in.validate(); err != nil {
		s.LogDebug(ctx, "Rejected transaction update", slog.String("transaction_id", transactionID), slog.String("reason", err.Error()))
		return nil, err
	}

	var updated domain.Transaction
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		existing, err := repos.TransactionRepo.FindTransactionByIDForUpdate(ctx, transactionID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError("transaction", transactionID)
			}
			return fmt.Errorf("failed to load transaction: %w", err)
		}

		next := in.toDomain()
		next.TransactionID = existing.TransactionID
		next.CreatedAt = existing.CreatedAt
		if next.Date.IsZero() {
			next.Date = existing.Date
		}

		// Reverse first, then apply, even when only the amount changed.
		changes := accounting.BalanceChanges{}
		changes.Reverse(*existing)
		changes.Apply(next)

		_, missing, err := lockAccounts(ctx, repos, changes.AccountIDs())
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return apperrors.NewValidationError("account %s not found", next.AccountID)
		}

		now := s.Now()
		next.Touch(now)

		if err := repos.TransactionRepo.UpdateTransaction(ctx, next); err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		if err := repos.AccountRepo.UpdateAccountBalances(ctx, changes, now); err != nil {
			return fmt.Errorf("failed to update account balances: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", transactionID))
	return &updated, nil
}

func (s *ledgerService) DeleteTransaction(ctx context.Context, transactionID string) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		existing, err := repos.TransactionRepo.FindTransactionByIDForUpdate(ctx, transactionID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError("transaction", transactionID)
			}
			return fmt.Errorf("failed to load transaction: %w", err)
		}

		changes := accounting.BalanceChanges{}
		changes.Reverse(*existing)

		if _, _, err := lockAccounts(ctx, repos, changes.AccountIDs()); err != nil {
			return err
		}

		now := s.Now()
		if err := repos.TransactionRepo.DeleteTransaction(ctx, transactionID); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		if err := repos.AccountRepo.UpdateAccountBalances(ctx, changes, now); err != nil {
			return fmt.Errorf("failed to update account balance: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return err
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

func (s *ledgerService) TransferMoney(ctx context.Context, req dto.TransferRequest) (*domain.Transfer, error) {
	fromID := strings.TrimSpace(req.FromAccountID)
	toID := strings.TrimSpace(req.ToAccountID)
	description := strings.TrimSpace(req.Description)

	switch {
	case fromID == "" || toID == "":
		return nil, apperrors.NewValidationError("fromAccountID and toAccountID are required")
	case fromID == toID:
		return nil, apperrors.NewBusinessRuleError("cannot transfer to the same account")
	case len(description) > 200:
		return nil, apperrors.NewValidationError("description must be at most 200 characters")
	}
	if err := accounting.ValidateAmount(req.Amount); err != nil {
		return nil, apperrors.NewValidationError("invalid amount: %s", err.Error())
	}

	var result domain.Transfer
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		changes := accounting.BalanceChanges{fromID: decimal.Zero, toID: decimal.Zero}
		locked, missing, err := lockAccounts(ctx, repos, changes.AccountIDs())
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return apperrors.NewNotFoundError("account", missing[0])
		}
		from, to := locked[fromID], locked[toID]

		if s.rejectOverdraft && from.Balance.LessThan(req.Amount) {
			return apperrors.NewBusinessRuleError("insufficient balance in account %q", from.Name)
		}

		now := s.Now()
		date := req.Date.Time.UTC()
		if date.IsZero() {
			date = dateOf(now)
		}
		if description == "" {
			description = fmt.Sprintf("Transfer from %s to %s", from.Name, to.Name)
		}

		debit := domain.Transaction{
			TransactionID: uuid.NewString(),
			Description:   description,
			Amount:        req.Amount,
			Kind:          domain.TransactionKindExpense,
			Category:      domain.TransferCategory,
			AccountID:     fromID,
			Date:          date,
		}
		credit := debit
		credit.TransactionID = uuid.NewString()
		credit.Kind = domain.TransactionKindIncome
		credit.AccountID = toID
		debit.Stamp(now)
		credit.Stamp(now)

		if err := accounting.ValidateTransferBalanced(debit, credit); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
		}
		changes.Apply(debit)
		changes.Apply(credit)

		if err := repos.TransactionRepo.SaveTransactions(ctx, []domain.Transaction{debit, credit}); err != nil {
			return fmt.Errorf("failed to save transfer transactions: %w", err)
		}
		if err := repos.AccountRepo.UpdateAccountBalances(ctx, changes, now); err != nil {
			return fmt.Errorf("failed to update account balances: %w", err)
		}

		from, to = changes.ApplyTo(from), changes.ApplyTo(to)
		from.Touch(now)
		to.Touch(now)
		result = domain.Transfer{Debit: debit, Credit: credit, From: from, To: to}
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to transfer money",
			slog.String("from_account_id", fromID),
			slog.String("to_account_id", toID))
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("from_account_id", fromID),
		slog.String("to_account_id", toID),
		slog.String("amount", req.Amount.String()))
	return &result, nil
}

func (s *ledgerService) AdjustBalance(ctx context.Context, accountID string, req dto.AdjustBalanceRequest) (*domain.Account, error) {
	if !req.Kind.IsValid() {
		return nil, apperrors.NewValidationError("kind must be Income or Expense")
	}
	if err := accounting.ValidateAmount(req.Amount); err != nil {
		return nil, apperrors.NewValidationError("%s", err.Error())
	}

	var account domain.Account
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		changes := accounting.BalanceChanges{accountID: req.Kind.Effect(req.Amount)}
		locked, missing, err := lockAccounts(ctx, repos, changes.AccountIDs())
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return apperrors.NewNotFoundError("account", accountID)
		}

		now := s.Now()
		if err := repos.AccountRepo.UpdateAccountBalances(ctx, changes, now); err != nil {
			return fmt.Errorf("failed to adjust balance: %w", err)
		}
		account = changes.ApplyTo(locked[accountID])
		account.Touch(now)
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to adjust balance", slog.String("account_id", accountID))
		return nil, err
	}

	// No transaction row backs this change.
	s.LogWarn(ctx, "Manual balance override applied",
		slog.String("account_id", accountID),
		slog.String("kind", string(req.Kind)),
		slog.String("amount", req.Amount.String()),
		slog.String("new_balance", account.Balance.String()))
	return &account, nil
}

// logFailure logs expected rejections at debug level and everything else as errors.
func (s *BaseService) logFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if isClientError(err) {
		s.LogDebug(ctx, msg, append([]any{slog.String("reason", err.Error())}, keyvals...)...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

func isClientError(err error) bool {
	return errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrDuplicate) ||
		errors.Is(err, apperrors.ErrBusinessRule)
}
