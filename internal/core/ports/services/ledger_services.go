package services

import (
	"context"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	"github.com/SscSPs/income_expense_tracker/internal/dto"
)

// LedgerSvc is the only writer of account balances. Every method runs as one unit of work.
type LedgerSvc interface {
	// CreateTransaction records a transaction and applies its effect to the owning account.
	// It returns the new transaction and the account after the change.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, *domain.Account, error)

	// UpdateTransaction reverses the stored effect, applies the new one and overwrites the row.
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	// DeleteTransaction reverses the effect and removes the row.
	DeleteTransaction(ctx context.Context, transactionID string) error

	// TransferMoney writes a debit and a credit transaction between two accounts.
	TransferMoney(ctx context.Context, req dto.TransferRequest) (*domain.Transfer, error)

	// AdjustBalance nudges a balance without writing a transaction.
	AdjustBalance(ctx context.Context, accountID string, req dto.AdjustBalanceRequest) (*domain.Account, error)
}
