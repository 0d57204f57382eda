package dto

import (
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required,max=100"`
	Description    string             `json:"description" binding:"max=500"`
	Kind           domain.AccountKind `json:"kind" binding:"required,account_kind"`
	Icon           string             `json:"icon" binding:"max=10"`
	InitialBalance decimal.Decimal    `json:"initialBalance"` // Recorded as an opening balance transaction
}

// UpdateAccountRequest defines the data allowed for updating an account.
type UpdateAccountRequest struct {
	Name        string             `json:"name" binding:"required,max=100"`
	Description string             `json:"description" binding:"max=500"`
	Kind        domain.AccountKind `json:"kind" binding:"required,account_kind"`
	Icon        string             `json:"icon" binding:"max=10"`
}

// AdjustBalanceRequest is a manual balance correction without a transaction row.
type AdjustBalanceRequest struct {
	Amount decimal.Decimal        `json:"amount"`
	Kind   domain.TransactionKind `json:"kind" binding:"required,transaction_kind"`
}

// TransferRequest moves money between two accounts.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description" binding:"max=200"`
	Date          Date            `json:"date"` // Defaults to today
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID        string             `json:"accountID"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	Kind             domain.AccountKind `json:"kind"`
	Icon             string             `json:"icon"`
	Balance          decimal.Decimal    `json:"balance"`
	IsDefault        bool               `json:"isDefault"`
	TransactionCount int                `json:"transactionCount"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// ToAccountResponse converts a domain.AccountWithStats to AccountResponse DTO
func ToAccountResponse(acc *domain.AccountWithStats) AccountResponse {
	return AccountResponse{
		AccountID:        acc.AccountID,
		Name:             acc.Name,
		Description:      acc.Description,
		Kind:             acc.Kind,
		Icon:             acc.Icon,
		Balance:          acc.Balance,
		IsDefault:        acc.IsDefault,
		TransactionCount: acc.TransactionCount,
		CreatedAt:        acc.CreatedAt,
		UpdatedAt:        acc.UpdatedAt,
	}
}

// ToListAccountResponse converts accounts to response DTOs
func ToListAccountResponse(accounts []domain.AccountWithStats) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// TransferResponse reports a completed transfer.
type TransferResponse struct {
	Message     string              `json:"message"`
	Debit       TransactionResponse `json:"debit"`
	Credit      TransactionResponse `json:"credit"`
	FromBalance decimal.Decimal     `json:"fromBalance"`
	ToBalance   decimal.Decimal     `json:"toBalance"`
}

// ToTransferResponse converts a domain.Transfer.
func ToTransferResponse(t *domain.Transfer) TransferResponse {
	return TransferResponse{
		Message:     "Transfer completed successfully",
		Debit:       ToTransactionResponse(&domain.TransactionDetail{Transaction: t.Debit, AccountName: t.From.Name, AccountIcon: t.From.Icon}),
		Credit:      ToTransactionResponse(&domain.TransactionDetail{Transaction: t.Credit, AccountName: t.To.Name, AccountIcon: t.To.Icon}),
		FromBalance: t.From.Balance,
		ToBalance:   t.To.Balance,
	}
}
