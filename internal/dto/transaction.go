package dto

import (
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a transaction.
type CreateTransactionRequest struct {
	Description string                 `json:"description" binding:"required,max=200"`
	Amount      decimal.Decimal        `json:"amount"`
	Kind        domain.TransactionKind `json:"kind" binding:"required,transaction_kind"`
	Category    string                 `json:"category" binding:"required,max=100"`
	AccountID   string                 `json:"accountID" binding:"required"`
	Date        Date                   `json:"date"` // Defaults to now
	Notes       string                 `json:"notes" binding:"max=1000"`
}

// UpdateTransactionRequest carries the full new state of a transaction.
type UpdateTransactionRequest struct {
	Description string                 `json:"description" binding:"required,max=200"`
	Amount      decimal.Decimal        `json:"amount"`
	Kind        domain.TransactionKind `json:"kind" binding:"required,transaction_kind"`
	Category    string                 `json:"category" binding:"required,max=100"`
	AccountID   string                 `json:"accountID" binding:"required"`
	Date        Date                   `json:"date"`
	Notes       string                 `json:"notes" binding:"max=1000"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Type     string `form:"type"`
	Category string `form:"category"`
	FromDate string `form:"fromDate"`
	ToDate   string `form:"toDate"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=50"`
}

// SummaryParams defines query parameters for the summary endpoint.
type SummaryParams struct {
	FromDate string `form:"fromDate"`
	ToDate   string `form:"toDate"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	Description   string                 `json:"description"`
	Amount        decimal.Decimal        `json:"amount"`
	Kind          domain.TransactionKind `json:"kind"`
	Category      string                 `json:"category"`
	AccountID     string                 `json:"accountID"`
	AccountName   string                 `json:"accountName"`
	AccountIcon   string                 `json:"accountIcon"`
	Date          time.Time              `json:"date"`
	Notes         string                 `json:"notes"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// ToTransactionResponse converts a domain.TransactionDetail to a TransactionResponse DTO
func ToTransactionResponse(t *domain.TransactionDetail) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		Description:   t.Description,
		Amount:        t.Amount,
		Kind:          t.Kind,
		Category:      t.Category,
		AccountID:     t.AccountID,
		AccountName:   t.AccountName,
		AccountIcon:   t.AccountIcon,
		Date:          t.Date,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// ToListTransactionResponse converts a slice of details.
func ToListTransactionResponse(txns []domain.TransactionDetail) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsResponse wraps one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"pageSize"`
}

// CreateTransactionResponse returns the new transaction with the owning account's new balance.
type CreateTransactionResponse struct {
	Transaction    TransactionResponse `json:"transaction"`
	AccountBalance decimal.Decimal     `json:"accountBalance"`
}

// SummaryResponse totals income and expense over a date range.
type SummaryResponse struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
	FromDate     *time.Time      `json:"fromDate"`
	ToDate       *time.Time      `json:"toDate"`
}

// ToSummaryResponse converts a domain.Summary.
func ToSummaryResponse(s *domain.Summary) SummaryResponse {
	return SummaryResponse{
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		Balance:      s.Balance,
		FromDate:     s.FromDate,
		ToDate:       s.ToDate,
	}
}

// CategoryNamesResponse lists the category strings used by transactions.
type CategoryNamesResponse struct {
	Categories []string `json:"categories"`
}
