package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tells whether money enters or leaves the account.
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "Income"
	TransactionKindExpense TransactionKind = "Expense"
)

// TransferCategory is the category name given to both legs of a transfer.
const TransferCategory = "Transfer"

// OpeningBalanceCategory is used for the transaction recording an account's initial balance.
const OpeningBalanceCategory = "Opening Balance"

// IsValid reports whether k is Income or Expense.
func (k TransactionKind) IsValid() bool {
	return k == TransactionKindIncome || k == TransactionKindExpense
}

// Effect returns the signed change an amount of this kind makes to a balance.
func (k TransactionKind) Effect(amount decimal.Decimal) decimal.Decimal {
	if k == TransactionKindIncome {
		return amount
	}
	return amount.Neg()
}

// Transaction is a single dated money movement affecting exactly one account.
// Amount is always positive; Kind carries the direction.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Kind          TransactionKind `json:"kind"`
	Category      string          `json:"category"`
	AccountID     string          `json:"accountID"`
	Date          time.Time       `json:"date"`
	Notes         string          `json:"notes"`
	AuditFields
}

// Effect is the signed amount this transaction contributes to its account balance.
func (t Transaction) Effect() decimal.Decimal {
	return t.Kind.Effect(t.Amount)
}

// TransactionDetail is a transaction joined with the display fields of its account.
type TransactionDetail struct {
	Transaction
	AccountName string `json:"accountName"`
	AccountIcon string `json:"accountIcon"`
}

// TransactionFilter narrows transaction listings. Zero values mean "no filter".
// FromDate and ToDate are inclusive. Limit 0 returns everything.
type TransactionFilter struct {
	Kind     *TransactionKind
	Category string
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// Summary totals a set of transactions.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
	FromDate     *time.Time      `json:"fromDate,omitempty"`
	ToDate       *time.Time      `json:"toDate,omitempty"`
}

// Transfer is the pair of transactions produced by moving money between accounts.
// From and To hold the accounts as they are after the transfer.
type Transfer struct {
	Debit  Transaction `json:"debit"`
	Credit Transaction `json:"credit"`
	From   Account     `json:"from"`
	To     Account     `json:"to"`
}
