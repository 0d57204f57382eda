package domain

import (
	"github.com/shopspring/decimal"
)

// AccountKind describes what sort of money bucket an account is.
type AccountKind string

const (
	AccountKindCash       AccountKind = "Cash"
	AccountKindBank       AccountKind = "Bank"
	AccountKindCreditCard AccountKind = "CreditCard"
	AccountKindInvestment AccountKind = "Investment"
	AccountKindSavings    AccountKind = "Savings"
	AccountKindOther      AccountKind = "Other"
)

// DefaultAccountIcon is used when an account is created without an icon.
const DefaultAccountIcon = "💰"

// AccountKinds lists every valid kind in display order.
var AccountKinds = []AccountKind{
	AccountKindCash,
	AccountKindBank,
	AccountKindCreditCard,
	AccountKindInvestment,
	AccountKindSavings,
	AccountKindOther,
}

// IsValid reports whether k is one of the known account kinds.
func (k AccountKind) IsValid() bool {
	for _, known := range AccountKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Account is a named bucket holding a running balance.
// Balance is the signed sum of the account's transactions.
type Account struct {
	AccountID   string          `json:"accountID"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Kind        AccountKind     `json:"kind"`
	Icon        string          `json:"icon"`
	Balance     decimal.Decimal `json:"balance"`
	IsDefault   bool            `json:"isDefault"`
	AuditFields
}

// AccountWithStats is an account together with how many transactions it owns.
type AccountWithStats struct {
	Account
	TransactionCount int `json:"transactionCount"`
}

// DefaultAccounts are seeded on first run.
var DefaultAccounts = []Account{
	{Name: "Cash", Kind: AccountKindCash, Icon: "💵", Description: "Physical cash on hand"},
	{Name: "Bank Account", Kind: AccountKindBank, Icon: "🏦", Description: "Primary bank account"},
	{Name: "Credit Card", Kind: AccountKindCreditCard, Icon: "💳", Description: "Credit card account"},
	{Name: "Savings Account", Kind: AccountKindSavings, Icon: "🏛️", Description: "Savings account"},
}
