package models

import "github.com/shopspring/decimal"

// Account is a row of the accounts table.
type Account struct {
	AccountID   string          `db:"account_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Kind        string          `db:"kind"`
	Icon        string          `db:"icon"`
	Balance     decimal.Decimal `db:"balance"`
	IsDefault   bool            `db:"is_default"`
	AuditFields
}
