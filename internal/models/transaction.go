package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	Description   string          `db:"description"`
	Amount        decimal.Decimal `db:"amount"`
	Kind          string          `db:"kind"`
	Category      string          `db:"category"`
	AccountID     string          `db:"account_id"`
	TxnDate       time.Time       `db:"txn_date"`
	Notes         string          `db:"notes"`
	AuditFields
}

// TransactionWithAccount is a transaction joined with its account's display columns.
type TransactionWithAccount struct {
	Transaction
	AccountName string `db:"account_name"`
	AccountIcon string `db:"account_icon"`
}
