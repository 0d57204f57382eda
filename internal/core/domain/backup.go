package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BackupVersion is written into every snapshot.
const BackupVersion = "1.0"

// BackupFileName is the name of the snapshot file in remote storage.
const BackupFileName = "income_expense_backup.json"

// Snapshot is a full copy of the ledger used for backup and restore.
type Snapshot struct {
	Timestamp    time.Time     `json:"timestamp"`
	Version      string        `json:"version"`
	Accounts     []Account     `json:"accounts"`
	Categories   []Category    `json:"categories"`
	Transactions []Transaction `json:"transactions"`

	// Adjustments records, per account id, how far the balance sits from the
	// sum of its transactions after manual balance adjustments.
	Adjustments map[string]decimal.Decimal `json:"adjustments,omitempty"`
}
