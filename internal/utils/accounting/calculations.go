package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places money is stored with.
const AmountScale = 2

// MaxAmount is the largest amount a single transaction may carry (NUMERIC(18,2)).
var MaxAmount = decimal.RequireFromString("9999999999999999.99")

// ValidateAmount checks that a transaction amount is positive, fits the store and has at most two decimals.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be greater than zero")
	}
	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("amount must not exceed %s", MaxAmount.String())
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return fmt.Errorf("amount must have at most %d decimal places", AmountScale)
	}
	return nil
}

// BalanceChanges accumulates signed balance deltas per account within one unit of work.
type BalanceChanges map[string]decimal.Decimal

// Apply adds the effect of txn to its account.
func (b BalanceChanges) Apply(txn domain.Transaction) {
	b[txn.AccountID] = b[txn.AccountID].Add(txn.Effect())
}

// Reverse removes the effect of txn from its account.
func (b BalanceChanges) Reverse(txn domain.Transaction) {
	b[txn.AccountID] = b[txn.AccountID].Sub(txn.Effect())
}

// AccountIDs returns the touched accounts in sorted order so locks are always taken in the same order.
func (b BalanceChanges) AccountIDs() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Net is the sum of all deltas. Transfers must net to zero.
func (b BalanceChanges) Net() decimal.Decimal {
	sum := decimal.Zero
	for _, delta := range b {
		sum = sum.Add(delta)
	}
	return sum
}

// ApplyTo returns acc with its delta added.
func (b BalanceChanges) ApplyTo(acc domain.Account) domain.Account {
	acc.Balance = acc.Balance.Add(b[acc.AccountID])
	return acc
}

// ValidateTransferBalanced checks that a transfer pair moves the same amount out and in.
func ValidateTransferBalanced(debit, credit domain.Transaction) error {
	if debit.Kind != domain.TransactionKindExpense || credit.Kind != domain.TransactionKindIncome {
		return fmt.Errorf("transfer must pair an expense with an income")
	}
	legs := BalanceChanges{}
	legs.Apply(debit)
	legs.Apply(credit)
	if !legs.Net().IsZero() {
		return fmt.Errorf("transfer legs do not balance: %s vs %s", debit.Amount, credit.Amount)
	}
	return nil
}

// Summarize totals income and expense amounts.
func Summarize(transactions []domain.Transaction) domain.Summary {
	summary := domain.Summary{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	for _, txn := range transactions {
		switch txn.Kind {
		case domain.TransactionKindIncome:
			summary.TotalIncome = summary.TotalIncome.Add(txn.Amount)
		case domain.TransactionKindExpense:
			summary.TotalExpense = summary.TotalExpense.Add(txn.Amount)
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary
}

// SumEffects returns the balance a set of transactions implies for each account.
func SumEffects(transactions []domain.Transaction) BalanceChanges {
	changes := BalanceChanges{}
	for _, txn := range transactions {
		changes.Apply(txn)
	}
	return changes
}

// BalanceDrift returns, for every account whose balance differs from the sum of
// its transactions, balance minus that sum. Manual adjustments are the only
// mutation that leaves drift behind.
func BalanceDrift(accounts []domain.Account, transactions []domain.Transaction) BalanceChanges {
	sums := SumEffects(transactions)
	drift := BalanceChanges{}
	for _, acc := range accounts {
		if d := acc.Balance.Sub(sums[acc.AccountID]); !d.IsZero() {
			drift[acc.AccountID] = d
		}
	}
	return drift
}
