package accounting

import (
	"testing"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func txn(accountID string, kind domain.TransactionKind, amount string) domain.Transaction {
	return domain.Transaction{AccountID: accountID, Kind: kind, Amount: decimal.RequireFromString(amount)}
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(decimal.RequireFromString("0.01")))
	assert.NoError(t, ValidateAmount(decimal.RequireFromString("5000")))
	assert.Error(t, ValidateAmount(decimal.Zero))
	assert.Error(t, ValidateAmount(decimal.RequireFromString("-1")))
	assert.Error(t, ValidateAmount(decimal.RequireFromString("1.005")))
	assert.Error(t, ValidateAmount(MaxAmount.Add(decimal.RequireFromString("0.01"))))
}

func TestBalanceChanges_ReverseThenApplyOnSameAccount(t *testing.T) {
	changes := BalanceChanges{}
	changes.Reverse(txn("a", domain.TransactionKindExpense, "100"))
	changes.Apply(txn("a", domain.TransactionKindExpense, "80"))

	// Balance B becomes B + 100 - 80.
	assert.True(t, decimal.NewFromInt(20).Equal(changes["a"]))
	assert.Equal(t, []string{"a"}, changes.AccountIDs())
}

func TestBalanceChanges_MoveBetweenAccounts(t *testing.T) {
	changes := BalanceChanges{}
	changes.Reverse(txn("b", domain.TransactionKindIncome, "50"))
	changes.Apply(txn("a", domain.TransactionKindIncome, "50"))

	assert.True(t, decimal.NewFromInt(50).Equal(changes["a"]))
	assert.True(t, decimal.NewFromInt(-50).Equal(changes["b"]))
	assert.True(t, changes.Net().IsZero())
	assert.Equal(t, []string{"a", "b"}, changes.AccountIDs())

	acc := changes.ApplyTo(domain.Account{AccountID: "b", Balance: decimal.NewFromInt(70)})
	assert.True(t, decimal.NewFromInt(20).Equal(acc.Balance))
}

func TestValidateTransferBalanced(t *testing.T) {
	debit := txn("a", domain.TransactionKindExpense, "500")
	credit := txn("b", domain.TransactionKindIncome, "500")
	assert.NoError(t, ValidateTransferBalanced(debit, credit))

	assert.Error(t, ValidateTransferBalanced(debit, txn("b", domain.TransactionKindIncome, "499.99")))
	assert.Error(t, ValidateTransferBalanced(credit, debit))
}

func TestSummarize(t *testing.T) {
	summary := Summarize([]domain.Transaction{
		txn("a", domain.TransactionKindIncome, "5000"),
		txn("a", domain.TransactionKindExpense, "150"),
	})

	assert.True(t, decimal.NewFromInt(5000).Equal(summary.TotalIncome))
	assert.True(t, decimal.NewFromInt(150).Equal(summary.TotalExpense))
	assert.True(t, decimal.NewFromInt(4850).Equal(summary.Balance))
}

func TestSumEffects(t *testing.T) {
	changes := SumEffects([]domain.Transaction{
		txn("a", domain.TransactionKindIncome, "10"),
		txn("a", domain.TransactionKindExpense, "3.50"),
		txn("b", domain.TransactionKindExpense, "1"),
	})
	assert.True(t, decimal.RequireFromString("6.50").Equal(changes["a"]))
	assert.True(t, decimal.NewFromInt(-1).Equal(changes["b"]))
}

func TestBalanceDrift(t *testing.T) {
	accounts := []domain.Account{
		{AccountID: "a", Balance: decimal.RequireFromString("6.50")},
		{AccountID: "b", Balance: decimal.NewFromInt(24)},
		{AccountID: "c", Balance: decimal.Zero},
	}
	drift := BalanceDrift(accounts, []domain.Transaction{
		txn("a", domain.TransactionKindIncome, "10"),
		txn("a", domain.TransactionKindExpense, "3.50"),
		txn("b", domain.TransactionKindExpense, "1"),
	})

	assert.Len(t, drift, 1)
	assert.True(t, decimal.NewFromInt(25).Equal(drift["b"]))
}
