package domain_test

import (
	"testing"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionKind_Effect(t *testing.T) {
	tests := []struct {
		name   string
		kind   domain.TransactionKind
		amount decimal.Decimal
		want   decimal.Decimal
	}{
		{
			name:   "income adds to the balance",
			kind:   domain.TransactionKindIncome,
			amount: decimal.NewFromInt(5000),
			want:   decimal.NewFromInt(5000),
		},
		{
			name:   "expense subtracts from the balance",
			kind:   domain.TransactionKindExpense,
			amount: decimal.RequireFromString("150.25"),
			want:   decimal.RequireFromString("-150.25"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.kind.Effect(tt.amount)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestTransaction_EffectReversesToZero(t *testing.T) {
	txn := domain.Transaction{Amount: decimal.NewFromInt(42), Kind: domain.TransactionKindExpense}
	assert.True(t, txn.Effect().Add(txn.Effect().Neg()).IsZero())
}

func TestKindValidation(t *testing.T) {
	assert.True(t, domain.TransactionKindIncome.IsValid())
	assert.False(t, domain.TransactionKind("Refund").IsValid())

	assert.True(t, domain.AccountKindCreditCard.IsValid())
	assert.False(t, domain.AccountKind("Crypto").IsValid())
}

func TestDefaultCategoriesAreUniquePerKind(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range domain.DefaultCategories {
		key := string(c.Kind) + "/" + c.Name
		assert.False(t, seen[key], "duplicate default category %s", key)
		seen[key] = true
	}
}
