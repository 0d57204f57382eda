package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/adapters/database/memory"
	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/income_expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/income_expense_tracker/internal/core/services"
	"github.com/SscSPs/income_expense_tracker/internal/dto"
	"github.com/SscSPs/income_expense_tracker/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type LedgerServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	ledger   portssvc.LedgerSvc
	accounts portssvc.AccountSvcFacade
	reader   portssvc.TransactionReaderSvc
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	clock := services.WithClock(func() time.Time { return fixedNow })
	suite.ledger = services.NewLedgerService(suite.store, clock)
	suite.accounts = services.NewAccountService(suite.store, clock)
	suite.reader = services.NewTransactionService(suite.store, clock)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (suite *LedgerServiceTestSuite) newAccount(name string, initial decimal.Decimal) *domain.Account {
	acc, err := suite.accounts.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Name:           name,
		Kind:           domain.AccountKindBank,
		InitialBalance: initial,
	})
	suite.Require().NoError(err)
	return acc
}

func (suite *LedgerServiceTestSuite) balance(accountID string) decimal.Decimal {
	acc, err := suite.accounts.GetAccountByID(suite.ctx, accountID)
	suite.Require().NoError(err)
	return acc.Balance
}

// assertBalanceMatchesHistory checks that the stored balance equals the signed sum of the account's transactions.
func (suite *LedgerServiceTestSuite) assertBalanceMatchesHistory(accountID string) {
	txns, err := suite.store.Repositories().TransactionRepo.FindTransactionsInRange(suite.ctx, nil, nil)
	suite.Require().NoError(err)
	sum := accounting.SumEffects(txns)[accountID]
	got := suite.balance(accountID)
	suite.True(sum.Equal(got), "balance %s, history sums to %s", got, sum)
}

func (suite *LedgerServiceTestSuite) record(accountID string, kind domain.TransactionKind, amt, category string) *domain.Transaction {
	txn, _, err := suite.ledger.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Description: category + " entry",
		Amount:      amount(amt),
		Kind:        kind,
		Category:    category,
		AccountID:   accountID,
	})
	suite.Require().NoError(err)
	return txn
}

func (suite *LedgerServiceTestSuite) TestIncomeThenExpenseSummary() {
	acc := suite.newAccount("Checking", decimal.Zero)

	_, after, err := suite.ledger.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Description: "Salary", Amount: amount("5000"), Kind: domain.TransactionKindIncome, Category: "Salary", AccountID: acc.AccountID,
	})
	suite.Require().NoError(err)
	suite.True(amount("5000").Equal(after.Balance))

	_, after, err = suite.ledger.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Description: "Groceries", Amount: amount("150"), Kind: domain.TransactionKindExpense, Category: "Food & Dining", AccountID: acc.AccountID,
	})
	suite.Require().NoError(err)
	suite.True(amount("4850").Equal(after.Balance))

	summary, err := suite.reader.GetSummary(suite.ctx, nil, nil)
	suite.Require().NoError(err)
	suite.True(amount("5000").Equal(summary.TotalIncome))
	suite.True(amount("150").Equal(summary.TotalExpense))
	suite.True(amount("4850").Equal(summary.Balance))
}

func (suite *LedgerServiceTestSuite) TestDefaultedDatesAreToday() {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	acc := suite.newAccount("Cash box", amount("40"))
	other := suite.newAccount("Jar", decimal.Zero)

	txn := suite.record(acc.AccountID, domain.TransactionKindIncome, "10", "Gift")
	suite.True(today.Equal(txn.Date))
	suite.True(fixedNow.Equal(txn.CreatedAt))

	transfer, err := suite.ledger.TransferMoney(suite.ctx, dto.TransferRequest{
		FromAccountID: acc.AccountID, ToAccountID: other.AccountID, Amount: amount("5"),
	})
	suite.Require().NoError(err)
	suite.True(txn.Date.Equal(transfer.Debit.Date), "create and transfer default to the same date")

	opening, err := suite.store.Repositories().TransactionRepo.FindTransactionsInRange(suite.ctx, &today, &today)
	suite.Require().NoError(err)
	suite.Len(opening, 4, "opening balance, gift and both transfer legs")
}

func (suite *LedgerServiceTestSuite) TestCreateValidation() {
	acc := suite.newAccount("Checking", decimal.Zero)
	base := dto.CreateTransactionRequest{
		Description: "x", Amount: amount("1"), Kind: domain.TransactionKindIncome, Category: "Salary", AccountID: acc.AccountID,
	}

	tests := []struct {
		name   string
		mutate func(r *dto.CreateTransactionRequest)
	}{
		{name: "zero amount", mutate: func(r *dto.CreateTransactionRequest) { r.Amount = decimal.Zero }},
		{name: "negative amount", mutate: func(r *dto.CreateTransactionRequest) { r.Amount = amount("-5") }},
		{name: "blank description", mutate: func(r *dto.CreateTransactionRequest) { r.Description = "   " }},
		{name: "blank category", mutate: func(r *dto.CreateTransactionRequest) { r.Category = "" }},
		{name: "unknown kind", mutate: func(r *dto.CreateTransactionRequest) { r.Kind = "Refund" }},
		{name: "unknown account", mutate: func(r *dto.CreateTransactionRequest) { r.AccountID = "missing" }},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			req := base
			tt.mutate(&req)
			_, _, err := suite.ledger.CreateTransaction(suite.ctx, req)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.True(suite.balance(acc.AccountID).IsZero(), "rejected creates must not move the balance")
}

func (suite *LedgerServiceTestSuite) TestUpdateAmountOnly() {
	acc := suite.newAccount("Checking", amount("1000"))
	txn := suite.record(acc.AccountID, domain.TransactionKindExpense, "200", "Shopping")
	suite.True(amount("800").Equal(suite.balance(acc.AccountID)))

	_, err := suite.ledger.UpdateTransaction(suite.ctx, txn.TransactionID, dto.UpdateTransactionRequest{
		Description: txn.Description, Amount: amount("50"), Kind: txn.Kind, Category: txn.Category, AccountID: acc.AccountID,
	})
	suite.Require().NoError(err)

	// 800 + 200 - 50
	suite.True(amount("950").Equal(suite.balance(acc.AccountID)))
	suite.assertBalanceMatchesHistory(acc.AccountID)
}

func (suite *LedgerServiceTestSuite) TestUpdateMovesBetweenAccountsAndFlipsKind() {
	a := suite.newAccount("A", amount("100"))
	b := suite.newAccount("B", amount("100"))
	txn := suite.record(a.AccountID, domain.TransactionKindExpense, "30", "Travel")

	updated, err := suite.ledger.UpdateTransaction(suite.ctx, txn.TransactionID, dto.UpdateTransactionRequest{
		Description: "Refund", Amount: amount("30"), Kind: domain.TransactionKindIncome, Category: "Refund", AccountID: b.AccountID,
	})
	suite.Require().NoError(err)
	suite.True(txn.Date.Equal(updated.Date), "a missing date keeps the stored one")
	suite.True(txn.CreatedAt.Equal(updated.CreatedAt))

	suite.True(amount("100").Equal(suite.balance(a.AccountID)))
	suite.True(amount("130").Equal(suite.balance(b.AccountID)))
	suite.assertBalanceMatchesHistory(a.AccountID)
	suite.assertBalanceMatchesHistory(b.AccountID)
}

func (suite *LedgerServiceTestSuite) TestUpdateFailuresLeaveStateUntouched() {
	acc := suite.newAccount("Checking", amount("100"))
	txn := suite.record(acc.AccountID, domain.TransactionKindExpense, "40", "Utilities")

	_, err := suite.ledger.UpdateTransaction(suite.ctx, "missing", dto.UpdateTransactionRequest{
		Description: "x", Amount: amount("1"), Kind: domain.TransactionKindIncome, Category: "x", AccountID: acc.AccountID,
	})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.ledger.UpdateTransaction(suite.ctx, txn.TransactionID, dto.UpdateTransactionRequest{
		Description: "x", Amount: amount("1"), Kind: domain.TransactionKindIncome, Category: "x", AccountID: "gone",
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.True(amount("60").Equal(suite.balance(acc.AccountID)))
	stored, err := suite.reader.GetTransactionByID(suite.ctx, txn.TransactionID)
	suite.Require().NoError(err)
	suite.True(amount("40").Equal(stored.Amount))
}

func (suite *LedgerServiceTestSuite) TestCreateThenDeleteIsIdentity() {
	acc := suite.newAccount("Checking", amount("250.75"))
	before := suite.balance(acc.AccountID)

	txn := suite.record(acc.AccountID, domain.TransactionKindExpense, "99.99", "Entertainment")
	suite.Require().NoError(suite.ledger.DeleteTransaction(suite.ctx, txn.TransactionID))

	suite.True(before.Equal(suite.balance(acc.AccountID)))
	_, err := suite.reader.GetTransactionByID(suite.ctx, txn.TransactionID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.ErrorIs(suite.ledger.DeleteTransaction(suite.ctx, txn.TransactionID), apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestTransfer() {
	from := suite.newAccount("Main", amount("1000"))
	to := suite.newAccount("Wallet", decimal.Zero)

	transfer, err := suite.ledger.TransferMoney(suite.ctx, dto.TransferRequest{
		FromAccountID: from.AccountID, ToAccountID: to.AccountID, Amount: amount("500"),
	})
	suite.Require().NoError(err)

	suite.Equal(domain.TransactionKindExpense, transfer.Debit.Kind)
	suite.Equal(domain.TransactionKindIncome, transfer.Credit.Kind)
	suite.Equal(domain.TransferCategory, transfer.Debit.Category)
	suite.Equal(domain.TransferCategory, transfer.Credit.Category)
	suite.Equal("Transfer from Main to Wallet", transfer.Debit.Description)
	suite.True(transfer.Debit.Amount.Equal(transfer.Credit.Amount))
	suite.True(fixedNow.Truncate(24 * time.Hour).Equal(transfer.Debit.Date))

	suite.True(amount("500").Equal(transfer.From.Balance))
	suite.True(amount("500").Equal(transfer.To.Balance))
	suite.True(amount("500").Equal(suite.balance(from.AccountID)))
	suite.True(amount("500").Equal(suite.balance(to.AccountID)))
	suite.assertBalanceMatchesHistory(from.AccountID)
	suite.assertBalanceMatchesHistory(to.AccountID)
}

func (suite *LedgerServiceTestSuite) TestTransferRejections() {
	a := suite.newAccount("A", amount("10"))
	b := suite.newAccount("B", decimal.Zero)

	_, err := suite.ledger.TransferMoney(suite.ctx, dto.TransferRequest{FromAccountID: a.AccountID, ToAccountID: a.AccountID, Amount: amount("1")})
	suite.ErrorIs(err, apperrors.ErrBusinessRule)

	_, err = suite.ledger.TransferMoney(suite.ctx, dto.TransferRequest{FromAccountID: a.AccountID, ToAccountID: b.AccountID, Amount: decimal.Zero})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.ledger.TransferMoney(suite.ctx, dto.TransferRequest{FromAccountID: a.AccountID, ToAccountID: "missing", Amount: amount("1")})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.True(amount("10").Equal(suite.balance(a.AccountID)))
	txns, err := suite.reader.ListTransactions(suite.ctx, domain.TransactionFilter{Category: domain.TransferCategory})
	suite.Require().NoError(err)
	suite.Empty(txns)
}

func (suite *LedgerServiceTestSuite) TestOverdraftAllowedByDefault() {
	a := suite.newAccount("A", amount("10"))
	b := suite.newAccount("B", decimal.Zero)

	_, err := suite.ledger.TransferMoney(suite.ctx, dto.TransferRequest{FromAccountID: a.AccountID, ToAccountID: b.AccountID, Amount: amount("25")})
	suite.Require().NoError(err)
	suite.True(amount("-15").Equal(suite.balance(a.AccountID)))
}

func (suite *LedgerServiceTestSuite) TestOverdraftProtection() {
	guarded := services.NewLedgerService(suite.store, services.WithOverdraftProtection(true))
	a := suite.newAccount("A", amount("10"))
	b := suite.newAccount("B", decimal.Zero)

	_, err := guarded.TransferMoney(suite.ctx, dto.TransferRequest{FromAccountID: a.AccountID, ToAccountID: b.AccountID, Amount: amount("25")})
	suite.ErrorIs(err, apperrors.ErrBusinessRule)
	suite.True(amount("10").Equal(suite.balance(a.AccountID)))
}

func (suite *LedgerServiceTestSuite) TestAdjustBalanceWritesNoTransaction() {
	acc := suite.newAccount("Checking", decimal.Zero)

	updated, err := suite.ledger.AdjustBalance(suite.ctx, acc.AccountID, dto.AdjustBalanceRequest{Amount: amount("42"), Kind: domain.TransactionKindIncome})
	suite.Require().NoError(err)
	suite.True(amount("42").Equal(updated.Balance))

	updated, err = suite.ledger.AdjustBalance(suite.ctx, acc.AccountID, dto.AdjustBalanceRequest{Amount: amount("2"), Kind: domain.TransactionKindExpense})
	suite.Require().NoError(err)
	suite.True(amount("40").Equal(updated.Balance))

	stats, err := suite.accounts.GetAccountByID(suite.ctx, acc.AccountID)
	suite.Require().NoError(err)
	suite.Zero(stats.TransactionCount)

	_, err = suite.ledger.AdjustBalance(suite.ctx, "missing", dto.AdjustBalanceRequest{Amount: amount("1"), Kind: domain.TransactionKindIncome})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestMixedSequenceKeepsBalanceDerivable() {
	a := suite.newAccount("A", amount("300"))
	b := suite.newAccount("B", amount("50"))

	t1 := suite.record(a.AccountID, domain.TransactionKindIncome, "120.10", "Salary")
	t2 := suite.record(a.AccountID, domain.TransactionKindExpense, "33.33", "Food & Dining")
	suite.record(b.AccountID, domain.TransactionKindExpense, "5", "Transportation")
	_, err := suite.ledger.TransferMoney(suite.ctx, dto.TransferRequest{FromAccountID: a.AccountID, ToAccountID: b.AccountID, Amount: amount("77.7")})
	suite.Require().NoError(err)
	_, err = suite.ledger.UpdateTransaction(suite.ctx, t1.TransactionID, dto.UpdateTransactionRequest{
		Description: "Salary", Amount: amount("200"), Kind: domain.TransactionKindIncome, Category: "Salary", AccountID: b.AccountID,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.ledger.DeleteTransaction(suite.ctx, t2.TransactionID))

	suite.assertBalanceMatchesHistory(a.AccountID)
	suite.assertBalanceMatchesHistory(b.AccountID)

	total := suite.balance(a.AccountID).Add(suite.balance(b.AccountID))
	suite.True(amount("545").Equal(total), "total %s", total)
}

func (suite *LedgerServiceTestSuite) TestCancelledContextCommitsNothing() {
	acc := suite.newAccount("Checking", decimal.Zero)
	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()

	_, _, err := suite.ledger.CreateTransaction(ctx, dto.CreateTransactionRequest{
		Description: "late", Amount: amount("5"), Kind: domain.TransactionKindIncome, Category: "Gift", AccountID: acc.AccountID,
	})
	suite.Error(err)
	suite.True(suite.balance(acc.AccountID).IsZero())
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
