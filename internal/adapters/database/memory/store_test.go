package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/adapters/database/memory"
	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wallet(balance string) domain.Account {
	return domain.Account{AccountID: "a-1", Name: "Wallet", Kind: domain.AccountKindCash, Balance: decimal.RequireFromString(balance)}
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	err := store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if err := repos.AccountRepo.SaveAccount(ctx, wallet("10")); err != nil {
			return err
		}
		return repos.AccountRepo.UpdateAccountBalances(ctx, map[string]decimal.Decimal{"a-1": decimal.NewFromInt(-3)}, time.Now())
	})
	require.NoError(t, err)

	acc, err := store.Repositories().AccountRepo.FindAccountByID(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, "7", acc.Balance.String())
}

func TestWithinTx_DiscardsOnError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Repositories().AccountRepo.SaveAccount(ctx, wallet("10")))

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if err := repos.AccountRepo.UpdateAccountBalances(ctx, map[string]decimal.Decimal{"a-1": decimal.NewFromInt(5)}, time.Now()); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	acc, err := store.Repositories().AccountRepo.FindAccountByID(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, "10", acc.Balance.String())
}

func TestWithinTx_DiscardsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := memory.NewStore()

	err := store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		err := repos.AccountRepo.SaveAccount(ctx, wallet("1"))
		cancel()
		return err
	})
	assert.ErrorIs(t, err, context.Canceled)

	accounts, err := store.Repositories().AccountRepo.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestAccountNamesAreCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, wallet("0")))

	dup := wallet("0")
	dup.AccountID = "a-2"
	dup.Name = "WALLET"
	assert.ErrorIs(t, repos.AccountRepo.SaveAccount(ctx, dup), apperrors.ErrDuplicate)

	found, err := repos.AccountRepo.FindAccountByName(ctx, "wallet")
	require.NoError(t, err)
	assert.Equal(t, "a-1", found.AccountID)
}

func TestListTransactionsOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, wallet("0")))

	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id, category string, day int, createdOffset time.Duration) domain.Transaction {
		txn := domain.Transaction{
			TransactionID: id,
			Amount:        decimal.NewFromInt(1),
			Kind:          domain.TransactionKindExpense,
			Category:      category,
			AccountID:     "a-1",
			Date:          time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		}
		txn.Stamp(created.Add(createdOffset))
		return txn
	}
	require.NoError(t, repos.TransactionRepo.SaveTransactions(ctx, []domain.Transaction{
		mk("t-1", "Groceries", 10, 0),
		mk("t-2", "Travel", 10, time.Minute),
		mk("t-3", "Grocery run", 2, 0),
	}))

	all, err := repos.TransactionRepo.ListTransactions(ctx, domain.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"t-2", "t-1", "t-3"}, []string{all[0].TransactionID, all[1].TransactionID, all[2].TransactionID})
	assert.Equal(t, "Wallet", all[0].AccountName)

	to := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	filtered, err := repos.TransactionRepo.ListTransactions(ctx, domain.TransactionFilter{Category: "GROC", ToDate: &to})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	err = repos.AccountRepo.DeleteAccount(ctx, "a-1")
	assert.ErrorIs(t, err, apperrors.ErrBusinessRule)
}

func TestWithinReadTx_SeesOneVersionAndKeepsNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Repositories().AccountRepo.SaveAccount(ctx, wallet("10")))

	err := store.WithinReadTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		// A writer commits while the read is in progress.
		require.NoError(t, store.WithinTx(ctx, func(ctx context.Context, w portsrepo.RepositoryProvider) error {
			return w.AccountRepo.UpdateAccountBalances(ctx, map[string]decimal.Decimal{"a-1": decimal.NewFromInt(5)}, time.Now())
		}))

		acc, err := repos.AccountRepo.FindAccountByID(ctx, "a-1")
		require.NoError(t, err)
		assert.Equal(t, "10", acc.Balance.String())

		return repos.AccountRepo.UpdateAccountBalances(ctx, map[string]decimal.Decimal{"a-1": decimal.NewFromInt(100)}, time.Now())
	})
	require.NoError(t, err)

	acc, err := store.Repositories().AccountRepo.FindAccountByID(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, "15", acc.Balance.String())
}
