package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/adapters/database/memory"
	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/income_expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/income_expense_tracker/internal/core/services"
	"github.com/SscSPs/income_expense_tracker/internal/dto"
	"github.com/SscSPs/income_expense_tracker/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// fakeRemote is an in-process BackupStore.
type fakeRemote struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (f *fakeRemote) Upload(_ context.Context, name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[name] = append([]byte(nil), data...)
	return nil
}

func (f *fakeRemote) Download(_ context.Context, name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[name]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return data, nil
}

// fakeAuthorizer accepts the code "good" and hands out a single shared remote.
type fakeAuthorizer struct {
	remote *fakeRemote
}

func (a *fakeAuthorizer) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (a *fakeAuthorizer) Exchange(_ context.Context, code string) (string, error) {
	if code != "good" {
		return "", errors.New("invalid_grant")
	}
	return `{"access_token":"t"}`, nil
}

func (a *fakeAuthorizer) Open(_ context.Context, credentials string) (portsrepo.BackupStore, error) {
	if credentials == "" {
		return nil, errors.New("no credentials")
	}
	return a.remote, nil
}

type SyncServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	remote    *fakeRemote
	container *portssvc.ServiceContainer
}

func (suite *SyncServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.remote = &fakeRemote{files: map[string][]byte{}}
	suite.container = services.NewServiceContainer(memory.NewStore(), services.ContainerConfig{
		BackupAuthorizer: &fakeAuthorizer{remote: suite.remote},
	}, services.WithClock(func() time.Time { return fixedNow }))
	suite.Require().NoError(suite.container.Seeder.SeedDefaults(suite.ctx))
}

func (suite *SyncServiceTestSuite) connect() {
	suite.Require().NoError(suite.container.Sync.CompleteAuth(suite.ctx, "good"))
}

func (suite *SyncServiceTestSuite) TestAuthLifecycle() {
	ok, err := suite.container.Sync.IsAuthenticated(suite.ctx)
	suite.Require().NoError(err)
	suite.False(ok)

	url, err := suite.container.Sync.AuthURL("abc")
	suite.Require().NoError(err)
	suite.Contains(url, "state=abc")

	suite.ErrorIs(suite.container.Sync.CompleteAuth(suite.ctx, "bad"), apperrors.ErrValidation)
	suite.ErrorIs(suite.container.Sync.CompleteAuth(suite.ctx, ""), apperrors.ErrValidation)

	suite.connect()
	ok, err = suite.container.Sync.IsAuthenticated(suite.ctx)
	suite.Require().NoError(err)
	suite.True(ok)

	suite.Require().NoError(suite.container.Sync.Disconnect(suite.ctx))
	ok, err = suite.container.Sync.IsAuthenticated(suite.ctx)
	suite.Require().NoError(err)
	suite.False(ok)
	suite.NoError(suite.container.Sync.Disconnect(suite.ctx), "disconnecting twice is harmless")
}

func (suite *SyncServiceTestSuite) TestBackupRequiresConnection() {
	_, err := suite.container.Sync.Backup(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrBusinessRule)
	_, err = suite.container.Sync.Restore(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrBusinessRule)
}

func (suite *SyncServiceTestSuite) TestRestoreWithoutBackup() {
	suite.connect()
	_, err := suite.container.Sync.Restore(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SyncServiceTestSuite) TestBackupThenRestoreRoundTrip() {
	suite.connect()

	acc, err := suite.container.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Name: "Travel fund", Kind: domain.AccountKindSavings, InitialBalance: decimal.RequireFromString("321.45"),
	})
	suite.Require().NoError(err)

	ts, err := suite.container.Sync.Backup(suite.ctx)
	suite.Require().NoError(err)
	suite.True(fixedNow.Equal(ts))
	suite.Contains(suite.remote.files, domain.BackupFileName)

	// Diverge after the backup.
	_, _, err = suite.container.Ledger.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Description: "Flights", Amount: decimal.NewFromInt(300), Kind: domain.TransactionKindExpense, Category: "Travel", AccountID: acc.AccountID,
	})
	suite.Require().NoError(err)
	_, err = suite.container.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{Name: "Later", Kind: domain.AccountKindCash})
	suite.Require().NoError(err)

	restoredAt, err := suite.container.Sync.Restore(suite.ctx)
	suite.Require().NoError(err)
	suite.True(ts.Equal(restoredAt))

	accounts, err := suite.container.Account.ListAccounts(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(accounts, len(domain.DefaultAccounts)+1)

	restored, err := suite.container.Account.GetAccountByID(suite.ctx, acc.AccountID)
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("321.45").Equal(restored.Balance))
	suite.Equal(1, restored.TransactionCount)

	categories, err := suite.container.Category.ListCategories(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.Len(categories, len(domain.DefaultCategories))

	ok, err := suite.container.Sync.IsAuthenticated(suite.ctx)
	suite.Require().NoError(err)
	suite.True(ok, "restore keeps the stored credentials")
}

func (suite *SyncServiceTestSuite) TestRestoreRejectsForeignFile() {
	suite.connect()
	suite.remote.files[domain.BackupFileName] = []byte(`{"version":"9.9","accounts":[]}`)
	_, err := suite.container.Sync.Restore(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.remote.files[domain.BackupFileName] = []byte(`not json`)
	_, err = suite.container.Sync.Restore(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrValidation)

	accounts, err := suite.container.Account.ListAccounts(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(accounts, len(domain.DefaultAccounts))
}

// decodeBackup reads the last uploaded snapshot.
func (suite *SyncServiceTestSuite) decodeBackup() domain.Snapshot {
	suite.remote.mu.Lock()
	data := suite.remote.files[domain.BackupFileName]
	suite.remote.mu.Unlock()

	var snap domain.Snapshot
	suite.Require().NoError(json.Unmarshal(data, &snap))
	return snap
}

func (suite *SyncServiceTestSuite) TestBackupIsConsistentWhileTransfersRun() {
	suite.connect()
	accounts, err := suite.container.Account.ListAccounts(suite.ctx)
	suite.Require().NoError(err)
	from, to := accounts[0].AccountID, accounts[1].AccountID

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			_, _ = suite.container.Ledger.TransferMoney(suite.ctx, dto.TransferRequest{
				FromAccountID: from, ToAccountID: to, Amount: decimal.NewFromInt(1),
			})
		}
	}()

	for i := 0; i < 200; i++ {
		_, err := suite.container.Sync.Backup(suite.ctx)
		suite.Require().NoError(err)

		snap := suite.decodeBackup()
		sums := accounting.SumEffects(snap.Transactions)
		for _, acc := range snap.Accounts {
			suite.Require().True(acc.Balance.Equal(sums[acc.AccountID]),
				"backup %d: account %s balance %s, transactions sum to %s", i, acc.Name, acc.Balance, sums[acc.AccountID])
		}
		suite.Require().Empty(snap.Adjustments)
	}
	close(stop)
	<-done
}

func (suite *SyncServiceTestSuite) TestBackupCarriesManualAdjustments() {
	suite.connect()
	acc, err := suite.container.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Name: "Wallet", Kind: domain.AccountKindCash, InitialBalance: decimal.NewFromInt(100),
	})
	suite.Require().NoError(err)
	_, err = suite.container.Ledger.AdjustBalance(suite.ctx, acc.AccountID, dto.AdjustBalanceRequest{
		Amount: decimal.NewFromInt(15), Kind: domain.TransactionKindExpense,
	})
	suite.Require().NoError(err)

	_, err = suite.container.Sync.Backup(suite.ctx)
	suite.Require().NoError(err)
	snap := suite.decodeBackup()
	suite.True(decimal.NewFromInt(-15).Equal(snap.Adjustments[acc.AccountID]))

	_, err = suite.container.Sync.Restore(suite.ctx)
	suite.Require().NoError(err)
	restored, err := suite.container.Account.GetAccountByID(suite.ctx, acc.AccountID)
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(85).Equal(restored.Balance))
}

func (suite *SyncServiceTestSuite) TestRestoreRejectsBalancesThatDisagreeWithTransactions() {
	suite.connect()
	acc, err := suite.container.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Name: "Wallet", Kind: domain.AccountKindCash, InitialBalance: decimal.NewFromInt(100),
	})
	suite.Require().NoError(err)
	_, err = suite.container.Sync.Backup(suite.ctx)
	suite.Require().NoError(err)

	snap := suite.decodeBackup()
	for i := range snap.Accounts {
		if snap.Accounts[i].AccountID == acc.AccountID {
			snap.Accounts[i].Balance = decimal.NewFromInt(40)
		}
	}
	data, err := json.Marshal(snap)
	suite.Require().NoError(err)
	suite.remote.files[domain.BackupFileName] = data

	// Diverge so a rejected restore is visible.
	_, _, err = suite.container.Ledger.CreateTransaction(suite.ctx, dto.CreateTransactionRequest{
		Description: "Lunch", Amount: decimal.NewFromInt(10), Kind: domain.TransactionKindExpense, Category: "Food & Dining", AccountID: acc.AccountID,
	})
	suite.Require().NoError(err)

	_, err = suite.container.Sync.Restore(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrValidation)

	current, err := suite.container.Account.GetAccountByID(suite.ctx, acc.AccountID)
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(90).Equal(current.Balance))
}

func (suite *SyncServiceTestSuite) TestRestoreRejectsOrphanTransactions() {
	suite.connect()
	snap := domain.Snapshot{
		Version: domain.BackupVersion,
		Transactions: []domain.Transaction{{
			TransactionID: "t-1", Amount: decimal.NewFromInt(5), Kind: domain.TransactionKindIncome, AccountID: "missing",
		}},
	}
	data, err := json.Marshal(snap)
	suite.Require().NoError(err)
	suite.remote.files[domain.BackupFileName] = data

	_, err = suite.container.Sync.Restore(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestSyncService(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}

func TestSyncServiceNotConfigured(t *testing.T) {
	svc := services.NewSyncService(memory.NewStore(), nil)
	ok, err := svc.IsAuthenticated(context.Background())
	if err != nil || ok {
		t.Fatalf("IsAuthenticated() = %v, %v; want false, nil", ok, err)
	}
	if _, err := svc.AuthURL("s"); !errors.Is(err, apperrors.ErrBusinessRule) {
		t.Fatalf("AuthURL() error = %v; want business rule error", err)
	}
}
