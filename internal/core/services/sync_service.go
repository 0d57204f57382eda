package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/income_expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/income_expense_tracker/internal/utils/accounting"
	"golang.org/x/sync/errgroup"
)

// CredentialsSettingKey is the settings row holding the remote storage credentials.
const CredentialsSettingKey = "google_drive_token"

type syncService struct {
	BaseService
	store      portsrepo.Store
	authorizer portsrepo.BackupAuthorizer
}

// NewSyncService creates the backup/restore service. A nil authorizer means
// remote sync is not configured and every call reports so.
func NewSyncService(store portsrepo.Store, authorizer portsrepo.BackupAuthorizer, options ...ServiceOption) portssvc.SyncSvc {
	return &syncService{
		BaseService: newBaseService(applyOptions(options)),
		store:       store,
		authorizer:  authorizer,
	}
}

var _ portssvc.SyncSvc = (*syncService)(nil)

var errSyncNotConfigured = apperrors.NewBusinessRuleError("Google Drive sync is not configured")

func (s *syncService) IsAuthenticated(ctx context.Context) (bool, error) {
	if s.authorizer == nil {
		return false, nil
	}
	_, err := s.store.Repositories().SettingsRepo.GetSetting(ctx, CredentialsSettingKey)
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to read sync credentials")
		return false, err
	}
	return true, nil
}

func (s *syncService) AuthURL(state string) (string, error) {
	if s.authorizer == nil {
		return "", errSyncNotConfigured
	}
	return s.authorizer.AuthCodeURL(state), nil
}

func (s *syncService) CompleteAuth(ctx context.Context, code string) error {
	if s.authorizer == nil {
		return errSyncNotConfigured
	}
	if code == "" {
		return apperrors.NewValidationError("authorization code is required")
	}

	credentials, err := s.authorizer.Exchange(ctx, code)
	if err != nil {
		s.LogWarn(ctx, "Authorization code exchange failed", slog.String("error", err.Error()))
		return apperrors.NewAppError(apperrors.ErrValidation, "failed to complete Google authorization", err)
	}
	if err := s.store.Repositories().SettingsRepo.PutSetting(ctx, CredentialsSettingKey, credentials, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to store sync credentials")
		return err
	}

	s.LogInfo(ctx, "Google Drive connected")
	return nil
}

func (s *syncService) Disconnect(ctx context.Context) error {
	err := s.store.Repositories().SettingsRepo.DeleteSetting(ctx, CredentialsSettingKey)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to delete sync credentials")
		return err
	}
	s.LogInfo(ctx, "Google Drive disconnected")
	return nil
}

func (s *syncService) openBackupStore(ctx context.Context) (portsrepo.BackupStore, error) {
	if s.authorizer == nil {
		return nil, errSyncNotConfigured
	}
	credentials, err := s.store.Repositories().SettingsRepo.GetSetting(ctx, CredentialsSettingKey)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewBusinessRuleError("not authenticated with Google Drive")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sync credentials: %w", err)
	}
	return s.authorizer.Open(ctx, credentials)
}

// snapshot reads the whole ledger from one consistent view of the store.
func (s *syncService) snapshot(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{Timestamp: s.Now(), Version: domain.BackupVersion}

	err := s.store.WithinReadTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		var err error
		if snap.Accounts, err = repos.AccountRepo.ListAccounts(ctx); err != nil {
			return err
		}
		if snap.Categories, err = repos.CategoryRepo.ListCategories(ctx, nil); err != nil {
			return err
		}
		snap.Transactions, err = repos.TransactionRepo.FindTransactionsInRange(ctx, nil, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger for backup: %w", err)
	}

	if drift := accounting.BalanceDrift(snap.Accounts, snap.Transactions); len(drift) > 0 {
		snap.Adjustments = drift
	}
	return snap, nil
}

// verifySnapshot rejects files whose balances do not follow from their transactions.
func verifySnapshot(snap *domain.Snapshot) error {
	known := make(map[string]bool, len(snap.Accounts))
	for _, acc := range snap.Accounts {
		known[acc.AccountID] = true
	}
	for _, txn := range snap.Transactions {
		if !known[txn.AccountID] {
			return apperrors.NewValidationError("backup transaction %s references unknown account %s", txn.TransactionID, txn.AccountID)
		}
	}

	drift := accounting.BalanceDrift(snap.Accounts, snap.Transactions)
	for _, acc := range snap.Accounts {
		if !drift[acc.AccountID].Equal(snap.Adjustments[acc.AccountID]) {
			return apperrors.NewValidationError("backup balance of account %q does not match its transactions", acc.Name)
		}
	}
	for id, adj := range snap.Adjustments {
		if !known[id] && !adj.IsZero() {
			return apperrors.NewValidationError("backup adjusts unknown account %s", id)
		}
	}
	return nil
}

func (s *syncService) Backup(ctx context.Context) (time.Time, error) {
	var (
		remote portsrepo.BackupStore
		snap   *domain.Snapshot
	)

	// Opening the remote may refresh the OAuth token, so it overlaps the read.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		remote, err = s.openBackupStore(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap, err = s.snapshot(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logFailure(ctx, err, "Backup unavailable")
		return time.Time{}, err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.LogError(ctx, err, "Failed to encode snapshot")
		return time.Time{}, err
	}

	if err := remote.Upload(ctx, domain.BackupFileName, data); err != nil {
		s.LogError(ctx, err, "Failed to upload backup")
		return time.Time{}, fmt.Errorf("failed to upload backup: %w", err)
	}

	s.LogInfo(ctx, "Backup uploaded",
		slog.Int("accounts", len(snap.Accounts)),
		slog.Int("categories", len(snap.Categories)),
		slog.Int("transactions", len(snap.Transactions)),
		slog.Int("adjusted_accounts", len(snap.Adjustments)))
	return snap.Timestamp, nil
}

func (s *syncService) Restore(ctx context.Context) (time.Time, error) {
	remote, err := s.openBackupStore(ctx)
	if err != nil {
		s.logFailure(ctx, err, "Restore unavailable")
		return time.Time{}, err
	}

	data, err := remote.Download(ctx, domain.BackupFileName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return time.Time{}, apperrors.NewNotFoundError("backup", domain.BackupFileName)
		}
		s.LogError(ctx, err, "Failed to download backup")
		return time.Time{}, fmt.Errorf("failed to download backup: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return time.Time{}, apperrors.NewAppError(apperrors.ErrValidation, "backup file is not valid", err)
	}
	if snap.Version != domain.BackupVersion {
		return time.Time{}, apperrors.NewValidationError("unsupported backup version %q", snap.Version)
	}
	if err := verifySnapshot(&snap); err != nil {
		s.LogWarn(ctx, "Rejected inconsistent backup", slog.String("error", err.Error()))
		return time.Time{}, err
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		// Children first, parents last, then the reverse for inserts.
		if err := repos.TransactionRepo.DeleteAllTransactions(ctx); err != nil {
			return err
		}
		if err := repos.CategoryRepo.DeleteAllCategories(ctx); err != nil {
			return err
		}
		if err := repos.AccountRepo.DeleteAllAccounts(ctx); err != nil {
			return err
		}
		for _, acc := range snap.Accounts {
			if err := repos.AccountRepo.SaveAccount(ctx, acc); err != nil {
				return fmt.Errorf("failed to restore account %s: %w", acc.AccountID, err)
			}
		}
		for _, c := range snap.Categories {
			if err := repos.CategoryRepo.SaveCategory(ctx, c); err != nil {
				return fmt.Errorf("failed to restore category %s: %w", c.CategoryID, err)
			}
		}
		if len(snap.Transactions) > 0 {
			if err := repos.TransactionRepo.SaveTransactions(ctx, snap.Transactions); err != nil {
				return fmt.Errorf("failed to restore transactions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to restore backup")
		return time.Time{}, err
	}

	s.LogInfo(ctx, "Backup restored",
		slog.Time("snapshot_timestamp", snap.Timestamp),
		slog.Int("transactions", len(snap.Transactions)))
	return snap.Timestamp, nil
}
