package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/income_expense_tracker/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type seedService struct {
	BaseService
	store portsrepo.Store
}

// NewSeedService creates the service that writes default accounts and categories.
func NewSeedService(store portsrepo.Store, options ...ServiceOption) portssvc.SeederSvc {
	return &seedService{
		BaseService: newBaseService(applyOptions(options)),
		store:       store,
	}
}

var _ portssvc.SeederSvc = (*seedService)(nil)

func (s *seedService) SeedDefaults(ctx context.Context) error {
	var accountsAdded, categoriesAdded int
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		now := s.Now()

		for _, def := range domain.DefaultAccounts {
			_, err := repos.AccountRepo.FindAccountByName(ctx, def.Name)
			if err == nil {
				continue
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("failed to look up default account %q: %w", def.Name, err)
			}
			account := def
			account.AccountID = uuid.NewString()
			account.Balance = decimal.Zero
			account.IsDefault = true
			account.Stamp(now)
			if err := repos.AccountRepo.SaveAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to seed account %q: %w", def.Name, err)
			}
			accountsAdded++
		}

		for _, def := range domain.DefaultCategories {
			_, err := repos.CategoryRepo.FindCategoryByNameAndKind(ctx, def.Name, def.Kind)
			if err == nil {
				continue
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("failed to look up default category %q: %w", def.Name, err)
			}
			category := def
			category.CategoryID = uuid.NewString()
			category.IsDefault = true
			category.Stamp(now)
			if err := repos.CategoryRepo.SaveCategory(ctx, category); err != nil {
				return fmt.Errorf("failed to seed category %q: %w", def.Name, err)
			}
			categoriesAdded++
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to seed default data")
		return err
	}

	if accountsAdded > 0 || categoriesAdded > 0 {
		s.LogInfo(ctx, "Seeded default data",
			slog.Int("accounts", accountsAdded),
			slog.Int("categories", categoriesAdded))
	}
	return nil
}
