package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/income_expense_tracker/internal/core/ports/services"
	"github.com/SscSPs/income_expense_tracker/internal/dto"
	"github.com/google/uuid"
)

type categoryService struct {
	BaseService
	store portsrepo.Store
}

// NewCategoryService creates a new category service
func NewCategoryService(store portsrepo.Store, options ...ServiceOption) portssvc.CategorySvcFacade {
	return &categoryService{
		BaseService: newBaseService(applyOptions(options)),
		store:       store,
	}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func normalizeCategoryFields(name, description string) (string, string, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	switch {
	case name == "":
		return "", "", apperrors.NewValidationError("name is required")
	case len(name) > 100:
		return "", "", apperrors.NewValidationError("name must be at most 100 characters")
	case len(description) > 500:
		return "", "", apperrors.NewValidationError("description must be at most 500 characters")
	}
	return name, description, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error) {
	name, description, err := normalizeCategoryFields(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if !req.Kind.IsValid() {
		return nil, apperrors.NewValidationError("kind must be Income or Expense")
	}

	category := domain.Category{
		CategoryID:  uuid.NewString(),
		Name:        name,
		Kind:        req.Kind,
		Description: description,
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.CategoryRepo.FindCategoryByNameAndKind(ctx, name, req.Kind); err == nil {
			return apperrors.NewDuplicateError("category %q already exists for type %s", name, req.Kind)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to check category name: %w", err)
		}

		category.Stamp(s.Now())
		return repos.CategoryRepo.SaveCategory(ctx, category)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create category", slog.String("category_name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Category created", slog.String("category_id", category.CategoryID))
	return &category, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, categoryID string) (*domain.CategoryWithStats, error) {
	repos := s.store.Repositories()
	category, err := repos.CategoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("category", categoryID)
		}
		s.LogError(ctx, err, "Failed to get category", slog.String("category_id", categoryID))
		return nil, err
	}

	usage, err := repos.TransactionRepo.CategoryUsage(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load category usage")
		return nil, err
	}
	return &domain.CategoryWithStats{Category: *category, CategoryUsage: usage[domain.CategoryKey{Name: category.Name, Kind: category.Kind}]}, nil
}

func (s *categoryService) ListCategories(ctx context.Context, kind *domain.TransactionKind) ([]domain.CategoryWithStats, error) {
	if kind != nil && !kind.IsValid() {
		return nil, apperrors.NewValidationError("type must be Income or Expense")
	}

	repos := s.store.Repositories()
	categories, err := repos.CategoryRepo.ListCategories(ctx, kind)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories")
		return nil, err
	}
	usage, err := repos.TransactionRepo.CategoryUsage(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load category usage")
		return nil, err
	}

	result := make([]domain.CategoryWithStats, len(categories))
	for i, c := range categories {
		result[i] = domain.CategoryWithStats{Category: c, CategoryUsage: usage[domain.CategoryKey{Name: c.Name, Kind: c.Kind}]}
	}
	return result, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	name, description, err := normalizeCategoryFields(req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	var updated domain.Category
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		category, err := repos.CategoryRepo.FindCategoryByID(ctx, categoryID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError("category", categoryID)
			}
			return fmt.Errorf("failed to load category: %w", err)
		}
		if category.IsDefault {
			return apperrors.NewBusinessRuleError("default category %q cannot be modified", category.Name)
		}

		if category.Name != name {
			other, err := repos.CategoryRepo.FindCategoryByNameAndKind(ctx, name, category.Kind)
			switch {
			case err == nil && other.CategoryID != categoryID:
				return apperrors.NewDuplicateError("category %q already exists for type %s", name, category.Kind)
			case err != nil && !errors.Is(err, apperrors.ErrNotFound):
				return fmt.Errorf("failed to check category name: %w", err)
			}
		}

		// Transactions keep the old name: the link is by string.
		category.Name = name
		category.Description = description
		category.Touch(s.Now())
		if err := repos.CategoryRepo.UpdateCategory(ctx, *category); err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}
		updated = *category
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		return nil, err
	}

	s.LogInfo(ctx, "Category updated", slog.String("category_id", categoryID))
	return &updated, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, categoryID string) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		category, err := repos.CategoryRepo.FindCategoryByID(ctx, categoryID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewNotFoundError("category", categoryID)
			}
			return fmt.Errorf("failed to load category: %w", err)
		}
		if category.IsDefault {
			return apperrors.NewBusinessRuleError("default category %q cannot be deleted", category.Name)
		}

		count, err := repos.TransactionRepo.CountTransactionsByCategory(ctx, category.Name)
		if err != nil {
			return fmt.Errorf("failed to count category transactions: %w", err)
		}
		if count > 0 {
			return apperrors.NewBusinessRuleError("category %q is used by %d transactions and cannot be deleted", category.Name, count)
		}

		return repos.CategoryRepo.DeleteCategory(ctx, categoryID)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to delete category", slog.String("category_id", categoryID))
		return err
	}

	s.LogInfo(ctx, "Category deleted", slog.String("category_id", categoryID))
	return nil
}
