package repositories

import (
	"context"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
)

// CategoryReader defines read operations for categories
type CategoryReader interface {
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// FindCategoryByNameAndKind matches the (name, kind) unique key exactly.
	FindCategoryByNameAndKind(ctx context.Context, name string, kind domain.TransactionKind) (*domain.Category, error)

	// ListCategories returns categories ordered by kind then name. A nil kind returns all.
	ListCategories(ctx context.Context, kind *domain.TransactionKind) ([]domain.Category, error)
}

// CategoryWriter defines write operations for categories
type CategoryWriter interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, categoryID string) error
	DeleteAllCategories(ctx context.Context) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
