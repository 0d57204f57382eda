package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
)

type categoryRepository struct {
	b *binding
}

var _ portsrepo.CategoryRepositoryFacade = (*categoryRepository)(nil)

func (r *categoryRepository) FindCategoryByID(_ context.Context, categoryID string) (*domain.Category, error) {
	var found *domain.Category
	err := r.b.read(func(st *state) error {
		c, ok := st.categories[categoryID]
		if !ok {
			return apperrors.ErrNotFound
		}
		found = &c
		return nil
	})
	return found, err
}

func (r *categoryRepository) FindCategoryByNameAndKind(_ context.Context, name string, kind domain.TransactionKind) (*domain.Category, error) {
	var found *domain.Category
	err := r.b.read(func(st *state) error {
		for _, c := range st.categories {
			if c.Name == name && c.Kind == kind {
				found = &c
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
	return found, err
}

func (r *categoryRepository) ListCategories(_ context.Context, kind *domain.TransactionKind) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.b.read(func(st *state) error {
		categories = make([]domain.Category, 0, len(st.categories))
		for _, c := range st.categories {
			if kind == nil || c.Kind == *kind {
				categories = append(categories, c)
			}
		}
		return nil
	})
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Kind != categories[j].Kind {
			return categories[i].Kind < categories[j].Kind
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, err
}

func (r *categoryRepository) SaveCategory(_ context.Context, category domain.Category) error {
	return r.b.write(func(st *state) error {
		if _, exists := st.categories[category.CategoryID]; exists {
			return apperrors.ErrDuplicate
		}
		for _, other := range st.categories {
			if other.Name == category.Name && other.Kind == category.Kind {
				return apperrors.ErrDuplicate
			}
		}
		st.categories[category.CategoryID] = category
		return nil
	})
}

func (r *categoryRepository) UpdateCategory(_ context.Context, category domain.Category) error {
	return r.b.write(func(st *state) error {
		current, ok := st.categories[category.CategoryID]
		if !ok {
			return apperrors.ErrNotFound
		}
		for id, other := range st.categories {
			if id != category.CategoryID && other.Name == category.Name && other.Kind == current.Kind {
				return apperrors.ErrDuplicate
			}
		}
		current.Name = category.Name
		current.Description = category.Description
		current.UpdatedAt = category.UpdatedAt
		st.categories[category.CategoryID] = current
		return nil
	})
}

func (r *categoryRepository) DeleteCategory(_ context.Context, categoryID string) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.categories[categoryID]; !ok {
			return apperrors.ErrNotFound
		}
		delete(st.categories, categoryID)
		return nil
	})
}

func (r *categoryRepository) DeleteAllCategories(_ context.Context) error {
	return r.b.write(func(st *state) error {
		st.categories = map[string]domain.Category{}
		return nil
	})
}
