package sqlite

import (
	"context"
	"fmt"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/income_expense_tracker/internal/models"
	"github.com/SscSPs/income_expense_tracker/internal/utils/mapping"
)

type categoryRepository struct {
	db querier
}

var _ portsrepo.CategoryRepositoryFacade = (*categoryRepository)(nil)

const categoryColumns = `category_id, name, kind, description, is_default, created_at, updated_at`

func scanCategory(row rowScanner) (domain.Category, error) {
	var m models.Category
	var createdAt, updatedAt string
	if err := row.Scan(&m.CategoryID, &m.Name, &m.Kind, &m.Description, &m.IsDefault, &createdAt, &updatedAt); err != nil {
		return domain.Category{}, err
	}
	var err error
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Category{}, err
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Category{}, err
	}
	return mapping.ToDomainCategory(m), nil
}

func (r *categoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE category_id = ?`, categoryID))
	if err != nil {
		return nil, wrapError(err, "failed to find category by ID "+categoryID)
	}
	return &c, nil
}

func (r *categoryRepository) FindCategoryByNameAndKind(ctx context.Context, name string, kind domain.TransactionKind) (*domain.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = ? AND kind = ?`, name, string(kind)))
	if err != nil {
		return nil, wrapError(err, "failed to find category by name")
	}
	return &c, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context, kind *domain.TransactionKind) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	var args []any
	if kind != nil {
		query += ` WHERE kind = ?`
		args = append(args, string(*kind))
	}
	query += ` ORDER BY kind, name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(err, "failed to list categories")
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (category_id, name, kind, description, is_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.CategoryID, m.Name, m.Kind, m.Description, m.IsDefault, formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
	)
	return wrapError(err, "failed to save category "+category.Name)
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name = ?, description = ?, updated_at = ? WHERE category_id = ?`,
		m.Name, m.Description, formatTime(m.UpdatedAt), m.CategoryID)
	return expectOneRow(res, err, "failed to update category "+category.CategoryID)
}

func (r *categoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE category_id = ?`, categoryID)
	return expectOneRow(res, err, "failed to delete category "+categoryID)
}

func (r *categoryRepository) DeleteAllCategories(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories`)
	return wrapError(err, "failed to delete categories")
}
