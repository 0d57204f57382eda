package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/income_expense_tracker/internal/models"
	"github.com/SscSPs/income_expense_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxCategoryRepository struct {
	BaseRepository
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categoryColumns = `category_id, name, kind, description, is_default, created_at, updated_at`

func scanCategory(row pgx.Row) (domain.Category, error) {
	var m models.Category
	if err := row.Scan(&m.CategoryID, &m.Name, &m.Kind, &m.Description, &m.IsDefault, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return domain.Category{}, err
	}
	return mapping.ToDomainCategory(m), nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1;`
	c, err := scanCategory(r.db.QueryRow(ctx, query, categoryID))
	if err != nil {
		return nil, wrapError(err, "failed to find category by ID "+categoryID)
	}
	return &c, nil
}

func (r *PgxCategoryRepository) FindCategoryByNameAndKind(ctx context.Context, name string, kind domain.TransactionKind) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name = $1 AND kind = $2;`
	c, err := scanCategory(r.db.QueryRow(ctx, query, name, string(kind)))
	if err != nil {
		return nil, wrapError(err, "failed to find category by name")
	}
	return &c, nil
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context, kind *domain.TransactionKind) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	var args []any
	if kind != nil {
		query += ` WHERE kind = $1`
		args = append(args, string(*kind))
	}
	query += ` ORDER BY kind, name;`

	rows, err := r.db.Query(ctx, query, args...)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `
		INSERT INTO categories (category_id, name, kind, description, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query, m.CategoryID, m.Name, m.Kind, m.Description, m.IsDefault, m.CreatedAt, m.UpdatedAt)
	return wrapError(err, "failed to save category "+category.Name)
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `
		UPDATE categories
		SET name = $2, description = $3, updated_at = $4
		WHERE category_id = $1;
	`
	tag, err := r.db.Exec(ctx, query, m.CategoryID, m.Name, m.Description, m.UpdatedAt)
	return expectOneRow(tag, err, "failed to update category "+category.CategoryID)
}

func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE category_id = $1;`, categoryID)
	return expectOneRow(tag, err, "failed to delete category "+categoryID)
}

func (r *PgxCategoryRepository) DeleteAllCategories(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM categories;`)
	return wrapError(err, "failed to delete categories")
}
