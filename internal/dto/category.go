package dto

import (
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name        string                 `json:"name" binding:"required,max=100"`
	Kind        domain.TransactionKind `json:"kind" binding:"required,transaction_kind"`
	Description string                 `json:"description" binding:"max=500"`
}

// UpdateCategoryRequest renames or re-describes a user category. The kind is fixed.
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// ListCategoriesParams filters categories by kind.
type ListCategoriesParams struct {
	Type string `form:"type"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID       string                 `json:"categoryID"`
	Name             string                 `json:"name"`
	Kind             domain.TransactionKind `json:"kind"`
	Description      string                 `json:"description"`
	IsDefault        bool                   `json:"isDefault"`
	TransactionCount int                    `json:"transactionCount"`
	TotalAmount      decimal.Decimal        `json:"totalAmount"`
	CreatedAt        time.Time              `json:"createdAt"`
}

// ToCategoryResponse converts a domain.CategoryWithStats.
func ToCategoryResponse(c *domain.CategoryWithStats) CategoryResponse {
	return CategoryResponse{
		CategoryID:       c.CategoryID,
		Name:             c.Name,
		Kind:             c.Kind,
		Description:      c.Description,
		IsDefault:        c.IsDefault,
		TransactionCount: c.TransactionCount,
		TotalAmount:      c.TotalAmount,
		CreatedAt:        c.CreatedAt,
	}
}

// ToListCategoryResponse converts a slice of categories.
func ToListCategoryResponse(cats []domain.CategoryWithStats) []CategoryResponse {
	res := make([]CategoryResponse, len(cats))
	for i := range cats {
		res[i] = ToCategoryResponse(&cats[i])
	}
	return res
}

// ListCategoriesResponse wraps the list of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}
