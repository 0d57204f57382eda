package services

import (
	"context"

	"github.com/SscSPs/income_expense_tracker/internal/dto"
)

// AuthSvc authenticates the single owner of the ledger.
type AuthSvc interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

// SeederSvc writes the default accounts and categories.
type SeederSvc interface {
	// SeedDefaults inserts whichever default entities are missing. It is safe to call on every start.
	SeedDefaults(ctx context.Context) error
}
