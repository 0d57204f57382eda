package memory

import (
	"maps"

	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
)

type state struct {
	accounts     map[string]domain.Account
	categories   map[string]domain.Category
	transactions map[string]domain.Transaction
	settings     map[string]string
}

func newState() *state {
	return &state{
		accounts:     map[string]domain.Account{},
		categories:   map[string]domain.Category{},
		transactions: map[string]domain.Transaction{},
		settings:     map[string]string{},
	}
}

// clone copies the maps. Entities are values, so a shallow copy is enough.
func (s *state) clone() *state {
	return &state{
		accounts:     maps.Clone(s.accounts),
		categories:   maps.Clone(s.categories),
		transactions: maps.Clone(s.transactions),
		settings:     maps.Clone(s.settings),
	}
}
