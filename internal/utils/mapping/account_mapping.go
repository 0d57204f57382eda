package mapping

import (
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	"github.com/SscSPs/income_expense_tracker/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		Name:        d.Name,
		Description: d.Description,
		Kind:        string(d.Kind),
		Icon:        d.Icon,
		Balance:     d.Balance,
		IsDefault:   d.IsDefault,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		Name:        m.Name,
		Description: m.Description,
		Kind:        domain.AccountKind(m.Kind),
		Icon:        m.Icon,
		Balance:     m.Balance,
		IsDefault:   m.IsDefault,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	accounts := make([]domain.Account, len(ms))
	for i, m := range ms {
		accounts[i] = ToDomainAccount(m)
	}
	return accounts
}
