package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type accountRepository struct {
	b *binding
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	var found *domain.Account
	err := r.b.read(func(st *state) error {
		acc, ok := st.accounts[accountID]
		if !ok {
			return apperrors.ErrNotFound
		}
		found = &acc
		return nil
	})
	return found, err
}

func (r *accountRepository) FindAccountByName(_ context.Context, name string) (*domain.Account, error) {
	var found *domain.Account
	err := r.b.read(func(st *state) error {
		for _, acc := range st.accounts {
			if strings.EqualFold(acc.Name, name) {
				found = &acc
				return nil
			}
		}
		return apperrors.ErrNotFound
	})
	return found, err
}

func (r *accountRepository) ListAccounts(_ context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.b.read(func(st *state) error {
		accounts = make([]domain.Account, 0, len(st.accounts))
		for _, acc := range st.accounts {
			accounts = append(accounts, acc)
		}
		return nil
	})
	sort.Slice(accounts, func(i, j int) bool {
		return strings.ToLower(accounts[i].Name) < strings.ToLower(accounts[j].Name)
	})
	return accounts, err
}

func (r *accountRepository) SaveAccount(_ context.Context, account domain.Account) error {
	return r.b.write(func(st *state) error {
		if _, exists := st.accounts[account.AccountID]; exists {
			return apperrors.ErrDuplicate
		}
		for _, other := range st.accounts {
			if strings.EqualFold(other.Name, account.Name) {
				return apperrors.ErrDuplicate
			}
		}
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (r *accountRepository) UpdateAccount(_ context.Context, account domain.Account) error {
	return r.b.write(func(st *state) error {
		current, ok := st.accounts[account.AccountID]
		if !ok {
			return apperrors.ErrNotFound
		}
		for id, other := range st.accounts {
			if id != account.AccountID && strings.EqualFold(other.Name, account.Name) {
				return apperrors.ErrDuplicate
			}
		}
		current.Name = account.Name
		current.Description = account.Description
		current.Kind = account.Kind
		current.Icon = account.Icon
		current.UpdatedAt = account.UpdatedAt
		st.accounts[account.AccountID] = current
		return nil
	})
}

func (r *accountRepository) DeleteAccount(_ context.Context, accountID string) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.accounts[accountID]; !ok {
			return apperrors.ErrNotFound
		}
		for _, txn := range st.transactions {
			if txn.AccountID == accountID {
				return apperrors.NewBusinessRuleError("account %s still has transactions", accountID)
			}
		}
		delete(st.accounts, accountID)
		return nil
	})
}

func (r *accountRepository) DeleteAllAccounts(_ context.Context) error {
	return r.b.write(func(st *state) error {
		if len(st.transactions) > 0 {
			return apperrors.NewBusinessRuleError("transactions must be deleted before accounts")
		}
		st.accounts = map[string]domain.Account{}
		return nil
	})
}

func (r *accountRepository) FindAccountsByIDsForUpdate(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	found := make(map[string]domain.Account, len(accountIDs))
	err := r.b.read(func(st *state) error {
		for _, id := range accountIDs {
			if acc, ok := st.accounts[id]; ok {
				found[id] = acc
			}
		}
		return nil
	})
	return found, err
}

func (r *accountRepository) UpdateAccountBalances(_ context.Context, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	return r.b.write(func(st *state) error {
		for id, delta := range balanceChanges {
			if _, ok := st.accounts[id]; !ok && !delta.IsZero() {
				return apperrors.NewNotFoundError("account", id)
			}
		}
		for id, delta := range balanceChanges {
			if delta.IsZero() {
				continue
			}
			acc := st.accounts[id]
			acc.Balance = acc.Balance.Add(delta)
			acc.UpdatedAt = now
			st.accounts[id] = acc
		}
		return nil
	})
}
