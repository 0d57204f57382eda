package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	"github.com/SscSPs/income_expense_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
)

type transactionRepository struct {
	b *binding
}

var _ portsrepo.TransactionRepositoryFacade = (*transactionRepository)(nil)

func detail(st *state, txn domain.Transaction) domain.TransactionDetail {
	acc := st.accounts[txn.AccountID]
	return domain.TransactionDetail{Transaction: txn, AccountName: acc.Name, AccountIcon: acc.Icon}
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// sortNewestFirst orders by date, then creation time, both descending.
func sortNewestFirst[T any](items []T, txn func(T) domain.Transaction) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := txn(items[i]), txn(items[j])
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.TransactionID > b.TransactionID
	})
}

func (r *transactionRepository) FindTransactionByID(_ context.Context, transactionID string) (*domain.TransactionDetail, error) {
	var found *domain.TransactionDetail
	err := r.b.read(func(st *state) error {
		txn, ok := st.transactions[transactionID]
		if !ok {
			return apperrors.ErrNotFound
		}
		d := detail(st, txn)
		found = &d
		return nil
	})
	return found, err
}

func (r *transactionRepository) FindTransactionByIDForUpdate(_ context.Context, transactionID string) (*domain.Transaction, error) {
	var found *domain.Transaction
	err := r.b.read(func(st *state) error {
		txn, ok := st.transactions[transactionID]
		if !ok {
			return apperrors.ErrNotFound
		}
		found = &txn
		return nil
	})
	return found, err
}

func (r *transactionRepository) ListTransactions(_ context.Context, filter domain.TransactionFilter) ([]domain.TransactionDetail, error) {
	var result []domain.TransactionDetail
	category := strings.ToLower(filter.Category)
	err := r.b.read(func(st *state) error {
		for _, txn := range st.transactions {
			if filter.Kind != nil && txn.Kind != *filter.Kind {
				continue
			}
			if category != "" && !strings.Contains(strings.ToLower(txn.Category), category) {
				continue
			}
			if !inRange(txn.Date, filter.FromDate, filter.ToDate) {
				continue
			}
			result = append(result, detail(st, txn))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortNewestFirst(result, func(d domain.TransactionDetail) domain.Transaction { return d.Transaction })

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []domain.TransactionDetail{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	if result == nil {
		result = []domain.TransactionDetail{}
	}
	return result, nil
}

func (r *transactionRepository) FindTransactionsInRange(_ context.Context, from, to *time.Time) ([]domain.Transaction, error) {
	result := []domain.Transaction{}
	err := r.b.read(func(st *state) error {
		for _, txn := range st.transactions {
			if inRange(txn.Date, from, to) {
				result = append(result, txn)
			}
		}
		return nil
	})
	sortNewestFirst(result, func(t domain.Transaction) domain.Transaction { return t })
	return result, err
}

func (r *transactionRepository) ListCategoryNames(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	err := r.b.read(func(st *state) error {
		for _, txn := range st.transactions {
			seen[txn.Category] = true
		}
		return nil
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, err
}

func (r *transactionRepository) CountTransactionsByAccount(_ context.Context, accountID string) (int, error) {
	count := 0
	err := r.b.read(func(st *state) error {
		for _, txn := range st.transactions {
			if txn.AccountID == accountID {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *transactionRepository) CountTransactionsPerAccount(_ context.Context) (map[string]int, error) {
	counts := map[string]int{}
	err := r.b.read(func(st *state) error {
		for _, txn := range st.transactions {
			counts[txn.AccountID]++
		}
		return nil
	})
	return counts, err
}

func (r *transactionRepository) CountTransactionsByCategory(_ context.Context, categoryName string) (int, error) {
	count := 0
	err := r.b.read(func(st *state) error {
		for _, txn := range st.transactions {
			if txn.Category == categoryName {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *transactionRepository) CategoryUsage(_ context.Context) (map[domain.CategoryKey]domain.CategoryUsage, error) {
	usage := map[domain.CategoryKey]domain.CategoryUsage{}
	err := r.b.read(func(st *state) error {
		for _, txn := range st.transactions {
			key := domain.CategoryKey{Name: txn.Category, Kind: txn.Kind}
			u := usage[key]
			u.TransactionCount++
			u.TotalAmount = u.TotalAmount.Add(txn.Amount)
			usage[key] = u
		}
		return nil
	})
	return usage, err
}

func (r *transactionRepository) SaveTransactions(_ context.Context, transactions []domain.Transaction) error {
	return r.b.write(func(st *state) error {
		for _, txn := range transactions {
			if _, exists := st.transactions[txn.TransactionID]; exists {
				return apperrors.ErrDuplicate
			}
			if _, ok := st.accounts[txn.AccountID]; !ok {
				return apperrors.NewValidationError("account %s not found", txn.AccountID)
			}
		}
		for _, txn := range transactions {
			st.transactions[txn.TransactionID] = txn
		}
		return nil
	})
}

func (r *transactionRepository) UpdateTransaction(_ context.Context, transaction domain.Transaction) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.transactions[transaction.TransactionID]; !ok {
			return apperrors.ErrNotFound
		}
		if _, ok := st.accounts[transaction.AccountID]; !ok {
			return apperrors.NewValidationError("account %s not found", transaction.AccountID)
		}
		st.transactions[transaction.TransactionID] = transaction
		return nil
	})
}

func (r *transactionRepository) DeleteTransaction(_ context.Context, transactionID string) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.transactions[transactionID]; !ok {
			return apperrors.ErrNotFound
		}
		delete(st.transactions, transactionID)
		return nil
	})
}

func (r *transactionRepository) DeleteAllTransactions(_ context.Context) error {
	return r.b.write(func(st *state) error {
		st.transactions = map[string]domain.Transaction{}
		return nil
	})
}
