// Package memory is a process-local Store. A unit of work runs against a private
// copy of the data which replaces the live copy only when the work succeeds.
package memory

import (
	"context"
	"sync"

	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
)

// Store keeps the whole ledger in maps.
type Store struct {
	writeMu sync.Mutex   // serializes writers
	mu      sync.RWMutex // guards state
	state   *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

var _ portsrepo.Store = (*Store)(nil)

// Repositories returns repositories that read and write the live data.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return newProvider(&binding{store: s})
}

// WithinTx runs fn on a copy of the data and publishes the copy if fn succeeds
// and ctx is still live.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.RepositoryProvider) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	work := s.state.clone()
	s.mu.RUnlock()

	if err := fn(ctx, newProvider(&binding{tx: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = work
	s.mu.Unlock()
	return nil
}

// WithinReadTx runs fn on a private copy taken under the read lock.
func (s *Store) WithinReadTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.RepositoryProvider) error) error {
	s.mu.RLock()
	view := s.state.clone()
	s.mu.RUnlock()

	return fn(ctx, newProvider(&binding{tx: view}))
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}

// binding decides which copy of the data a repository call touches.
type binding struct {
	store *Store
	tx    *state
}

func (b *binding) read(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	return fn(b.store.state)
}

// write mutates the live data in place; fn must validate before it changes anything.
func (b *binding) write(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.writeMu.Lock()
	defer b.store.writeMu.Unlock()
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(b.store.state)
}

func newProvider(b *binding) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     &accountRepository{b: b},
		CategoryRepo:    &categoryRepository{b: b},
		TransactionRepo: &transactionRepository{b: b},
		SettingsRepo:    &settingsRepository{b: b},
	}
}
