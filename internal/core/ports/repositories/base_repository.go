package repositories

import (
	"context"
)

// UnitOfWork runs a group of repository calls atomically.
type UnitOfWork interface {
	// WithinTx runs fn inside one store transaction. The repositories passed to fn
	// are bound to that transaction. A nil return commits, anything else rolls back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos RepositoryProvider) error) error
}

// Store is a storage backend: repositories for plain reads plus a unit of work for mutations.
type Store interface {
	UnitOfWork

	// WithinReadTx runs fn against one consistent view of the data. Writes made
	// through repos are discarded.
	WithinReadTx(ctx context.Context, fn func(ctx context.Context, repos RepositoryProvider) error) error

	// Repositories returns repositories that run each call on its own.
	Repositories() RepositoryProvider

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	Close() error
}
