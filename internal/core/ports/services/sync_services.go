package services

import (
	"context"
	"time"
)

// SyncSvc backs the ledger up to, and restores it from, remote storage.
type SyncSvc interface {
	// IsAuthenticated reports whether remote credentials are stored.
	IsAuthenticated(ctx context.Context) (bool, error)

	// AuthURL returns the consent URL for the given anti-forgery state.
	AuthURL(state string) (string, error)

	// CompleteAuth exchanges an authorization code and stores the resulting credentials.
	CompleteAuth(ctx context.Context, code string) error

	// Backup uploads a snapshot and returns its timestamp.
	Backup(ctx context.Context) (time.Time, error)

	// Disconnect forgets the stored credentials.
	Disconnect(ctx context.Context) error

	// Restore replaces the whole ledger with the remote snapshot and returns the snapshot timestamp.
	Restore(ctx context.Context) (time.Time, error)
}
