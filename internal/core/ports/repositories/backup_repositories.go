package repositories

import "context"

// BackupStore is remote storage for snapshot files.
type BackupStore interface {
	// Upload creates the file or replaces its content.
	Upload(ctx context.Context, name string, data []byte) error

	// Download returns apperrors.ErrNotFound when the file does not exist.
	Download(ctx context.Context, name string) ([]byte, error)
}

// BackupAuthorizer connects to remote storage. Credentials are opaque strings
// so they can be kept in the settings table.
type BackupAuthorizer interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
	Open(ctx context.Context, credentials string) (BackupStore, error)
}
