// Package gdrive stores backup snapshots as a single file in the user's Google Drive.
package gdrive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/income_expense_tracker/internal/apperrors"
	portsrepo "github.com/SscSPs/income_expense_tracker/internal/core/ports/repositories"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const jsonMimeType = "application/json"

// Config holds the OAuth client registered in Google Cloud.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Authorizer runs the OAuth code flow and opens Drive with the resulting token.
type Authorizer struct {
	oauth *oauth2.Config
}

var _ portsrepo.BackupAuthorizer = (*Authorizer)(nil)

// NewAuthorizer returns nil when no client id is configured.
func NewAuthorizer(cfg Config) *Authorizer {
	if cfg.ClientID == "" {
		return nil
	}
	return &Authorizer{oauth: &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveFileScope},
	}}
}

// AuthCodeURL asks for offline access so the token carries a refresh token.
func (a *Authorizer) AuthCodeURL(state string) string {
	return a.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades the callback code for a token and returns it encoded as JSON.
func (a *Authorizer) Exchange(ctx context.Context, code string) (string, error) {
	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return "", apperrors.NewAppError(apperrors.ErrValidation, "failed to exchange authorization code", err)
	}
	return encodeToken(token)
}

// Open builds a Drive client from stored credentials. Expired access tokens are
// refreshed transparently by the token source.
func (a *Authorizer) Open(ctx context.Context, credentials string) (portsrepo.BackupStore, error) {
	token, err := decodeToken(credentials)
	if err != nil {
		return nil, err
	}
	srv, err := drive.NewService(ctx, option.WithTokenSource(a.oauth.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Store{files: srv.Files}, nil
}

func encodeToken(token *oauth2.Token) (string, error) {
	raw, err := json.Marshal(token)
	if err != nil {
		return "", fmt.Errorf("failed to encode token: %w", err)
	}
	return string(raw), nil
}

func decodeToken(credentials string) (*oauth2.Token, error) {
	token := &oauth2.Token{}
	if err := json.Unmarshal([]byte(credentials), token); err != nil {
		return nil, fmt.Errorf("stored drive token is unreadable: %w", err)
	}
	return token, nil
}

// Store reads and writes backup files by name.
type Store struct {
	files *drive.FilesService
}

var _ portsrepo.BackupStore = (*Store)(nil)

// nameQuery builds a Drive search expression for a file name.
func nameQuery(name string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(name)
	return fmt.Sprintf("name = '%s' and trashed = false", escaped)
}

// findFileID returns the most recently modified file with the given name.
func (s *Store) findFileID(ctx context.Context, name string) (string, error) {
	list, err := s.files.List().
		Q(nameQuery(name)).
		Spaces("drive").
		OrderBy("modifiedTime desc").
		PageSize(1).
		Fields("files(id)").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to search drive for %s: %w", name, err)
	}
	if len(list.Files) == 0 {
		return "", apperrors.ErrNotFound
	}
	return list.Files[0].Id, nil
}

// Upload replaces the content of an existing file or creates a new one.
func (s *Store) Upload(ctx context.Context, name string, data []byte) error {
	id, err := s.findFileID(ctx, name)
	switch {
	case err == nil:
		_, err = s.files.Update(id, &drive.File{}).Media(bytes.NewReader(data)).Context(ctx).Do()
	case errors.Is(err, apperrors.ErrNotFound):
		_, err = s.files.Create(&drive.File{Name: name, MimeType: jsonMimeType}).Media(bytes.NewReader(data)).Context(ctx).Do()
	default:
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return nil
}

func (s *Store) Download(ctx context.Context, name string) ([]byte, error) {
	id, err := s.findFileID(ctx, name)
	if err != nil {
		return nil, err
	}
	resp, err := s.files.Get(id).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
