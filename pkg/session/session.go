// Package session carries the API credentials used by back-office clients.
// The token is always injected explicitly; nothing in this module reads it
// from process-global state.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenFile is the stored session token filename inside the config dir.
const TokenFile = "token"

// ErrNoToken indicates no session token is available; callers surface this
// before any request is issued.
var ErrNoToken = errors.New("session: no token available")

// TokenSource yields the bearer token for authenticated requests. The token
// is read fresh on every call so external logins/logouts take effect without
// restarting the process.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Static wraps a fixed token, useful for tests and one-shot CLI invocations.
type Static string

// Token returns the wrapped token or ErrNoToken when empty.
func (s Static) Token(context.Context) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// FileStore reads and writes the session token under a config directory.
type FileStore struct {
	dir string
}

// NewFileStore builds a store rooted at dir. If dir is empty the default
// config directory is used.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &FileStore{dir: dir}
}

// DefaultConfigDir resolves XDG_CONFIG_HOME/backoffice, falling back to
// $HOME/.config/backoffice.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "backoffice")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "backoffice"
	}
	return filepath.Join(home, ".config", "backoffice")
}

// Path returns the token file location.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, TokenFile)
}

// Token reads the stored token. A missing file maps to ErrNoToken.
func (s *FileStore) Token(context.Context) (string, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("session: read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Save persists the token with owner-only permissions.
func (s *FileStore) Save(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("session: token is required")
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("session: mkdir %s: %w", s.dir, err)
	}
	if err := os.WriteFile(s.Path(), []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("session: write token: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: clear token: %w", err)
	}
	return nil
}
