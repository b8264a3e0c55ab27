// Package session persists the bearer token between CLI invocations.
// The token is the whole auth context: logout means clearing this file, and a
// 401 from the backend clears it too so every later command starts anonymous.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store reads and writes the persisted token file.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStore places the token under the user config directory
// (e.g. ~/.config/snapcircle/token).
func DefaultStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("could not resolve config directory: %w", err)
	}
	return NewStore(filepath.Join(dir, "snapcircle", "token")), nil
}

// Token returns the persisted token, or empty if none is stored.
func (s *Store) Token() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("could not read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token with owner-only permissions.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("could not write token file: %w", err)
	}
	return nil
}

// Clear removes the persisted token. Clearing an absent token is a no-op.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not remove token file: %w", err)
	}
	return nil
}
