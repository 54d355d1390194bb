// Package auth holds the admin session used for catalog mutations.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ErrInvalidKey is returned by Login when the key does not match
var ErrInvalidKey = errors.New("invalid admin key")

// KeyStore persists the admin key between restarts
type KeyStore interface {
	Load() (string, error)
	Save(key string) error
	Delete() error
}

// FileStore keeps the key in a single 0600 file. An empty path disables persistence.
type FileStore struct {
	Path string
}

var _ KeyStore = FileStore{}

// Load returns the persisted key, empty when none was saved
func (f FileStore) Load() (string, error) {
	if f.Path == "" {
		return "", nil
	}
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes key with owner-only permissions
func (f FileStore) Save(key string) error {
	if f.Path == "" {
		return nil
	}
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	if err := os.WriteFile(f.Path, []byte(key), 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Delete removes the persisted key
func (f FileStore) Delete() error {
	if f.Path == "" {
		return nil
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Session compares login attempts against the configured admin key and
// remembers the accepted key
type Session struct {
	mu       sync.RWMutex
	expected string
	key      string
	store    KeyStore
}

// NewSession checks logins against expected. A nil store disables persistence.
func NewSession(expected string, store KeyStore) *Session {
	if store == nil {
		store = FileStore{}
	}
	return &Session{expected: expected, store: store}
}

func (s *Session) matches(key string) bool {
	if s.expected == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.expected)) == 1
}

// Login accepts key when it equals the configured admin key and persists it
func (s *Session) Login(key string) error {
	key = strings.TrimSpace(key)
	if !s.matches(key) {
		log.Warn("Admin login rejected")
		return ErrInvalidKey
	}

	s.mu.Lock()
	s.key = key
	s.mu.Unlock()

	if err := s.store.Save(key); err != nil {
		log.WithField("error", err.Error()).Warn("Admin session not persisted")
	}
	log.Info("Admin logged in")
	return nil
}

// Logout forgets the key in memory and on disk
func (s *Session) Logout() error {
	s.mu.Lock()
	s.key = ""
	s.mu.Unlock()

	log.Info("Admin logged out")
	return s.store.Delete()
}

// Restore reloads a persisted key. A stale key that no longer matches is discarded.
func (s *Session) Restore() error {
	key, err := s.store.Load()
	if err != nil {
		return err
	}
	if key == "" {
		return nil
	}
	if !s.matches(key) {
		log.Warn("Discarding persisted admin key that no longer matches")
		return s.store.Delete()
	}

	s.mu.Lock()
	s.key = key
	s.mu.Unlock()
	log.Info("Admin session restored")
	return nil
}

// AdminKey returns the bearer key, empty when logged out
func (s *Session) AdminKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// IsAuthenticated reports whether an admin is logged in
func (s *Session) IsAuthenticated() bool {
	return s.AdminKey() != ""
}

// Authorize reports whether key is the logged-in admin key. It is false while logged out.
func (s *Session) Authorize(key string) bool {
	current := s.AdminKey()
	if current == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(current)) == 1
}
