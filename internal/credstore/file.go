package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/uecsr/portal/internal/models"
)

// FileStore keeps credentials in a small JSON document on disk.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore writing to path. The file and its
// directory are created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the credentials file.
func (s *FileStore) Load(_ context.Context) Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.read()
	return Credentials{
		Token: entries[TokenKey],
		User:  decodeUser(entries[UserKey]),
	}
}

// SaveToken stores the bearer token.
func (s *FileStore) SaveToken(_ context.Context, token string) error {
	return s.update(func(entries map[string]string) {
		entries[TokenKey] = token
	})
}

// SaveUser stores the user profile.
func (s *FileStore) SaveUser(_ context.Context, user *models.Usuario) error {
	raw, err := encodeUser(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.update(func(entries map[string]string) {
		entries[UserKey] = raw
	})
}

// Clear removes the token and user entries.
func (s *FileStore) Clear(_ context.Context) error {
	return s.update(func(entries map[string]string) {
		delete(entries, TokenKey)
		delete(entries, UserKey)
	})
}

// read returns the stored entries; a missing or corrupted file yields an
// empty map.
func (s *FileStore) read() map[string]string {
	entries := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return make(map[string]string)
	}
	return entries
}

func (s *FileStore) update(mutate func(map[string]string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.read()
	mutate(entries)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp credentials file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close credentials: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}
