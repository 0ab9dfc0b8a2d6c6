package credstore

import (
	"context"
	"sync"

	"github.com/uecsr/portal/internal/models"
)

// MemoryStore keeps credentials for the life of the process only.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

func (s *MemoryStore) Load(_ context.Context) Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Credentials{
		Token: s.entries[TokenKey],
		User:  decodeUser(s.entries[UserKey]),
	}
}

func (s *MemoryStore) SaveToken(_ context.Context, token string) error {
	s.set(TokenKey, token)
	return nil
}

func (s *MemoryStore) SaveUser(_ context.Context, user *models.Usuario) error {
	raw, err := encodeUser(user)
	if err != nil {
		return err
	}
	s.set(UserKey, raw)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, TokenKey)
	delete(s.entries, UserKey)
	return nil
}

func (s *MemoryStore) set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string]string)
	}
	s.entries[key] = value
}
