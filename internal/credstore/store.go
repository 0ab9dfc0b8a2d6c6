// Package credstore persists the session token and the cached user profile
// across process restarts.
//
// Every backend keeps two independent string entries, the bearer token and
// the JSON-serialized user, and removes both together on Clear. Reads never
// fail: an absent or corrupted entry reads as empty.
package credstore

import (
	"context"
	"encoding/json"

	"github.com/uecsr/portal/internal/models"
)

// Entry keys shared by all backends.
const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

// Credentials is what a store holds. The zero value means nothing is stored.
type Credentials struct {
	Token string
	User  *models.Usuario
}

// Empty reports whether neither entry is present.
func (c Credentials) Empty() bool {
	return c.Token == "" && c.User == nil
}

// Store is a durable key-value medium for credentials.
type Store interface {
	// Load returns the stored credentials. Absent or unreadable entries are
	// returned as zero values.
	Load(ctx context.Context) Credentials
	// SaveToken persists the bearer token.
	SaveToken(ctx context.Context, token string) error
	// SaveUser persists the user profile.
	SaveUser(ctx context.Context, user *models.Usuario) error
	// Clear removes both entries.
	Clear(ctx context.Context) error
}

func encodeUser(user *models.Usuario) (string, error) {
	b, err := json.Marshal(user)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeUser returns nil for empty or malformed input.
func decodeUser(raw string) *models.Usuario {
	if raw == "" || raw == "null" {
		return nil
	}
	var u models.Usuario
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}
