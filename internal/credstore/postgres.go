package credstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/uecsr/portal/internal/models"
)

// PostgresStore keeps credentials in the credentials table, one row per
// (profile, key). The table is created by db.InitPostgres.
type PostgresStore struct {
	// DB is the database handle for executing queries.
	DB      *sql.DB
	profile string
}

// NewPostgresStore creates a PostgresStore for profile.
func NewPostgresStore(db *sql.DB, profile string) *PostgresStore {
	return &PostgresStore{DB: db, profile: profile}
}

// Load fetches both entries of the profile. Query failures read as empty.
func (s *PostgresStore) Load(ctx context.Context) Credentials {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT key, value FROM credentials WHERE profile = $1`,
		s.profile,
	)
	if err != nil {
		return Credentials{}
	}
	defer rows.Close()

	entries := make(map[string]string, 2)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Credentials{}
		}
		entries[key] = value
	}
	if rows.Err() != nil {
		return Credentials{}
	}
	return Credentials{
		Token: entries[TokenKey],
		User:  decodeUser(entries[UserKey]),
	}
}

// SaveToken upserts the token row.
func (s *PostgresStore) SaveToken(ctx context.Context, token string) error {
	return s.upsert(ctx, TokenKey, token)
}

// SaveUser upserts the user row.
func (s *PostgresStore) SaveUser(ctx context.Context, user *models.Usuario) error {
	raw, err := encodeUser(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.upsert(ctx, UserKey, raw)
}

// Clear deletes both rows of the profile.
func (s *PostgresStore) Clear(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM credentials WHERE profile = $1 AND key = ANY($2)`,
		s.profile, pq.Array([]string{TokenKey, UserKey}),
	)
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *PostgresStore) upsert(ctx context.Context, key, value string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO credentials (profile, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, s.profile, key, value)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
