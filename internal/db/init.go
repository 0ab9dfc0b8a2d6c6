// Package db opens the postgres database backing the shared credential
// store and maintains its schema.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Schema creates the credentials table. Each profile holds at most one
// row per key.
const Schema = `
CREATE TABLE IF NOT EXISTS credentials (
    profile TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (profile, key)
);
`

// InitPostgres opens dsn, checks connectivity and applies Schema.
func InitPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := ApplySchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// ApplySchema creates missing tables on an open connection.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
