package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS units (
		id         TEXT PRIMARY KEY,
		category   TEXT NOT NULL,
		name       TEXT NOT NULL,
		time_label TEXT NOT NULL,
		price_npr  INTEGER NOT NULL CHECK (price_npr >= 0),
		seat_rows  INTEGER NOT NULL CHECK (seat_rows > 0),
		seat_cols  INTEGER NOT NULL CHECK (seat_cols > 0),
		img        TEXT NOT NULL DEFAULT '',
		position   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_units_category ON units (category, position)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id         UUID PRIMARY KEY,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the tables used by the API and the postgres key-value store.
func Migrate(ctx context.Context, db PgxIface) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
