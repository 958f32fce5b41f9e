package kvstore

import (
	"context"
	"errors"
	"fmt"

	"study-booking/pkg/database"

	"github.com/jackc/pgx/v5"
)

// Postgres keeps values in the kv_store table created by database.Migrate.
type Postgres struct {
	db database.PgxIface
}

func NewPostgres(db database.PgxIface) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: select %s: %w", key, err)
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := p.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("kvstore: upsert %s: %w", key, err)
	}
	return nil
}
