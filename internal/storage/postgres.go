package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const collectionsTable = `
	CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY,
		data JSONB NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);
`

// PostgresCollection stores a collection as one JSONB row keyed by collection name
type PostgresCollection[T any] struct {
	name string
	pool *pgxpool.Pool
}

// NewPostgresCollection creates a new PostgreSQL-backed collection
func NewPostgresCollection[T any](pool *pgxpool.Pool, name string) *PostgresCollection[T] {
	return &PostgresCollection[T]{name: name, pool: pool}
}

// Name returns the collection name
func (c *PostgresCollection[T]) Name() string {
	return c.name
}

// All reads the collection row. A missing row is an empty collection.
func (c *PostgresCollection[T]) All(ctx context.Context) ([]T, error) {
	var raw string
	err := c.pool.QueryRow(ctx, `SELECT data::text FROM collections WHERE name = $1`, c.name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", c.name, err)
	}

	items := make([]T, 0)
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// ReplaceAll upserts the collection row
func (c *PostgresCollection[T]) ReplaceAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.name, err)
	}

	query := `
		INSERT INTO collections (name, data, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	if _, err := c.pool.Exec(ctx, query, c.name, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.name, err)
	}
	return nil
}

// migratePostgres creates the collections table
func migratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, collectionsTable); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}
	return nil
}
