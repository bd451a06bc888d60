package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// ErrKeyNotFound is returned when a state key has no stored value.
var ErrKeyNotFound = fmt.Errorf("state key not found")

// PostgresStateRepository persists the application state document as
// whole-value rows in the app_state table (one row per state key, value
// stored as JSONB). Writes overwrite the entire value for a key; there
// is no partial or cross-key update.
type PostgresStateRepository struct {
	db *sql.DB
}

func NewPostgresStateRepository(db *sql.DB) *PostgresStateRepository {
	return &PostgresStateRepository{db: db}
}

func (r *PostgresStateRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	query := `SELECT value FROM app_state WHERE key = $1`
	var raw []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("error reading state key %q: %w", key, err)
	}
	return json.RawMessage(raw), nil
}

func (r *PostgresStateRepository) Set(ctx context.Context, key string, value json.RawMessage) error {
	query := `INSERT INTO app_state (key, value, updated_at)
               VALUES ($1, $2, NOW())
               ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, key, []byte(value)); err != nil {
		return fmt.Errorf("error writing state key %q: %w", key, err)
	}
	return nil
}

func (r *PostgresStateRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM app_state WHERE key = $1`
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("error deleting state key %q: %w", key, err)
	}
	return nil
}
