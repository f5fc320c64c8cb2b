package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Postgres stores sessions in the training_sessions table created by migrations.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres wraps an already connected database handle.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// Get returns the stored payload or ErrNotFound.
func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	var payload string
	err := p.db.GetContext(ctx, &payload,
		`SELECT payload FROM training_sessions WHERE session_key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	return payload, nil
}

// Set upserts the payload for key.
func (p *Postgres) Set(ctx context.Context, key, value string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO training_sessions (session_key, payload)
		VALUES ($1, $2)
		ON CONFLICT (session_key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = now()`, key, value)
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}
