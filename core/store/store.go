// Package store persists serialized training sessions under opaque string keys.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	coreconfig "github.com/m3rciful/salestrainer/core/config"
	"github.com/m3rciful/salestrainer/core/database"
	"github.com/m3rciful/salestrainer/core/logger"
)

// ErrNotFound is returned by Get when no record exists for the key.
var ErrNotFound = errors.New("store: not found")

// Store is a plain key/value session store. It has no transactions and no TTL;
// concurrent calls for distinct keys must be safe.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open builds the backend selected by cfg.Store.Backend. For postgres it connects
// and applies embedded migrations first.
func Open(ctx context.Context, cfg *coreconfig.Config) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store: nil config")
	}
	var (
		s   Store
		err error
	)
	switch cfg.Store.Backend {
	case coreconfig.StoreMemory:
		s = NewMemory()
	case coreconfig.StoreSQLite, "":
		s, err = NewSQLite(ctx, cfg.Store.SQLitePath)
	case coreconfig.StorePostgres:
		s, err = openPostgres(ctx, cfg.Database)
	default:
		err = fmt.Errorf("store: unknown backend %q", cfg.Store.Backend)
	}
	if err != nil {
		return nil, err
	}
	logger.Store.Info("store opened",
		slog.String("event", "store.open"),
		slog.String("backend", cfg.Store.Backend),
	)
	return s, nil
}

func openPostgres(ctx context.Context, cfg coreconfig.DatabaseConfig) (Store, error) {
	if err := database.RunMigrations(ctx, cfg); err != nil {
		return nil, fmt.Errorf("store: migrations failed: %w", err)
	}
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: database initialization failed: %w", err)
	}
	return NewPostgres(db), nil
}
