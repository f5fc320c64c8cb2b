package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/salestrainer/core/config"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "nested", "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sq,
	}
}

func TestStoreGetSet(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Get(ctx, "sleeping_dragon:1")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "sleeping_dragon:1", `{"stage":1}`))
			got, err := s.Get(ctx, "sleeping_dragon:1")
			require.NoError(t, err)
			assert.Equal(t, `{"stage":1}`, got)

			require.NoError(t, s.Set(ctx, "sleeping_dragon:1", `{"stage":2}`))
			got, err = s.Get(ctx, "sleeping_dragon:1")
			require.NoError(t, err)
			assert.Equal(t, `{"stage":2}`, got)

			_, err = s.Get(ctx, "objections:1")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreConcurrentDistinctKeys(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var wg sync.WaitGroup
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					key := fmt.Sprintf("k:%d", i)
					for j := 0; j < 5; j++ {
						assert.NoError(t, s.Set(ctx, key, fmt.Sprintf("v%d", j)))
					}
				}(i)
			}
			wg.Wait()
			for i := 0; i < 16; i++ {
				got, err := s.Get(ctx, fmt.Sprintf("k:%d", i))
				require.NoError(t, err)
				assert.Equal(t, "v4", got)
			}
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	s, err := NewSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "upsell:7", "payload"))
	require.NoError(t, s.Close())

	s, err = NewSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "upsell:7")
	require.NoError(t, err)
	assert.Equal(t, "payload", got)
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory()
	assert.ErrorIs(t, m.Set(ctx, "k", "v"), context.Canceled)
	assert.Equal(t, 0, m.Len())
}

func TestOpenSelectsBackend(t *testing.T) {
	cfg := &coreconfig.Config{Store: coreconfig.StoreConfig{Backend: coreconfig.StoreMemory}}
	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	cfg.Store = coreconfig.StoreConfig{Backend: coreconfig.StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "x.db")}
	s, err = Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	cfg.Store.Backend = "redis"
	_, err = Open(context.Background(), cfg)
	assert.Error(t, err)
}
