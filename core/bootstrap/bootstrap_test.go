package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/salestrainer/core/config"
	"github.com/m3rciful/salestrainer/core/llm"
	"github.com/m3rciful/salestrainer/core/store"
	"github.com/m3rciful/salestrainer/core/training"
)

func testConfig(t *testing.T) *coreconfig.Config {
	t.Helper()
	cfg := &coreconfig.Config{
		Telegram: coreconfig.TelegramConfig{Disabled: true},
		Store:    coreconfig.StoreConfig{Backend: coreconfig.StoreMemory},
	}
	require.NoError(t, coreconfig.Normalize(cfg))
	return cfg
}

func noLogger(*coreconfig.Config) error { return nil }

func TestRunBuildsRegistry(t *testing.T) {
	cfg := testConfig(t)
	cfg.Training.EnabledModules = []string{"sleeping_dragon"}

	res, err := Run(context.Background(), Options{Config: cfg, LoggerInit: noLogger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Close() })

	require.Len(t, res.Modules, 1)
	assert.Equal(t, "sleeping_dragon", res.Modules[0].Name())
	assert.Nil(t, res.Gateway)
	assert.IsType(t, &store.Memory{}, res.Store)

	deps := res.Sessions.Deps()
	assert.Equal(t, 100, deps.HistoryLimit)
	assert.Equal(t, float64(30), deps.Timeout.Seconds())
}

func TestRunStopsOnFailedStep(t *testing.T) {
	cfg := testConfig(t)
	opened := false
	_, err := Run(context.Background(), Options{
		Config:     cfg,
		LoggerInit: noLogger,
		NewGateway: func(coreconfig.LLMConfig) (llm.Gateway, error) { return nil, errors.New("bad key") },
		OpenStore: func(context.Context, *coreconfig.Config) (store.Store, error) {
			opened = true
			return store.NewMemory(), nil
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm gateway")
	assert.False(t, opened)
}

func TestRunRejectsEmptyModuleSet(t *testing.T) {
	_, err := Run(context.Background(), Options{
		Config:      testConfig(t),
		LoggerInit:  noLogger,
		LoadModules: func([]string) ([]*training.Module, error) { return nil, nil },
	})
	assert.Error(t, err)

	_, err = Run(context.Background(), Options{})
	assert.Error(t, err)
}
