// Package bootstrap assembles the shared infrastructure both front-ends run on.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/m3rciful/salestrainer/core/config"
	"github.com/m3rciful/salestrainer/core/llm"
	"github.com/m3rciful/salestrainer/core/logger"
	"github.com/m3rciful/salestrainer/core/store"
	"github.com/m3rciful/salestrainer/core/training"
	"github.com/m3rciful/salestrainer/modules"
)

// Options control the bootstrap pipeline. Nil steps use the defaults.
type Options struct {
	Config *coreconfig.Config

	LoggerInit  func(*coreconfig.Config) error
	OpenStore   func(context.Context, *coreconfig.Config) (store.Store, error)
	NewGateway  func(coreconfig.LLMConfig) (llm.Gateway, error)
	LoadModules func(enabled []string) ([]*training.Module, error)
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	Store    store.Store
	Gateway  llm.Gateway
	Modules  []*training.Module
	Sessions *training.Registry
}

// Close releases the session store.
func (r *Result) Close() error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.Store.Close()
}

// Run initializes the logger, opens the session store, builds the LLM gateway,
// loads the enabled modules and creates the session registry.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}
	cfg := opts.Config

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(cfg); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	loadModules := opts.LoadModules
	if loadModules == nil {
		loadModules = modules.Load
	}
	mods, err := loadModules(cfg.Training.EnabledModules)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: modules: %w", err)
	}
	if len(mods) == 0 {
		return nil, fmt.Errorf("bootstrap: no training modules enabled")
	}

	newGateway := opts.NewGateway
	if newGateway == nil {
		newGateway = llm.New
	}
	gw, err := newGateway(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: llm gateway: %w", err)
	}

	openStore := opts.OpenStore
	if openStore == nil {
		openStore = store.Open
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: store initialization failed: %w", err)
	}

	sessions := training.NewRegistry(training.Deps{
		Store:        st,
		Gateway:      gw,
		Timeout:      time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		HistoryLimit: cfg.HistoryLimit(),
		MaxSessions:  cfg.Training.MaxSessions,
	})

	names := make([]string, 0, len(mods))
	for _, m := range mods {
		names = append(names, m.Name())
	}
	summary, _ := logger.SummarizeStrings(names, 10)
	logger.LogEvent(ctx, logger.Engine, slog.LevelInfo, "bootstrap.done",
		slog.String("status", "ok"),
		slog.String("backend", cfg.Store.Backend),
		slog.String("provider", cfg.LLM.Provider),
		slog.String("modules", summary),
	)

	return &Result{Store: st, Gateway: gw, Modules: mods, Sessions: sessions}, nil
}
