// Package cmd loads configuration, bootstraps the application and runs its
// front-ends until a termination signal arrives.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	coreconfig "github.com/m3rciful/salestrainer/core/config"
	"github.com/m3rciful/salestrainer/core/logger"
	coretelegram "github.com/m3rciful/salestrainer/core/telegram"
)

// Service is a long-running front-end. Run blocks until ctx is done or the
// service fails.
type Service struct {
	Name string
	Run  func(ctx context.Context) error
}

// App is a bootstrapped application.
type App interface {
	Services() ([]Service, error)
	Close() error
}

// TelegramApp is the minimal interface required to run a Telegram bot.
type TelegramApp interface {
	TelegramRunOptions() (coretelegram.RunOptions, error)
}

// Options describe how to load configuration, bootstrap the app, and run it.
type Options struct {
	ConfigEnvVar      string
	DefaultConfigPath string

	LoadConfig func(path string) (*coreconfig.Config, error)
	Bootstrap  func(ctx context.Context, cfg *coreconfig.Config) (App, error)

	ShutdownLogger func() error
	// Signals default to SIGINT and SIGTERM.
	Signals []os.Signal
}

// Run loads configuration, bootstraps the app and runs every service until a
// signal arrives or one of them fails.
func Run(opts Options) error {
	if opts.LoadConfig == nil {
		return fmt.Errorf("cmd: LoadConfig is required")
	}
	if opts.Bootstrap == nil {
		return fmt.Errorf("cmd: Bootstrap is required")
	}

	env := opts.ConfigEnvVar
	if env == "" {
		env = "CONFIG_PATH"
	}
	cfgPath := os.Getenv(env)
	if cfgPath == "" {
		cfgPath = opts.DefaultConfigPath
	}
	if cfgPath == "" {
		return fmt.Errorf("cmd: config path not provided via %s or DefaultConfigPath", env)
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := opts.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("cmd: failed to load config: %w", err)
	}

	signals := opts.Signals
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	ctx, cancel := signal.NotifyContext(context.Background(), signals...)
	defer cancel()

	startedAt := time.Now()
	application, err := opts.Bootstrap(ctx, cfg)
	if err != nil {
		return fmt.Errorf("cmd: bootstrap failed: %w", err)
	}

	shutdownLogger := opts.ShutdownLogger
	if shutdownLogger == nil {
		shutdownLogger = logger.Shutdown
	}
	defer func() {
		if err := shutdownLogger(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()
	defer func() {
		if err := application.Close(); err != nil {
			logger.Component(logger.ComponentApp).Warn("app close failed",
				slog.String("event", "close"),
				logger.Err(err),
			)
		}
	}()

	services, err := application.Services()
	if err != nil {
		return fmt.Errorf("cmd: services build failed: %w", err)
	}
	if len(services) == 0 {
		return fmt.Errorf("cmd: nothing to run")
	}

	logger.Component(logger.ComponentApp).Info("app ready",
		slog.String("event", "ready"),
		slog.Int("count", len(services)),
		slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
	)
	err = runServices(ctx, services)
	logger.Component(logger.ComponentApp).Info("shutting down...",
		slog.String("event", "shutdown"),
		slog.String("status", logger.Status(err)),
		logger.Err(err),
	)
	return err
}

// runServices runs all services concurrently. The first failure stops the rest.
func runServices(ctx context.Context, services []Service) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, svc := range services {
		wg.Add(1)
		go func(svc Service) {
			defer wg.Done()
			err := svc.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", svc.Name, err))
				mu.Unlock()
			}
			cancel()
		}(svc)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// TelegramService adapts app to a Service. run defaults to
// coretelegram.RunTelegram.
func TelegramService(app TelegramApp, run func(context.Context, coretelegram.RunOptions) error) (Service, error) {
	runOpts, err := app.TelegramRunOptions()
	if err != nil {
		return Service{}, fmt.Errorf("cmd: telegram options build failed: %w", err)
	}
	if run == nil {
		run = coretelegram.RunTelegram
	}
	prevStart := runOpts.OnStart
	runOpts.OnStart = func(ctx context.Context, rt coretelegram.Runtime) error {
		if prevStart != nil {
			if err := prevStart(ctx, rt); err != nil {
				return err
			}
		}
		var username string
		if rt.Bot != nil && rt.Bot.Me != nil {
			username = rt.Bot.Me.Username
		}
		logger.Component(logger.ComponentApp).Info("telegram ready",
			slog.String("event", "ready"),
			slog.String("bot", username),
		)
		return nil
	}
	return Service{
		Name: "telegram",
		Run:  func(ctx context.Context) error { return run(ctx, runOpts) },
	}, nil
}
