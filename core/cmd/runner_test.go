package cmd

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/salestrainer/core/config"
	coretelegram "github.com/m3rciful/salestrainer/core/telegram"
)

type fakeApp struct {
	services []Service
	closed   bool
}

func (a *fakeApp) Services() ([]Service, error) { return a.services, nil }

func (a *fakeApp) Close() error {
	a.closed = true
	return nil
}

type fakeTelegram struct{ opts coretelegram.RunOptions }

func (f fakeTelegram) TelegramRunOptions() (coretelegram.RunOptions, error) { return f.opts, nil }

func options(app *fakeApp) Options {
	return Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        func(string) (*coreconfig.Config, error) { return &coreconfig.Config{}, nil },
		Bootstrap:         func(context.Context, *coreconfig.Config) (App, error) { return app, nil },
		ShutdownLogger:    func() error { return nil },
		Signals:           []os.Signal{syscall.SIGUSR1},
	}
}

func TestRunStopsAllServicesOnFailure(t *testing.T) {
	stopped := make(chan struct{})
	app := &fakeApp{services: []Service{
		{Name: "http", Run: func(ctx context.Context) error {
			<-ctx.Done()
			close(stopped)
			return nil
		}},
		{Name: "telegram", Run: func(context.Context) error { return errors.New("unauthorized") }},
	}}

	err := Run(options(app))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram: unauthorized")
	assert.True(t, app.closed)
	<-stopped
}

func TestRunRequiresServices(t *testing.T) {
	app := &fakeApp{}
	assert.Error(t, Run(options(app)))
	assert.True(t, app.closed)
}

func TestRunValidatesOptions(t *testing.T) {
	assert.Error(t, Run(Options{}))

	opts := options(&fakeApp{})
	opts.DefaultConfigPath = ""
	opts.ConfigEnvVar = "SALESTRAINER_TEST_UNSET_CONFIG"
	assert.Error(t, Run(opts))

	opts = options(&fakeApp{})
	opts.LoadConfig = func(string) (*coreconfig.Config, error) { return nil, errors.New("boom") }
	assert.Error(t, Run(opts))
}

func TestTelegramServiceWrapsStart(t *testing.T) {
	started := false
	app := fakeTelegram{opts: coretelegram.RunOptions{
		OnStart: func(context.Context, coretelegram.Runtime) error {
			started = true
			return nil
		},
	}}
	svc, err := TelegramService(app, func(ctx context.Context, opts coretelegram.RunOptions) error {
		return opts.OnStart(ctx, coretelegram.Runtime{})
	})
	require.NoError(t, err)
	assert.Equal(t, "telegram", svc.Name)
	require.NoError(t, svc.Run(context.Background()))
	assert.True(t, started)
}
