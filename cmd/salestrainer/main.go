package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/m3rciful/salestrainer/bot"
	"github.com/m3rciful/salestrainer/core/bootstrap"
	"github.com/m3rciful/salestrainer/core/cmd"
	coreconfig "github.com/m3rciful/salestrainer/core/config"
	"github.com/m3rciful/salestrainer/core/httpapi"
)

type app struct {
	cfg *coreconfig.Config
	res *bootstrap.Result
}

func (a *app) Services() ([]cmd.Service, error) {
	var services []cmd.Service
	if !a.cfg.HTTP.Disabled {
		srv := httpapi.NewServer(a.cfg.HTTP, a.res.Sessions, a.res.Modules)
		services = append(services, cmd.Service{Name: "http", Run: srv.Run})
	}
	if !a.cfg.Telegram.Disabled {
		b, err := bot.New(bot.Options{
			Config:   a.cfg,
			Sessions: a.res.Sessions,
			Modules:  a.res.Modules,
		})
		if err != nil {
			return nil, err
		}
		svc, err := cmd.TelegramService(b, nil)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, nil
}

func (a *app) Close() error { return a.res.Close() }

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        coreconfig.Load,
		Bootstrap: func(ctx context.Context, cfg *coreconfig.Config) (cmd.App, error) {
			res, err := bootstrap.Run(ctx, bootstrap.Options{Config: cfg})
			if err != nil {
				return nil, err
			}
			return &app{cfg: cfg, res: res}, nil
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
