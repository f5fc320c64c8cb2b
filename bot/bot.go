// Package bot is the Telegram front-end of the sales trainer. It maps
// commands, reply-keyboard labels and inline buttons onto training sessions.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/salestrainer/core/config"
	"github.com/m3rciful/salestrainer/core/logger"
	tg "github.com/m3rciful/salestrainer/core/telegram"
	"github.com/m3rciful/salestrainer/core/telegram/callbacks"
	"github.com/m3rciful/salestrainer/core/telegram/router"
	"github.com/m3rciful/salestrainer/core/telegram/sender"
	"github.com/m3rciful/salestrainer/core/telegram/state"
	"github.com/m3rciful/salestrainer/core/telegram/ui"
	"github.com/m3rciful/salestrainer/core/training"
)

// Options wires a Bot.
type Options struct {
	Config   *coreconfig.Config
	Sessions *training.Registry
	Modules  []*training.Module
	// FSM defaults to an in-memory manager.
	FSM state.Manager
}

// Bot owns the Telegram routing for the enabled modules.
type Bot struct {
	cfg        *coreconfig.Config
	sessions   *training.Registry
	mods       []*training.Module
	fsm        state.Manager
	reg        *tg.Registry
	dispatcher atomic.Pointer[sender.Dispatcher]
}

// New registers every command, label, callback and FSM handler.
func New(opts Options) (*Bot, error) {
	if opts.Config == nil {
		return nil, errors.New("bot: nil config")
	}
	if opts.Sessions == nil {
		return nil, errors.New("bot: nil session registry")
	}
	if len(opts.Modules) == 0 {
		return nil, errors.New("bot: no training modules enabled")
	}
	b := &Bot{
		cfg:      opts.Config,
		sessions: opts.Sessions,
		mods:     opts.Modules,
		fsm:      opts.FSM,
		reg:      tg.NewRegistry(),
	}
	if b.fsm == nil {
		b.fsm = state.NewMemoryManager()
	}
	if err := b.register(); err != nil {
		return nil, err
	}
	return b, nil
}

// Registry exposes the routing registry.
func (b *Bot) Registry() *tg.Registry { return b.reg }

// FSM exposes the conversation state manager.
func (b *Bot) FSM() state.Manager { return b.fsm }

func (b *Bot) register() error {
	cmds := map[string]tg.Command{
		"/start":   {Handler: b.start, Description: "Начать сначала"},
		"/modules": {Handler: b.menu, Description: "Выбрать модуль обучения", Aliases: []string{"menu"}},
		"/stats":   {Handler: b.stats, Description: "Статистика бота", AdminOnly: true},
	}
	for _, mod := range b.mods {
		cmds["/"+mod.Name()] = tg.Command{Handler: b.enter(mod, false), Description: plainTitle(mod.Title())}
	}
	for name, cmd := range cmds {
		if err := b.reg.RegisterCommand(name, cmd); err != nil {
			return fmt.Errorf("bot: %w", err)
		}
	}

	texts := map[string]tele.HandlerFunc{
		beginnerLabel:    b.beginner,
		experiencedLabel: b.menu,
	}
	for _, mod := range b.mods {
		texts[mod.Title()] = b.enter(mod, true)
	}
	for label, h := range texts {
		if err := b.reg.RegisterText(label, h); err != nil {
			return fmt.Errorf("bot: %w", err)
		}
	}

	for _, mod := range b.mods {
		prefix := mod.CallbackPrefix()
		if err := b.reg.RegisterCallback(callbacks.Join(prefix, actionReset), b.reset(mod)); err != nil {
			return fmt.Errorf("bot: %w", err)
		}
		if err := b.reg.RegisterCallback(callbacks.Join(prefix, actionStatus), b.status(mod)); err != nil {
			return fmt.Errorf("bot: %w", err)
		}
		b.fsm.Handle(state.State(mod.Name()), b.turn(mod))
	}

	b.reg.SetTextFallback(b.unknownText)
	return nil
}

// Fallbacks returns the replies for updates no route claims.
func (b *Bot) Fallbacks() ui.FallbackProvider {
	return ui.Fallbacks{
		Text:     b.unknownText,
		Document: b.unknownMedia,
		Callback: b.reg.CallbackNotFound(),
	}
}

// TelegramRunOptions assembles routes and middleware for tg.RunTelegram.
func (b *Bot) TelegramRunOptions() (tg.RunOptions, error) {
	fb := b.Fallbacks()
	routes := router.CommandRoutes(b.reg, router.CommandRouteOptions{AdminID: b.cfg.Telegram.AdminID})
	routes = append(routes, router.CallbackRoute(b.reg, router.CallbackOptions{NotFound: fb.UnknownCallback()}))
	routes = append(routes, router.TextRoutes(b.fsm, b.reg, router.TextOptions{
		UnknownText:  fb.UnknownText(),
		UnknownMedia: fb.UnknownDocument(),
	})...)

	return tg.RunOptions{
		Config:            b.cfg,
		Registry:          b.reg,
		DispatcherOptions: sender.Options{Workers: 4, MaxRetries: 2},
		Middlewares:       tg.DefaultMiddlewares(b.cfg, b.rateLimited),
		Routes:            routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			b.dispatcher.Store(rt.Dispatcher)
			logger.LogEvent(ctx, logger.TG, slog.LevelInfo, "bot.ready",
				slog.String("status", "ok"),
				slog.Int("count", len(b.mods)),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			b.dispatcher.Store(nil)
			logger.LogEvent(ctx, logger.TG, slog.LevelInfo, "bot.stop", slog.String("status", "ok"))
			return nil
		},
	}, nil
}
