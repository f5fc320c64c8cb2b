// Package router turns the registry into telebot routes that log one
// summary line per handled update.
package router

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/salestrainer/core/logger"
	tghelpers "github.com/m3rciful/salestrainer/core/telegram/helpers"
	"github.com/m3rciful/salestrainer/core/telegram/middleware"
	"github.com/m3rciful/salestrainer/core/training"
)

// wrap applies the per-route middleware; both are no-ops when the global
// chain already ran them.
func wrap(h tele.HandlerFunc) tele.HandlerFunc {
	return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
}

// run executes fn as handler name and logs the summary line.
func run(c tele.Context, name string, fn tele.HandlerFunc, extras ...slog.Attr) error {
	start := time.Now()
	tghelpers.WithHandler(c, name)
	err := fn(c)
	// Handlers may enrich the cached context with session data.
	ctx := tghelpers.BuildContext(c)

	msgs, kb := middleware.GetCounters(c)
	attrs := []slog.Attr{
		slog.String("status", logger.Status(err)),
		slog.String("handler", name),
		slog.String("outcome", outcome(err)),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Duration("duration", logger.Took(start)),
	}
	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelError
		attrs = append(attrs, logger.Err(err), slog.String("err_code", errorCode(err)))
	}
	if m := logger.ModuleFrom(ctx); m != "" {
		attrs = append(attrs, slog.String("module", m))
	}
	logger.LogEvent(ctx, logger.TG, level, "handler.handled", append(attrs, extras...)...)
	return err
}

// skipped logs an update nobody handled.
func skipped(c tele.Context, name string) {
	logger.LogEvent(tghelpers.WithHandler(c, name), logger.TG, slog.LevelDebug, "handler.handled",
		slog.String("status", "skip"),
		slog.String("handler", name),
	)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "fail"
	}
}

// handlerName normalises a command or callback key for the handler attribute.
func handlerName(kind, key string) string {
	key = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(key), "/"))
	if key == "" {
		key = "unknown"
	}
	return kind + "." + strings.ReplaceAll(key, " ", "_")
}

// errorCode maps known failures to stable codes for log queries.
func errorCode(err error) string {
	switch {
	case errors.Is(err, training.ErrEmptyMessage):
		return "EMPTY_MESSAGE"
	case errors.Is(err, training.ErrMissingUserID):
		return "MISSING_USER"
	case errors.Is(err, training.ErrCorruptState):
		return "CORRUPT_STATE"
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return "TG_API"
	}
	return "INTERNAL"
}
