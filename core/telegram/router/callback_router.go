package router

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/salestrainer/core/telegram"
	"github.com/m3rciful/salestrainer/core/telegram/callbacks"
)

// CallbackOptions customises callbacks no registry entry claims.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute routes every inline button press through the registry.
// The spinner is cleared before the handler runs.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		if c.Callback() == nil {
			return nil
		}
		key := callbacks.Key(c)
		name := handlerName("callback", key)
		attr := slog.String("cb_key", key)

		if h, ok := reg.GetCallback(key); ok {
			_ = c.Respond()
			return run(c, name, h, attr)
		}

		notFound := opts.NotFound
		if notFound == nil {
			notFound = reg.CallbackNotFound()
		}
		if notFound == nil {
			_ = c.Respond()
			skipped(c, name)
			return nil
		}
		return run(c, name, notFound, attr, slog.String("cause", "not_found"))
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: wrap(handler)}
}
