package router

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/salestrainer/core/telegram"
)

// FSM is the part of the state manager the text router needs.
type FSM interface {
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}

// TextOptions sets the replies for updates nothing else claims.
type TextOptions struct {
	UnknownText  tele.HandlerFunc
	UnknownMedia tele.HandlerFunc
}

// TextRoutes routes plain text in this order: reply-keyboard labels,
// commands typed with a bot suffix or alias, the sender's FSM state, then
// the fallbacks. Text starting with "/" never reaches the FSM.
func TextRoutes(fsm FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	text := func(c tele.Context) error {
		msg := strings.TrimSpace(c.Text())

		if reg != nil {
			if h, ok := reg.LookupText(msg); ok {
				return run(c, handlerName("text", msg), h)
			}
			if strings.HasPrefix(msg, "/") {
				if name, cmd, ok := reg.LookupCommand(msg); ok && !cmd.AdminOnly {
					return run(c, handlerName("command", name), cmd.Handler)
				}
			}
		}

		if fsm != nil && c.Sender() != nil && !strings.HasPrefix(msg, "/") && fsm.InProgress(c.Sender().ID) {
			return run(c, "fsm", fsm.ManagerHandler)
		}

		fallback := opts.UnknownText
		if reg != nil && reg.TextFallback() != nil {
			fallback = reg.TextFallback()
		}
		if fallback == nil {
			skipped(c, "unknown_text")
			return nil
		}
		return run(c, "unknown_text", fallback)
	}

	media := func(c tele.Context) error {
		if opts.UnknownMedia == nil {
			skipped(c, "unknown_media")
			return nil
		}
		return run(c, "unknown_media", opts.UnknownMedia)
	}

	routes := []tg.Route{{Endpoint: tele.OnText, Handler: wrap(text)}}
	for _, endpoint := range []string{tele.OnDocument, tele.OnPhoto, tele.OnVoice, tele.OnSticker} {
		routes = append(routes, tg.Route{Endpoint: endpoint, Handler: wrap(media)})
	}
	return routes
}
