package bot

import (
	"errors"
	"log/slog"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/salestrainer/core/logger"
	tghelpers "github.com/m3rciful/salestrainer/core/telegram/helpers"
	"github.com/m3rciful/salestrainer/core/telegram/state"
	"github.com/m3rciful/salestrainer/core/training"
)

func userID(c tele.Context) string {
	if u := c.Sender(); u != nil {
		return strconv.FormatInt(u.ID, 10)
	}
	return ""
}

func (b *Bot) start(c tele.Context) error {
	if u := c.Sender(); u != nil {
		b.fsm.Clear(u.ID)
	}
	return tghelpers.SendText(c, greetingText, greetingKeyboard())
}

func (b *Bot) menu(c tele.Context) error {
	return tghelpers.SendHTML(c, menuText, menuKeyboard(b.mods))
}

func (b *Bot) beginner(c tele.Context) error {
	first := b.mods[0]
	if err := tghelpers.SendHTML(c, beginnerText(first)); err != nil {
		return err
	}
	return b.enter(first, true)(c)
}

// render runs view against the caller's session, resetting it first when asked.
func (b *Bot) render(c tele.Context, mod *training.Module, view string, reset bool) (string, error) {
	ctx := logger.WithSession(tghelpers.BuildContext(c), mod.Name(), mod.SessionKey(userID(c)))
	tghelpers.StoreContext(c, ctx)
	var text string
	err := b.sessions.Do(ctx, mod, userID(c), func(e *training.Engine) error {
		if reset {
			if _, err := e.Reset(ctx); err != nil {
				return err
			}
		}
		var err error
		text, err = mod.Render(view, e.Snapshot())
		return err
	})
	return text, err
}

// enter puts the user into mod. A reset starts a fresh scenario; otherwise
// the current one is shown.
func (b *Bot) enter(mod *training.Module, reset bool) tele.HandlerFunc {
	view := training.ViewHelp
	if reset {
		view = training.ViewStarted
	}
	return func(c tele.Context) error {
		text, err := b.render(c, mod, view, reset)
		if err != nil {
			return b.fail(c, err)
		}
		if u := c.Sender(); u != nil {
			b.fsm.Set(u.ID, state.State(mod.Name()))
		}
		return tghelpers.SendHTML(c, text, moduleKeyboard(mod))
	}
}

func (b *Bot) reset(mod *training.Module) tele.HandlerFunc {
	return func(c tele.Context) error {
		text, err := b.render(c, mod, training.ViewReset, true)
		if err != nil {
			return b.fail(c, err)
		}
		if u := c.Sender(); u != nil {
			b.fsm.Set(u.ID, state.State(mod.Name()))
		}
		return tghelpers.EditOrSendHTML(c, text, moduleKeyboard(mod))
	}
}

func (b *Bot) status(mod *training.Module) tele.HandlerFunc {
	return func(c tele.Context) error {
		text, err := b.render(c, mod, training.ViewStatus, false)
		if err != nil {
			return b.fail(c, err)
		}
		return tghelpers.EditOrSendHTML(c, text, moduleKeyboard(mod))
	}
}

// turn feeds free text to the module engine. When only persisting failed
// the exchange is still shown.
func (b *Bot) turn(mod *training.Module) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := logger.WithSession(tghelpers.BuildContext(c), mod.Name(), mod.SessionKey(userID(c)))
		tghelpers.StoreContext(c, ctx)
		_ = c.Notify(tele.Typing)

		var res training.TurnResult
		err := b.sessions.Do(ctx, mod, userID(c), func(e *training.Engine) error {
			var err error
			res, err = e.HandleTurn(ctx, c.Text())
			return err
		})
		switch {
		case errors.Is(err, training.ErrEmptyMessage):
			return tghelpers.SendText(c, emptyText)
		case err != nil && res.ClientReply == "":
			return b.fail(c, err)
		case err != nil:
			logger.LogEvent(ctx, logger.TG, slog.LevelWarn, "turn.persist",
				slog.String("status", "fail"),
				logger.Err(err),
			)
		}
		return tghelpers.SendHTML(c, turnText(res), moduleKeyboard(mod))
	}
}

func (b *Bot) stats(c tele.Context) error {
	s := stats{
		modules:  len(b.mods),
		sessions: b.sessions.Len(),
		active:   b.fsm.Len(),
	}
	if d := b.dispatcher.Load(); d != nil {
		s.sent, s.failed = d.Stats()
	}
	return tghelpers.SendHTML(c, statsText(s))
}

func (b *Bot) unknownText(c tele.Context) error {
	return tghelpers.SendText(c, hintText)
}

func (b *Bot) unknownMedia(c tele.Context) error {
	return tghelpers.SendText(c, mediaText)
}

func (b *Bot) rateLimited(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: rateLimitedText})
	}
	return tghelpers.SendText(c, rateLimitedText)
}

// fail tells the user something went wrong and hands err to the router log.
func (b *Bot) fail(c tele.Context, err error) error {
	_ = tghelpers.SendText(c, failedText)
	return err
}
