package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/salestrainer/core/logger"
	"github.com/m3rciful/salestrainer/core/telegram/format"
	"github.com/m3rciful/salestrainer/core/telegram/sender"
)

var dispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher routes helper sends through d; nil makes them synchronous.
func SetDispatcher(d *sender.Dispatcher) {
	dispatcher.Store(d)
}

func deliver(c tele.Context, action string, run func() error) error {
	d := dispatcher.Load()
	if d == nil {
		return run()
	}
	ctx := BuildContext(c)
	err := d.Enqueue(ctx, action, run)
	if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
		logger.LogEvent(ctx, logger.TG, slog.LevelWarn, "send.queue_fallback",
			slog.String("operation", action),
			logger.Err(err),
		)
		return run()
	}
	return err
}

func htmlOptions(markup []*tele.ReplyMarkup) *tele.SendOptions {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML, DisableWebPagePreview: true}
	if len(markup) > 0 {
		opts.ReplyMarkup = markup[0]
	}
	return opts
}

// SendText sends text without a parse mode.
func SendText(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := &tele.SendOptions{}
	if len(markup) > 0 {
		opts.ReplyMarkup = markup[0]
	}
	text = format.Truncate(text, format.MaxMessageRunes)
	return deliver(c, "send.text", func() error { return c.Send(text, opts) })
}

// SendHTML sends already escaped HTML text with an optional keyboard.
func SendHTML(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := htmlOptions(markup)
	text = format.Truncate(text, format.MaxMessageRunes)
	return deliver(c, "send.html", func() error { return c.Send(text, opts) })
}

// EditOrSendHTML edits the message behind a callback, or sends a new one
// when there is nothing to edit.
func EditOrSendHTML(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := htmlOptions(markup)
	text = format.Truncate(text, format.MaxMessageRunes)
	return deliver(c, "edit.html", func() error { return c.EditOrSend(text, opts) })
}
