package telegram

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/m3rciful/salestrainer/core/config"
)

const defaultLongPollTimeout = 10 * time.Second

// BuildPoller picks a webhook or long poller from the Telegram section of cfg.
func BuildPoller(cfg *coreconfig.Config) tele.Poller {
	if cfg == nil {
		return &tele.LongPoller{Timeout: defaultLongPollTimeout}
	}
	if strings.EqualFold(cfg.Telegram.RunMode, coreconfig.RunModeWebhook) {
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", cfg.Webhook.Listen, cfg.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}
	timeout := defaultLongPollTimeout
	if s := cfg.Telegram.LongPollTimeoutSeconds; s > 0 {
		timeout = time.Duration(s) * time.Second
	}
	return &tele.LongPoller{Timeout: timeout}
}

// pollerAttrs describes the poller for the startup log line.
func pollerAttrs(p tele.Poller) []slog.Attr {
	switch v := p.(type) {
	case *tele.Webhook:
		attrs := []slog.Attr{
			slog.String("mode", coreconfig.RunModeWebhook),
			slog.String("listen", v.Listen),
		}
		if v.Endpoint != nil {
			attrs = append(attrs, slog.String("public_url", v.Endpoint.PublicURL))
		}
		return attrs
	case *tele.LongPoller:
		return []slog.Attr{
			slog.String("mode", coreconfig.RunModeLongpoll),
			slog.Duration("timeout", v.Timeout),
		}
	default:
		return []slog.Attr{slog.String("mode", fmt.Sprintf("%T", p))}
	}
}
