// Package llm defines the chat gateway used by training engines and its provider adapters.
package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/salestrainer/core/logger"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrNoGateway reports that generation is not configured.
	ErrNoGateway = errors.New("llm: no gateway configured")
	// ErrEmptyReply reports a successful call that produced no text.
	ErrEmptyReply = errors.New("llm: empty reply")
)

// Message is one chat turn sent to a provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Gateway produces a single assistant reply for a conversation.
type Gateway interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// GatewayFunc adapts a plain function to Gateway.
type GatewayFunc func(ctx context.Context, messages []Message) (string, error)

// Chat calls f.
func (f GatewayFunc) Chat(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}

// Outcome is the typed result of a bounded gateway call.
type Outcome struct {
	Text     string
	Err      error
	Duration time.Duration
}

// OK reports whether the call produced usable text.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Text != ""
}

// Call invokes gw with a timeout. A nil gateway, an error, a timeout or a blank
// reply all yield a failed Outcome. A gateway that ignores ctx is abandoned
// once the deadline passes.
func Call(ctx context.Context, gw Gateway, timeout time.Duration, messages []Message) Outcome {
	if gw == nil {
		return Outcome{Err: ErrNoGateway}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		text string
		err  error
	}
	start := time.Now()
	done := make(chan result, 1)
	go func() {
		text, err := gw.Chat(ctx, messages)
		done <- result{text: text, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}
	took := time.Since(start)
	text := strings.TrimSpace(res.text)
	err := res.err
	if err == nil && text == "" {
		err = ErrEmptyReply
	}
	if err != nil {
		logger.LogEvent(ctx, logger.LLM, slog.LevelWarn, "llm.call",
			slog.String("status", "fail"),
			slog.Int("messages", len(messages)),
			slog.Duration("duration", took),
			logger.Err(err),
		)
		return Outcome{Err: err, Duration: took}
	}
	logger.LogEvent(ctx, logger.LLM, slog.LevelDebug, "llm.call",
		slog.String("status", "ok"),
		slog.Int("messages", len(messages)),
		slog.Duration("duration", took),
	)
	return Outcome{Text: text, Duration: took}
}
