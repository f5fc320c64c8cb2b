package logger

import (
	"context"
	"log/slog"
)

type metaKey struct{}

// meta is the correlation data a request carries. It is copied on every
// change so contexts never share mutable state.
type meta struct {
	log        *slog.Logger
	rid        string
	handler    string
	module     string
	sessionKey string
	updateID   int
	userID     int64
	chatID     int64
}

func metaFrom(ctx context.Context) meta {
	if ctx == nil {
		return meta{}
	}
	m, _ := ctx.Value(metaKey{}).(meta)
	return m
}

func withMeta(ctx context.Context, edit func(*meta)) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	m := metaFrom(ctx)
	edit(&m)
	return context.WithValue(ctx, metaKey{}, m)
}

// WithLogger makes log the logger LogEvent falls back to for ctx.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	if log == nil {
		return withMeta(ctx, func(*meta) {})
	}
	return withMeta(ctx, func(m *meta) { m.log = log })
}

// FromContext returns the logger stored by WithLogger, or L.
func FromContext(ctx context.Context) *slog.Logger {
	if l := metaFrom(ctx).log; l != nil {
		return l
	}
	return L
}

// WithRID sets the correlation id.
func WithRID(ctx context.Context, rid string) context.Context {
	return withMeta(ctx, func(m *meta) { m.rid = rid })
}

func RIDFrom(ctx context.Context) string { return metaFrom(ctx).rid }

// WithUpdateMeta records the Telegram update, user and chat ids.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	return withMeta(ctx, func(m *meta) {
		m.updateID = updateID
		m.userID = userID
		m.chatID = chatID
	})
}

// WithHandler names the handler serving the request. Empty names are ignored.
func WithHandler(ctx context.Context, handler string) context.Context {
	if handler == "" {
		return withMeta(ctx, func(*meta) {})
	}
	return withMeta(ctx, func(m *meta) { m.handler = handler })
}

func HandlerFrom(ctx context.Context) string { return metaFrom(ctx).handler }

// WithSession tags the context with the training module and session key
// being served. Empty values keep what is already set.
func WithSession(ctx context.Context, module, sessionKey string) context.Context {
	return withMeta(ctx, func(m *meta) {
		if module != "" {
			m.module = module
		}
		if sessionKey != "" {
			m.sessionKey = sessionKey
		}
	})
}

func ModuleFrom(ctx context.Context) string     { return metaFrom(ctx).module }
func SessionKeyFrom(ctx context.Context) string { return metaFrom(ctx).sessionKey }
func UserIDFrom(ctx context.Context) int64      { return metaFrom(ctx).userID }
func ChatIDFrom(ctx context.Context) int64      { return metaFrom(ctx).chatID }
func UpdateIDFrom(ctx context.Context) int      { return metaFrom(ctx).updateID }
