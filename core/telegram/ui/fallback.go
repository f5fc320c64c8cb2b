// Package ui declares the replies a bot gives to updates no route claims.
package ui

import tele "gopkg.in/telebot.v4"

// FallbackProvider supplies handlers for text outside any conversation,
// non-text messages, and stale inline buttons.
type FallbackProvider interface {
	UnknownText() tele.HandlerFunc
	UnknownDocument() tele.HandlerFunc
	UnknownCallback() tele.HandlerFunc
}

// Fallbacks is a FallbackProvider built from plain handler values.
type Fallbacks struct {
	Text     tele.HandlerFunc
	Document tele.HandlerFunc
	Callback tele.HandlerFunc
}

// UnknownText implements FallbackProvider.
func (f Fallbacks) UnknownText() tele.HandlerFunc { return f.Text }

// UnknownDocument implements FallbackProvider.
func (f Fallbacks) UnknownDocument() tele.HandlerFunc { return f.Document }

// UnknownCallback implements FallbackProvider.
func (f Fallbacks) UnknownCallback() tele.HandlerFunc { return f.Callback }
