// Package callbacks decodes inline button payloads.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Parse splits telebot's "\f<unique>|<payload>" callback data.
// Data without the leading \f is treated as a bare unique key.
func Parse(cb *tele.Callback) (unique, payload string) {
	if cb == nil {
		return "", ""
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	unique, payload, _ = strings.Cut(raw, "|")
	unique = strings.TrimSpace(unique)
	if cb.Unique != "" {
		unique = cb.Unique
	}
	return unique, payload
}

// Key returns the unique part of the callback carried by c, or "".
func Key(c tele.Context) string {
	key, _ := Parse(c.Callback())
	return key
}

// Join builds "<prefix>_<action>", the unique key shape used by module buttons.
func Join(prefix, action string) string {
	return prefix + "_" + action
}
