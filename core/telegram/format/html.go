// Package format prepares text for Telegram's HTML parse mode.
package format

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageRunes is the Bot API limit for a text message.
const MaxMessageRunes = 4096

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML escapes the three characters Telegram's HTML mode treats as markup.
// Quotes are left alone since they only matter inside attributes.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Bold wraps an escaped s in <b> tags.
func Bold(s string) string {
	return "<b>" + EscapeHTML(s) + "</b>"
}

// Italic wraps an escaped s in <i> tags.
func Italic(s string) string {
	return "<i>" + EscapeHTML(s) + "</i>"
}

// Truncate cuts s to at most max runes, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
