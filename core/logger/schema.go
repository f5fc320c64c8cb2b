package logger

import (
	"log/slog"
	"slices"
	"strings"
)

// levelName maps slog levels onto the names log shippers index.
func levelName(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO"
	case l < slog.LevelError:
		return "WARN"
	case l == slog.LevelError:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// enum restricts a field to known values. Unknown values are dropped unless
// open is set.
type enum struct {
	values []string
	open   bool
}

var enums = map[string]enum{
	"status":  {values: []string{"ok", "fail", "skip", "retry", "rate_limited", "cancelled"}, open: true},
	"outcome": {values: []string{"ok", "fail", "cancelled", "rate_limited"}},
	"source":  {values: []string{"llm", "fallback"}},
}

func normalizeEnums(f fields) {
	for key, e := range enums {
		raw, ok := f[key].(string)
		if !ok {
			continue
		}
		v := strings.ToLower(strings.TrimSpace(raw))
		if v == "" || e.open || slices.Contains(e.values, v) {
			f[key] = v
			continue
		}
		delete(f, key)
	}
}

var defaultKeyOrder = []string{
	"ts", "level", "component", "event", "status",
	"rid", "rid_full", "ts_unix_nano",
	"update_id", "user_id", "chat_id", "chat_type", "handler",
	"module", "session_key", "session_id", "scenario", "behavior", "stage", "turn", "advanced",
	"role", "source", "provider", "model",
	"method", "path", "http_code",
	"operation", "cb_key", "outcome", "duration_ms", "messages", "kb", "count", "payload",
	"username", "mode", "listen", "public_url", "backend", "db", "host", "port",
	"err", "err_code", "cause", "retryable", "attempts", "backoff_ms", "rate_limited",
}
