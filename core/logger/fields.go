package logger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
)

// fields is one flattened log line keyed by dotted attribute name.
type fields map[string]any

func (f fields) clone(extra int) fields {
	out := make(fields, len(f)+extra)
	for k, v := range f {
		out[k] = v
	}
	return out
}

// add flattens attr under prefix. Groups become dotted keys.
func (f fields) add(prefix string, attr slog.Attr) {
	key := attr.Key
	switch {
	case key == "":
		key = prefix
	case prefix != "":
		key = prefix + "." + key
	}
	val := attr.Value.Resolve()
	if val.Kind() == slog.KindGroup {
		for _, child := range val.Group() {
			f.add(key, child)
		}
		return
	}
	if key == "" {
		return
	}
	if k, v, ok := plain(key, val); ok {
		f[k] = v
	}
}

func (f fields) str(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (f fields) setDefault(key string, val any) {
	if _, ok := f[key]; !ok {
		f[key] = val
	}
}

// fromContext copies correlation data the call site did not set itself.
func (f fields) fromContext(ctx context.Context) {
	if ctx == nil {
		return
	}
	if v := RIDFrom(ctx); v != "" {
		f.setDefault("rid", v)
	}
	if v := UpdateIDFrom(ctx); v != 0 {
		f.setDefault("update_id", v)
	}
	if v := UserIDFrom(ctx); v != 0 {
		f.setDefault("user_id", v)
	}
	if v := ChatIDFrom(ctx); v != 0 {
		f.setDefault("chat_id", v)
	}
	if v := HandlerFrom(ctx); v != "" {
		f.setDefault("handler", v)
	}
	if v := ModuleFrom(ctx); v != "" {
		f.setDefault("module", v)
	}
	if v := SessionKeyFrom(ctx); v != "" {
		f.setDefault("session_key", v)
	}
}

// prune drops empty strings and nils.
func (f fields) prune() {
	for k, v := range f {
		switch x := v.(type) {
		case nil:
			delete(f, k)
		case string:
			if x == "" {
				delete(f, k)
			}
		}
	}
}

// plain converts val to a JSON friendly value. Durations are emitted in
// milliseconds under an _ms key.
func plain(key string, val slog.Value) (string, any, bool) {
	switch val.Kind() {
	case slog.KindString:
		return key, strings.TrimSpace(val.String()), true
	case slog.KindBool:
		return key, val.Bool(), true
	case slog.KindInt64:
		return key, val.Int64(), true
	case slog.KindUint64:
		if u := val.Uint64(); u <= math.MaxInt64 {
			return key, int64(u), true
		}
		return key, val.Uint64(), true
	case slog.KindFloat64:
		return key, val.Float64(), true
	case slog.KindDuration:
		return msKey(key), RoundMS(val.Duration()).Milliseconds(), true
	case slog.KindTime:
		return key, val.Time().UTC().Format(time.RFC3339Nano), true
	}
	switch x := val.Any().(type) {
	case nil:
		return key, nil, false
	case error:
		return key, x.Error(), true
	case string:
		return key, strings.TrimSpace(x), true
	case time.Duration:
		return msKey(key), RoundMS(x).Milliseconds(), true
	case fmt.Stringer:
		return key, x.String(), true
	default:
		return key, fmt.Sprint(x), true
	}
}

func msKey(key string) string {
	switch {
	case key == "duration":
		return "duration_ms"
	case strings.HasSuffix(key, "_ms"):
		return key
	default:
		return key + "_ms"
	}
}
