package logger

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func captureLine(t *testing.T, format logFormat, emit func(*slog.Logger)) string {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newLineWriter([]io.Writer{buf}, 1024)
	handler := newLineHandler(handlerConfig{
		level:    slog.LevelDebug,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	emit(slog.New(handler))
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	return line
}

func TestLineHandlerKVOrder(t *testing.T) {
	ctx := WithRID(context.Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	line := captureLine(t, formatKV, func(l *slog.Logger) {
		LogEvent(ctx, l.With("component", "app"), slog.LevelInfo, "test.event",
			slog.String("status", "ok"),
			slog.String("cause", "unit"),
		)
	})
	tokens := strings.Split(line, " ")
	expected := []string{"ts=", "level=INFO", "component=app", "event=test.event", "status=ok", "rid=rid-123"}
	if len(tokens) < len(expected) {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestLineHandlerJSONSessionFields(t *testing.T) {
	ctx := WithRID(context.Background(), "rid-json")
	ctx = WithSession(ctx, "sleeping_dragon", "sleeping_dragon:42")

	line := captureLine(t, formatJSON, func(l *slog.Logger) {
		LogEvent(ctx, l.With("component", ComponentEngine), slog.LevelWarn, "turn.fallback",
			slog.String("status", "ok"),
			slog.String("source", "fallback"),
			slog.Int("stage", 2),
		)
	})
	prefixes := []string{
		`{"ts":`,
		`"level":"WARN"`,
		`"component":"training"`,
		`"event":"turn.fallback"`,
		`"module":"sleeping_dragon"`,
		`"session_key":"sleeping_dragon:42"`,
		`"stage":2`,
		`"source":"fallback"`,
	}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
}

func TestLineHandlerDropsUnknownSource(t *testing.T) {
	line := captureLine(t, formatKV, func(l *slog.Logger) {
		LogEvent(context.Background(), l, slog.LevelInfo, "llm.call",
			slog.String("source", "magic"),
		)
	})
	if strings.Contains(line, "source=") {
		t.Fatalf("unexpected source in %s", line)
	}
}

func TestLineHandlerDurationKeys(t *testing.T) {
	line := captureLine(t, formatKV, func(l *slog.Logger) {
		LogEvent(context.Background(), l, slog.LevelInfo, "llm.call",
			slog.Duration("duration", 1500*time.Microsecond),
			slog.Duration("llm_duration", 2*time.Second),
			slog.Duration("timeout", 30*time.Second),
		)
	})
	for _, want := range []string{"duration_ms=2", "llm_duration_ms=2000", "timeout_ms=30000"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in %s", want, line)
		}
	}
}

func TestLineHandlerErrAttr(t *testing.T) {
	line := captureLine(t, formatJSON, func(l *slog.Logger) {
		LogEvent(context.Background(), l, slog.LevelError, "store.get",
			Err(errors.New("disk\x00 full")),
			Err(nil),
		)
	})
	if !strings.Contains(line, `"err":"disk full"`) {
		t.Fatalf("expected sanitized err in %s", line)
	}
}

func TestLineHandlerCompactRID(t *testing.T) {
	rawRID := "123:456:789"
	ctx := WithRID(context.Background(), rawRID)

	kv := captureLine(t, formatKV, func(l *slog.Logger) {
		LogEvent(ctx, l, slog.LevelInfo, "rid.test", slog.String("status", "ok"))
	})
	if !strings.Contains(kv, "rid="+CompactRID(rawRID)) {
		t.Fatalf("expected compact rid, got %s", kv)
	}
	if strings.Contains(kv, "rid_full=") {
		t.Fatalf("rid_full should be omitted in KV output, got %s", kv)
	}

	js := captureLine(t, formatJSON, func(l *slog.Logger) {
		LogEvent(ctx, l, slog.LevelInfo, "rid.test", slog.String("status", "ok"))
	})
	if !strings.Contains(js, `"rid_full":"`+rawRID+`"`) {
		t.Fatalf("expected rid_full in JSON output, got %s", js)
	}
	if !strings.Contains(js, `"ts_unix_nano"`) {
		t.Fatalf("expected ts_unix_nano in JSON output, got %s", js)
	}
}

func TestLineHandlerGroups(t *testing.T) {
	line := captureLine(t, formatKV, func(l *slog.Logger) {
		l.WithGroup("llm").With("provider", "anthropic").Info("llm.call", slog.Group("usage", slog.Int("tokens", 12)))
	})
	for _, want := range []string{"event=llm.call", "llm.provider=anthropic", "llm.usage.tokens=12"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in %s", want, line)
		}
	}
}

func TestLineWriterClosed(t *testing.T) {
	buf := &bytes.Buffer{}
	w := newLineWriter([]io.Writer{buf}, 0)
	if err := w.Write([]byte("a\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if buf.String() != "a\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if err := w.Write([]byte("b\n")); !errors.Is(err, errWriterClosed) {
		t.Fatalf("write after close: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush after close: %v", err)
	}
}

func TestDebugSampler(t *testing.T) {
	s := newDebugSampler(1, 3)
	got := []bool{s.Allow(), s.Allow(), s.Allow(), s.Allow()}
	want := []bool{true, false, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("allow[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	s.Set(0, 0)
	if !s.Allow() || !s.Allow() {
		t.Fatal("zero rate should let everything through")
	}
}

func TestParseSampleSpec(t *testing.T) {
	cases := []struct {
		spec     string
		num, den int
		ok       bool
	}{
		{"10", 1, 10, true},
		{"2/5", 2, 5, true},
		{"0", 0, 0, true},
		{"", 0, 0, false},
		{"x/5", 0, 0, false},
		{"-3", 0, 0, false},
	}
	for _, tc := range cases {
		num, den, ok := parseSampleSpec(tc.spec)
		if num != tc.num || den != tc.den || ok != tc.ok {
			t.Fatalf("parseSampleSpec(%q) = %d/%d %v", tc.spec, num, den, ok)
		}
	}
}
