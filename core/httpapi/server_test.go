package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/salestrainer/core/llm"
	"github.com/m3rciful/salestrainer/core/store"
	"github.com/m3rciful/salestrainer/core/training"
	"github.com/m3rciful/salestrainer/modules/sleepingdragon"
)

type brokenStore struct{ store.Store }

func (brokenStore) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func newTestRouter(t *testing.T, st store.Store) http.Handler {
	t.Helper()
	mod, err := training.NewModule(sleepingdragon.Definition())
	require.NoError(t, err)
	gw := llm.GatewayFunc(func(_ context.Context, msgs []llm.Message) (string, error) {
		if strings.HasPrefix(msgs[0].Content, "Ты играешь роль клиента") {
			return "Спасибо, сейчас занят.", nil
		}
		return "Тёплое начало, добавь вопрос.", nil
	})
	reg := training.NewRegistry(training.Deps{Store: st, Gateway: gw, Pick: func(int) int { return 0 }})
	return NewRouter(reg, []*training.Module{mod}, nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var got map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got), w.Body.String())
	}
	return w.Code, got
}

func TestStartProbe(t *testing.T) {
	h := newTestRouter(t, store.NewMemory())
	code, got := do(t, h, http.MethodPost, "/sleeping_dragon/v1/start", `{"probe":true}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, got["ok"])
	assert.Equal(t, true, got["available"])
}

func TestStartRendersStatus(t *testing.T) {
	h := newTestRouter(t, store.NewMemory())
	code, got := do(t, h, http.MethodPost, "/sleeping_dragon/v1/start", `{"chat_id":12345}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "12345", got["user_id"])
	reply, _ := got["reply"].(string)
	assert.True(t, strings.HasPrefix(reply, "🐉 <b>Спящий Дракон</b> - Модуль активирован!"))
	assert.Contains(t, reply, "Клиент получил тексты песни, но не ответил")
	assert.Contains(t, reply, "Занятой, но доброжелательный")
	assert.Contains(t, reply, "🌊 <b>Текущая волна:</b> 1 из 3")

	state := got["state"].(map[string]any)
	assert.Equal(t, float64(1), state["stage"])
	assert.Equal(t, "after_texts", state["scenario"])
}

func TestTurnFlow(t *testing.T) {
	h := newTestRouter(t, store.NewMemory())

	code, got := do(t, h, http.MethodPost, "/sleeping_dragon/v1/turn", `{"user_id":"u1","message":"Привет! Как вам тексты?"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Спасибо, сейчас занят.", got["reply"])
	assert.Equal(t, "Тёплое начало, добавь вопрос.", got["feedback"])
	assert.Equal(t, false, got["advanced"])
	assert.NotContains(t, got, "stage_intro")

	code, got = do(t, h, http.MethodPost, "/sleeping_dragon/v1/turn", `{"chat_id":"u1","text":"Есть бонус для вас"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, got["advanced"])
	assert.Equal(t, float64(2), got["new_stage"])
	assert.Contains(t, got["stage_intro"], "Волна 2")

	code, got = do(t, h, http.MethodGet, "/sleeping_dragon/v1/state/u1", "")
	require.Equal(t, http.StatusOK, code)
	state := got["state"].(map[string]any)
	assert.Len(t, state["history"], 4)
	assert.Len(t, state["feedback"], 2)
}

func TestResetRoutes(t *testing.T) {
	h := newTestRouter(t, store.NewMemory())
	_, _ = do(t, h, http.MethodPost, "/sleeping_dragon/v1/turn", `{"user_id":"u2","message":"hi"}`)

	code, got := do(t, h, http.MethodPost, "/sleeping_dragon/v1/reset/u2", "")
	require.Equal(t, http.StatusOK, code)
	result := got["result"].(map[string]any)
	assert.Equal(t, "reset", result["status"])
	assert.Equal(t, "after_texts", result["scenario"])
	assert.Empty(t, got["state"].(map[string]any)["history"])

	code, got = do(t, h, http.MethodPost, "/sleeping_dragon/v1/start/u2", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "u2", got["user_id"])
}

func TestValidationErrors(t *testing.T) {
	h := newTestRouter(t, store.NewMemory())
	cases := []struct {
		name, path, body string
	}{
		{"start without id", "/sleeping_dragon/v1/start", `{}`},
		{"turn without id", "/sleeping_dragon/v1/turn", `{"message":"hi"}`},
		{"turn without text", "/sleeping_dragon/v1/turn", `{"user_id":"u3","message":"  "}`},
		{"bad json", "/sleeping_dragon/v1/turn", `{"user_id":`},
		{"fractional id", "/sleeping_dragon/v1/start", `{"chat_id":1.5}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, got := do(t, h, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, false, got["ok"])
			assert.NotEmpty(t, got["error"])
		})
	}
}

func TestStoreFailureIs500(t *testing.T) {
	h := newTestRouter(t, brokenStore{Store: store.NewMemory()})
	code, got := do(t, h, http.MethodGet, "/sleeping_dragon/v1/state/u4", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal error", got["error"])
}

func TestRoutesSummaryAndPing(t *testing.T) {
	h := newTestRouter(t, store.NewMemory())
	code, got := do(t, h, http.MethodGet, "/api/public/v1/routes_summary", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"/sleeping_dragon/v1"}, got["attached"])
	assert.Equal(t, []any{}, got["errors"])

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
