package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/m3rciful/salestrainer/core/logger"
	"github.com/m3rciful/salestrainer/core/training"
)

// moduleHandler serves the routes of one training module.
type moduleHandler struct {
	mod *training.Module
	reg *training.Registry
}

type startRequest struct {
	ChatID userID `json:"chat_id"`
	UserID userID `json:"user_id"`
	Probe  bool   `json:"probe"`
}

type turnRequest struct {
	ChatID  userID `json:"chat_id"`
	UserID  userID `json:"user_id"`
	Message string `json:"message"`
	Text    string `json:"text"`
}

// RegisterRoutes mounts the module under /{name}/{version}.
func (h *moduleHandler) RegisterRoutes(r chi.Router) {
	r.Route(h.prefix(), func(r chi.Router) {
		r.Post("/start", h.start)
		r.Post("/start/{user_id}", h.startUser)
		r.Post("/turn", h.turn)
		r.Get("/state/{user_id}", h.state)
		r.Post("/reset/{user_id}", h.reset)
	})
}

func (h *moduleHandler) prefix() string {
	return "/" + h.mod.Name() + "/" + h.mod.Version()
}

func (h *moduleHandler) start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Probe {
		JSON(w, http.StatusOK, map[string]any{"ok": true, "available": true})
		return
	}

	uid := firstNonEmpty(string(req.ChatID), string(req.UserID))
	var (
		sum   training.Summary
		state training.State
		reply string
	)
	err := h.do(r.Context(), uid, func(e *training.Engine) error {
		var err error
		if sum, err = e.Reset(r.Context()); err != nil {
			return err
		}
		state = e.Snapshot()
		reply, err = h.mod.Render(training.ViewStarted, state)
		return err
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"user_id": uid,
		"reply":   reply,
		"state":   state,
		"summary": sum,
	})
}

func (h *moduleHandler) startUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "user_id")
	var state training.State
	err := h.do(r.Context(), uid, func(e *training.Engine) error {
		if _, err := e.Reset(r.Context()); err != nil {
			return err
		}
		state = e.Snapshot()
		return nil
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"ok": true, "user_id": uid, "state": state})
}

func (h *moduleHandler) turn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	uid := firstNonEmpty(string(req.UserID), string(req.ChatID))
	text := firstNonEmpty(req.Message, req.Text)
	if uid != "" && text == "" {
		Error(w, http.StatusBadRequest, training.ErrEmptyMessage.Error())
		return
	}

	var (
		res   training.TurnResult
		state training.State
	)
	err := h.do(r.Context(), uid, func(e *training.Engine) error {
		var err error
		res, err = e.HandleTurn(r.Context(), text)
		state = e.Snapshot()
		return err
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	body := map[string]any{
		"ok":       true,
		"reply":    res.ClientReply,
		"feedback": res.CoachFeedback,
		"advanced": res.Advanced,
		"state":    state,
	}
	if res.Advanced {
		body["new_stage"] = res.NewStage
		body["stage_intro"] = res.StageIntro
	}
	JSON(w, http.StatusOK, body)
}

func (h *moduleHandler) state(w http.ResponseWriter, r *http.Request) {
	var state training.State
	err := h.do(r.Context(), chi.URLParam(r, "user_id"), func(e *training.Engine) error {
		state = e.Snapshot()
		return nil
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"ok": true, "state": state})
}

func (h *moduleHandler) reset(w http.ResponseWriter, r *http.Request) {
	var (
		sum   training.Summary
		state training.State
	)
	err := h.do(r.Context(), chi.URLParam(r, "user_id"), func(e *training.Engine) error {
		var err error
		sum, err = e.Reset(r.Context())
		state = e.Snapshot()
		return err
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"ok": true, "result": sum, "state": state})
}

func (h *moduleHandler) do(ctx context.Context, uid string, fn func(*training.Engine) error) error {
	return h.reg.Do(ctx, h.mod, uid, fn)
}

func (h *moduleHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, training.ErrMissingUserID), errors.Is(err, training.ErrEmptyMessage):
		Error(w, http.StatusBadRequest, err.Error())
	default:
		logger.LogEvent(r.Context(), logger.HTTP, slog.LevelError, "http.handler",
			slog.String("module", h.mod.Name()),
			slog.String("path", r.URL.Path),
			logger.Err(err),
		)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}
