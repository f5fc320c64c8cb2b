// Package training implements the per-user training session state machine shared by all modules.
package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/salestrainer/core/llm"
	"github.com/m3rciful/salestrainer/core/logger"
	"github.com/m3rciful/salestrainer/core/store"
)

var (
	// ErrMissingUserID reports an empty external user identifier.
	ErrMissingUserID = errors.New("training: user id is required")
	// ErrEmptyMessage reports a blank trainee message.
	ErrEmptyMessage = errors.New("training: message text is required")
)

// DefaultTimeout bounds each gateway call when Deps.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// DefaultMaxSessions bounds the Registry cache when Deps.MaxSessions is zero.
const DefaultMaxSessions = 10000

// Deps are the collaborators shared by every engine.
type Deps struct {
	Store   store.Store
	Gateway llm.Gateway
	Timeout time.Duration
	// HistoryLimit caps retained turns; zero keeps everything.
	HistoryLimit int
	// MaxSessions caps engines cached by a Registry; zero means DefaultMaxSessions.
	MaxSessions int

	Pick  func(n int) int
	Now   func() time.Time
	NewID func() string
}

func (d Deps) withDefaults() Deps {
	if d.Timeout <= 0 {
		d.Timeout = DefaultTimeout
	}
	if d.HistoryLimit < 0 {
		d.HistoryLimit = 0
	}
	if d.MaxSessions <= 0 {
		d.MaxSessions = DefaultMaxSessions
	}
	if d.Pick == nil {
		d.Pick = rand.Intn
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return d
}

// Summary describes a freshly drawn session.
type Summary struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
	Scenario  string `json:"scenario"`
	Behavior  string `json:"behavior"`
	Stage     int    `json:"stage"`
}

// TurnResult is returned by HandleTurn.
type TurnResult struct {
	ClientReply         string `json:"client_reply"`
	CoachFeedback       string `json:"coach_feedback"`
	Stage               int    `json:"stage"`
	Scenario            string `json:"scenario"`
	ScenarioDescription string `json:"scenario_description"`
	Behavior            string `json:"behavior"`
	Advanced            bool   `json:"advanced"`
	NewStage            int    `json:"new_stage,omitempty"`
	StageIntro          string `json:"stage_intro,omitempty"`
	ClientFallback      bool   `json:"client_fallback"`
	CoachFallback       bool   `json:"coach_fallback"`
}

// Engine owns one session for the duration of an operation. It is not safe for
// concurrent use; callers serialize access per session key (see Registry).
type Engine struct {
	deps   Deps
	mod    *Module
	userID string
	key    string
	state  State
}

// Load restores the session for userID or starts a new one. A missing or corrupt
// payload triggers Reset; other store failures are returned so good data is never overwritten.
func Load(ctx context.Context, deps Deps, mod *Module, userID string) (*Engine, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if mod == nil {
		return nil, errors.New("training: module is nil")
	}
	if deps.Store == nil {
		return nil, errors.New("training: store is nil")
	}

	e := &Engine{deps: deps.withDefaults(), mod: mod, userID: userID, key: mod.SessionKey(userID)}
	ctx = e.logContext(ctx)

	raw, err := e.deps.Store.Get(ctx, e.key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		logger.LogEvent(ctx, logger.Engine, slog.LevelDebug, "session.init")
		if _, err := e.Reset(ctx); err != nil {
			return nil, err
		}
		return e, nil
	case err != nil:
		return nil, fmt.Errorf("training: load %s: %w", e.key, err)
	}

	st, err := decodeState(raw, mod)
	if err != nil {
		logger.LogEvent(ctx, logger.Engine, slog.LevelWarn, "session.corrupt", logger.Err(err))
		if _, err := e.Reset(ctx); err != nil {
			return nil, err
		}
		return e, nil
	}
	e.state = st
	return e, nil
}

// Module returns the module definition driving this engine.
func (e *Engine) Module() *Module { return e.mod }

// Snapshot returns a copy of the current state. It never writes.
func (e *Engine) Snapshot() State { return e.state.Clone() }

// Reset draws a new scenario and behavior, rewinds to stage 1 and persists.
// The in-memory state is replaced even when persisting fails.
func (e *Engine) Reset(ctx context.Context) (Summary, error) {
	now := e.deps.Now()
	scenarios := e.mod.def.Scenarios
	behaviors := e.mod.def.Behaviors
	e.state = State{
		Version:   SchemaVersion,
		SessionID: e.deps.NewID(),
		Module:    e.mod.Name(),
		Scenario:  scenarios[e.pick(len(scenarios))].Key,
		Behavior:  behaviors[e.pick(len(behaviors))].Key,
		Stage:     1,
		History:   []Turn{},
		Feedback:  []string{},
		Meta:      Meta{StartedAt: now, UpdatedAt: now},
	}
	sum := Summary{
		Status:    "reset",
		SessionID: e.state.SessionID,
		Scenario:  e.state.Scenario,
		Behavior:  e.state.Behavior,
		Stage:     e.state.Stage,
	}

	ctx = e.logContext(ctx)
	err := e.save(ctx)
	logger.LogEvent(ctx, logger.Engine, slog.LevelInfo, "session.reset",
		slog.String("status", logger.Status(err)),
		slog.String("session_id", e.state.SessionID),
		slog.String("scenario", e.state.Scenario),
		slog.String("behavior", e.state.Behavior),
		logger.Err(err),
	)
	return sum, err
}

// HandleTurn processes one trainee message: the simulated client answers, the
// coach critiques, the stage may advance and the state is persisted. Gateway
// failures are answered from fallbacks. A persistence error is returned together
// with the populated result.
func (e *Engine) HandleTurn(ctx context.Context, text string) (TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TurnResult{}, ErrEmptyMessage
	}
	ctx = e.logContext(ctx)
	start := time.Now()

	st := &e.state
	stage := st.Stage
	st.History = append(st.History, Turn{Role: RoleTrainee, Content: text, Stage: stage})
	st.Meta.TurnCount++

	reply, clientFallback := e.clientReply(ctx, text)
	st.History = append(st.History, Turn{Role: RoleClient, Content: reply, Stage: stage})

	feedback, coachFallback := e.coachFeedback(ctx, text, reply)
	st.Feedback = append(st.Feedback, feedback)

	scenario, _ := e.mod.Scenario(st.Scenario)
	res := TurnResult{
		ClientReply:         reply,
		CoachFeedback:       feedback,
		Stage:               stage,
		Scenario:            st.Scenario,
		ScenarioDescription: scenario.Description,
		Behavior:            st.Behavior,
		ClientFallback:      clientFallback,
		CoachFallback:       coachFallback,
	}

	if st.Meta.TurnCount%e.mod.TurnsPerStage() == 0 && st.Stage < e.mod.MaxStage() {
		st.Stage++
		next, _ := e.mod.Stage(st.Stage)
		res.Advanced = true
		res.NewStage = st.Stage
		res.StageIntro = next.Intro
	}

	e.trimHistory()
	st.Meta.UpdatedAt = e.deps.Now()

	err := e.save(ctx)
	logger.LogEvent(ctx, logger.Engine, slog.LevelInfo, "session.turn",
		slog.String("status", logger.Status(err)),
		slog.Int("turn", st.Meta.TurnCount),
		slog.Int("stage", st.Stage),
		slog.Bool("advanced", res.Advanced),
		slog.Duration("duration", time.Since(start)),
		logger.Err(err),
	)
	return res, err
}

func (e *Engine) clientReply(ctx context.Context, text string) (string, bool) {
	prompt, err := e.mod.ClientPrompt(e.state)
	if err == nil {
		out := llm.Call(ctx, e.deps.Gateway, e.deps.Timeout, []llm.Message{
			{Role: llm.RoleSystem, Content: prompt},
			{Role: llm.RoleUser, Content: text},
		})
		if out.OK() {
			return out.Text, false
		}
		err = out.Err
	}

	fallbacks := e.mod.def.ClientFallbacks
	reply := fallbacks[e.pick(len(fallbacks))]
	e.state.Meta.ClientFallbacks++
	logger.LogEvent(ctx, logger.Engine, slog.LevelWarn, "session.fallback",
		slog.String("role", RoleClient),
		slog.String("source", "fallback"),
		logger.Err(err),
	)
	return reply, true
}

func (e *Engine) coachFeedback(ctx context.Context, trainee, client string) (string, bool) {
	prompt, err := e.mod.CoachPrompt(e.state, trainee, client)
	if err == nil {
		out := llm.Call(ctx, e.deps.Gateway, e.deps.Timeout, []llm.Message{
			{Role: llm.RoleSystem, Content: prompt},
			{Role: llm.RoleUser, Content: e.mod.CoachRequest()},
		})
		if out.OK() {
			return out.Text, false
		}
		err = out.Err
	}

	e.state.Meta.CoachFallbacks++
	logger.LogEvent(ctx, logger.Engine, slog.LevelWarn, "session.fallback",
		slog.String("role", "coach"),
		slog.String("source", "fallback"),
		logger.Err(err),
	)
	return e.mod.CoachFallback(), true
}

// trimHistory drops the oldest whole turns (trainee line, client line, critique)
// once the retained turn count exceeds the limit.
func (e *Engine) trimHistory() {
	limit := e.deps.HistoryLimit
	if limit <= 0 {
		return
	}
	st := &e.state
	excess := len(st.Feedback) - limit
	if excess <= 0 {
		return
	}
	st.Feedback = append([]string(nil), st.Feedback[excess:]...)
	drop := 2 * excess
	if drop > len(st.History) {
		drop = len(st.History)
	}
	st.History = append([]Turn(nil), st.History[drop:]...)
}

func (e *Engine) save(ctx context.Context) error {
	raw, err := encodeState(e.state)
	if err != nil {
		return err
	}
	if err := e.deps.Store.Set(ctx, e.key, raw); err != nil {
		return fmt.Errorf("training: save %s: %w", e.key, err)
	}
	return nil
}

func (e *Engine) pick(n int) int {
	i := e.deps.Pick(n)
	if i < 0 || i >= n {
		return 0
	}
	return i
}

func (e *Engine) logContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger.SessionKeyFrom(ctx) == e.key {
		return ctx
	}
	return logger.WithSession(ctx, e.mod.Name(), e.key)
}
