package state

import (
	"log/slog"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/salestrainer/core/logger"
	tghelpers "github.com/m3rciful/salestrainer/core/telegram/helpers"
)

type memoryManager struct {
	mu       sync.RWMutex
	states   map[int64]State
	handlers map[State]tele.HandlerFunc
}

// NewMemoryManager returns a Manager that keeps state in process memory.
// State is lost on restart; training progress itself lives in the session store.
func NewMemoryManager() Manager {
	return &memoryManager{
		states:   make(map[int64]State),
		handlers: make(map[State]tele.HandlerFunc),
	}
}

func (m *memoryManager) Get(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.states[userID]; ok {
		return st
	}
	return StateIdle
}

func (m *memoryManager) Set(userID int64, st State) {
	if st == "" || st == StateIdle {
		m.Clear(userID)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = st
}

func (m *memoryManager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
}

func (m *memoryManager) InProgress(userID int64) bool {
	return m.Get(userID) != StateIdle
}

func (m *memoryManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}

// Handle registers h for st; a nil h removes the registration.
func (m *memoryManager) Handle(st State, h tele.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h == nil {
		delete(m.handlers, st)
		return
	}
	m.handlers[st] = h
}

// ManagerHandler runs the handler for the sender's state. A user stuck in a
// state nobody handles any more is returned to idle.
func (m *memoryManager) ManagerHandler(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	current := m.Get(user.ID)

	m.mu.RLock()
	h, ok := m.handlers[current]
	m.mu.RUnlock()

	ctx := tghelpers.BuildContext(c)
	if !ok {
		m.Clear(user.ID)
		logger.LogEvent(ctx, logger.TG, slog.LevelWarn, "fsm.dispatch",
			slog.String("status", "skip"),
			slog.String("module", string(current)),
		)
		return nil
	}
	logger.LogEvent(ctx, logger.TG, slog.LevelDebug, "fsm.dispatch",
		slog.String("status", "ok"),
		slog.String("module", string(current)),
	)
	return h(c)
}
