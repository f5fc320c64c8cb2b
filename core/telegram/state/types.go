package state

import tele "gopkg.in/telebot.v4"

// State names the conversation a user is in. The bot uses the training
// module name, so free text is routed to that module's turn handler.
type State string

// StateIdle means the user is not inside any conversation.
const StateIdle State = "idle"

// Manager tracks per-user FSM state and dispatches text to the handler
// registered for the user's current state.
type Manager interface {
	Get(userID int64) State
	Set(userID int64, st State)
	Clear(userID int64)
	InProgress(userID int64) bool
	Len() int

	Handle(st State, h tele.HandlerFunc)
	ManagerHandler(c tele.Context) error
}
