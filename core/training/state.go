package training

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SchemaVersion is written into every persisted State. A payload with another
// version is treated as corrupt and replaced by a fresh session.
const SchemaVersion = 1

// Turn roles.
const (
	RoleTrainee = "trainee"
	RoleClient  = "simulated_client"
)

// ErrCorruptState reports a stored payload that cannot be used.
var ErrCorruptState = errors.New("training: corrupt session state")

// Turn is one history entry.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Stage   int    `json:"stage_at_time"`
}

// Meta holds session counters.
type Meta struct {
	TurnCount       int       `json:"turn_count"`
	ClientFallbacks int       `json:"client_fallbacks"`
	CoachFallbacks  int       `json:"coach_fallbacks"`
	StartedAt       time.Time `json:"started_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// State is the persisted session of one user in one module.
type State struct {
	Version   int      `json:"version"`
	SessionID string   `json:"session_id"`
	Module    string   `json:"module"`
	Scenario  string   `json:"scenario"`
	Behavior  string   `json:"behavior"`
	Stage     int      `json:"stage"`
	History   []Turn   `json:"history"`
	Feedback  []string `json:"feedback"`
	Meta      Meta     `json:"meta"`
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.History = append(make([]Turn, 0, len(s.History)), s.History...)
	out.Feedback = append(make([]string, 0, len(s.Feedback)), s.Feedback...)
	return out
}

func encodeState(st State) (string, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("training: encode state: %w", err)
	}
	return string(raw), nil
}

// decodeState parses raw and checks it against mod. Any failure wraps ErrCorruptState.
func decodeState(raw string, mod *Module) (State, error) {
	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if err := validateState(st, mod); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if st.History == nil {
		st.History = []Turn{}
	}
	if st.Feedback == nil {
		st.Feedback = []string{}
	}
	return st, nil
}

func validateState(st State, mod *Module) error {
	if st.Version != SchemaVersion {
		return fmt.Errorf("schema version %d, want %d", st.Version, SchemaVersion)
	}
	if st.Module != mod.Name() {
		return fmt.Errorf("module %q, want %q", st.Module, mod.Name())
	}
	if _, ok := mod.Scenario(st.Scenario); !ok {
		return fmt.Errorf("unknown scenario %q", st.Scenario)
	}
	if _, ok := mod.Behavior(st.Behavior); !ok {
		return fmt.Errorf("unknown behavior %q", st.Behavior)
	}
	if st.Stage < 1 || st.Stage > mod.MaxStage() {
		return fmt.Errorf("stage %d out of range 1..%d", st.Stage, mod.MaxStage())
	}
	if st.Meta.TurnCount < 0 {
		return fmt.Errorf("negative turn count %d", st.Meta.TurnCount)
	}
	if len(st.History) != 2*len(st.Feedback) {
		return fmt.Errorf("%d history entries for %d critiques", len(st.History), len(st.Feedback))
	}
	if len(st.Feedback) > st.Meta.TurnCount {
		return fmt.Errorf("%d critiques exceed turn count %d", len(st.Feedback), st.Meta.TurnCount)
	}
	for i, t := range st.History {
		if t.Role != RoleTrainee && t.Role != RoleClient {
			return fmt.Errorf("history[%d]: unknown role %q", i, t.Role)
		}
		if t.Stage < 1 || t.Stage > st.Stage {
			return fmt.Errorf("history[%d]: stage %d outside 1..%d", i, t.Stage, st.Stage)
		}
	}
	return nil
}
