package workflow

import (
	"errors"
	"time"
)

// State is a workflow phase. Exactly one non-idle session exists at a
// time; its state names the slot the next utterance is expected to fill.
type State string

const (
	// StateIdle means no workflow is in flight.
	StateIdle State = "idle"
	// StateAwaitingProfile means a profile-capable browser was requested
	// and the next utterance should name a profile.
	StateAwaitingProfile State = "awaiting_profile"
	// StateAwaitingTarget means the browser is up and the next utterance
	// should name a website or a search.
	StateAwaitingTarget State = "awaiting_target"
	// StateAwaitingQuery means a search platform is open and the next
	// utterance is the query.
	StateAwaitingQuery State = "awaiting_query"
)

var (
	// ErrWorkflowActive rejects a second Start while a session is live.
	// The conflicting utterance is consumed, not queued.
	ErrWorkflowActive = errors.New("a workflow is already in progress")
	// ErrNoWorkflow means Handle was called with no live session.
	ErrNoWorkflow = errors.New("no workflow in progress")
)

// Session is the full state of one multi-turn workflow. Values handed
// out by the engine are clones; mutating them does not affect the
// engine's copy.
type Session struct {
	ID        string            `json:"id"`
	State     State             `json:"state"`
	Browser   string            `json:"browser"`
	Slots     map[string]string `json:"slots,omitempty"`
	Turns     int               `json:"turns"`
	StartedAt time.Time         `json:"started_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (s Session) clone() Session {
	out := s
	if s.Slots != nil {
		out.Slots = make(map[string]string, len(s.Slots))
		for k, v := range s.Slots {
			out.Slots[k] = v
		}
	}
	return out
}

// Active reports whether the session is in a non-idle state.
func (s Session) Active() bool {
	return s.State != StateIdle && s.State != ""
}

// Result is the outcome of one workflow turn.
type Result struct {
	Response string
	// Done is true when the turn ended the session (completion, cancel,
	// failure or turn ceiling).
	Done bool
}
