package websocket

import "github.com/breadlab/breadquiz/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSelect   Action = "select"
	ActionNext     Action = "next"
	ActionPrevious Action = "previous"
	ActionReset    Action = "reset"
	ActionResult   Action = "result"
	ActionPing     Action = "ping"
)

// RequestPayload is every client message. Question and Option are only read
// for ActionSelect.
type RequestPayload struct {
	Action   Action `json:"action"`
	Question *int   `json:"question,omitempty"`
	Option   *int   `json:"option,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState    Event = "state"
	EventProgress Event = "progress"
	EventResult   Event = "result"
	EventWarning  Event = "warning"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

// StateResponse carries the session view after any transition.
type StateResponse struct {
	Event   Event             `json:"event"`
	Session model.SessionView `json:"session"`
}

// ProgressResponse carries the full generated text so far.
type ProgressResponse struct {
	Event Event  `json:"event"`
	Text  string `json:"text"`
}

// ResultResponse carries the finalized result and the session view.
type ResultResponse struct {
	Event   Event             `json:"event"`
	Result  string            `json:"result"`
	Session model.SessionView `json:"session"`
}

// WarningResponse reports a recoverable refusal; nothing changed.
type WarningResponse struct {
	Event   Event  `json:"event"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
