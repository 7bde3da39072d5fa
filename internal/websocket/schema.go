package websocket

import "github.com/conceptdelta/examdesk/internal/exam"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSelect   Action = "select"
	ActionNavigate Action = "navigate"
	ActionSubmit   Action = "submit"
	ActionPing     Action = "ping"
)

// Request carries every client action; unused fields stay zero. Select uses
// QuestionIndex+Option, Navigate uses TargetIndex.
type Request struct {
	Action        Action `json:"action"`
	QuestionIndex int    `json:"question_index"`
	Option        string `json:"option"`
	TargetIndex   int    `json:"target_index"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError     Event = "error"
	EventState     Event = "state"
	EventSubmitted Event = "submitted"
	EventPong      Event = "pong"
)

// StateResponse pushes the current attempt snapshot. Sent after every
// accepted action and once per countdown tick.
type StateResponse struct {
	Event   Event            `json:"event"`
	Attempt exam.AttemptView `json:"attempt"`
}

// SubmittedResponse reports the final outcome. TimeExpired marks an
// automatic submission.
type SubmittedResponse struct {
	Event       Event `json:"event"`
	Marks       int   `json:"marks"`
	Score       int   `json:"score"`
	TimeExpired bool  `json:"time_expired"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
