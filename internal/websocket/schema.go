package websocket

import (
	"github.com/studylite/studylite-backend/internal/quiz"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionStart  Action = "start"
	ActionSubmit Action = "submit"
	ActionRetry  Action = "retry"
	ActionCancel Action = "cancel"
	ActionPing   Action = "ping"
)

// RequestPayload is the single client message shape; fields not used by an
// action are ignored.
type RequestPayload struct {
	Action  Action            `json:"action"`
	Count   int               `json:"count,omitempty"`
	Answers map[string]string `json:"answers,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventStarted   Event = "started"
	EventGraded    Event = "graded"
	EventReviewed  Event = "reviewed"
	EventCancelled Event = "cancelled"
	EventPong      Event = "pong"
	EventError     Event = "error"
)

// QuizQuestion is a question as sent to a quiz taker: no answers or working.
type QuizQuestion struct {
	Number   int      `json:"number"`
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Choices  []string `json:"choices,omitempty"`
}

type StartedResponse struct {
	Event       Event          `json:"event"`
	Subject     string         `json:"subject"`
	Theoretical bool           `json:"theoretical"`
	Questions   []QuizQuestion `json:"questions"`
}

type GradedResponse struct {
	Event   Event        `json:"event"`
	Correct int          `json:"correct"`
	Total   int          `json:"total"`
	Entries []quiz.Entry `json:"entries"`
}

type ReviewedResponse struct {
	Event   Event        `json:"event"`
	Total   int          `json:"total"`
	Entries []quiz.Entry `json:"entries"`
}

type CancelledResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

// Questions strips a running quiz down to what the client may see.
func Questions(s *quiz.Session) []QuizQuestion {
	out := make([]QuizQuestion, len(s.Questions))
	for i, q := range s.Questions {
		out[i] = QuizQuestion{
			Number:   i + 1,
			ID:       q.ID.String(),
			Question: q.Question,
			Choices:  q.Choices,
		}
	}
	return out
}
