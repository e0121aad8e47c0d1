package quiz

import (
	"github.com/studylite/studylite-backend/internal/model"
)

// State is a quiz lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateReviewing State = "reviewing"
)

// DefaultCount is used when a start request does not name a count.
const DefaultCount = 10

// Session is one in-progress quiz. It is transient: it lives inside the
// browser session state and is dropped on cancel, dismiss or retry.
type Session struct {
	State       State               `json:"state"`
	SubjectCode string              `json:"subject_code"`
	Subject     string              `json:"subject"`
	Theoretical bool                `json:"theoretical"`
	Requested   int                 `json:"requested"`
	Questions   []model.Question    `json:"questions"`
	Answers     map[model.ID]string `json:"answers,omitempty"`
	Result      *Result             `json:"result,omitempty"`
}

// NewSession returns an idle session bound to a subject's grading policy.
func NewSession(subjectCode, subject string, theoretical bool) *Session {
	return &Session{
		State:       StateIdle,
		SubjectCode: subjectCode,
		Subject:     subject,
		Theoretical: theoretical,
	}
}

// Active reports whether the session is running or under review.
func (s *Session) Active() bool {
	return s != nil && s.State != StateIdle
}

func (s *Session) reset() {
	s.State = StateIdle
	s.Questions = nil
	s.Answers = nil
	s.Result = nil
}
