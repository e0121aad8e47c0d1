package session

import (
	"context"
	"errors"

	"github.com/studylite/studylite-backend/internal/model"
	"github.com/studylite/studylite-backend/internal/quiz"
)

// ErrNoSession is returned by stores when no state exists for a session ID.
var ErrNoSession = errors.New("session not found")

// State is everything mutable for one browser session: the subject being
// viewed, the open note, the running quiz and the purchase prompt flag. It is
// loaded at the start of a request and saved at the end; concurrent requests
// on the same session resolve last-write-wins.
type State struct {
	ID          string        `json:"sid"`
	SubjectCode string        `json:"subject_code,omitempty"`
	OpenNoteID  model.ID      `json:"open_note_id,omitempty"`
	Quiz        *quiz.Session `json:"quiz,omitempty"`
	// PromptShown is set the first time the purchase popup is displayed and
	// never cleared.
	PromptShown bool `json:"prompt_shown"`
}

// New returns an empty state for sid.
func New(sid string) *State {
	return &State{ID: sid}
}

// EnterSubject switches the viewed subject, releasing the open note and any
// quiz belonging to another subject.
func (s *State) EnterSubject(code string) {
	if s.SubjectCode == code {
		return
	}
	s.SubjectCode = code
	s.OpenNoteID = ""
	if s.Quiz != nil && s.Quiz.SubjectCode != code {
		s.Quiz = nil
	}
}

// Leave clears subject scoped state when navigating home.
func (s *State) Leave() {
	s.SubjectCode = ""
	s.OpenNoteID = ""
	s.Quiz = nil
}

// Store persists session state for the lifetime of a browser session.
type Store interface {
	Load(ctx context.Context, sid string) (*State, error)
	Save(ctx context.Context, st *State) error
}
