package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/model"
	"github.com/studylite/studylite-backend/internal/quiz"
	"github.com/studylite/studylite-backend/internal/session"
)

// ErrNoQuiz is returned when a quiz action arrives with no quiz in progress.
var ErrNoQuiz = errors.New("no quiz in progress")

// QuizService runs the quiz lifecycle for a browser session.
type QuizService struct {
	content      *ContentService
	engine       *quiz.Engine
	defaultCount int
	log          zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(content *ContentService, engine *quiz.Engine, defaultCount int, log zerolog.Logger) *QuizService {
	if defaultCount <= 0 {
		defaultCount = quiz.DefaultCount
	}
	return &QuizService{
		content:      content,
		engine:       engine,
		defaultCount: defaultCount,
		log:          log.With().Str("component", "quiz_service").Logger(),
	}
}

// Start loads the subject's pool and starts a fresh quiz of n questions,
// replacing any quiz already in the session. On failure the session is left
// untouched.
func (s *QuizService) Start(ctx context.Context, st *session.State, code string, n int) (*quiz.Session, error) {
	bank, err := s.content.LoadQuestionBank(ctx, code)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = s.defaultCount
	}

	qs := quiz.NewSession(code, subjectName(bank, code), bank.Metadata.IsTheoretical())
	if err := s.engine.Start(qs, bank.Questions, n); err != nil {
		return nil, err
	}

	st.EnterSubject(code)
	st.Quiz = qs

	s.log.Debug().
		Str("sid", st.ID).
		Str("subject", code).
		Int("requested", n).
		Int("selected", len(qs.Questions)).
		Msg("Quiz started")
	return qs, nil
}

// Submit grades (or reviews) the running quiz.
func (s *QuizService) Submit(st *session.State, answers map[model.ID]string) (*quiz.Result, error) {
	if st.Quiz == nil {
		return nil, ErrNoQuiz
	}
	res, err := s.engine.Submit(st.Quiz, answers)
	if err != nil {
		return nil, err
	}

	ev := s.log.Info().
		Str("sid", st.ID).
		Str("subject", st.Quiz.SubjectCode).
		Int("total", res.Total).
		Bool("graded", res.Graded)
	if res.Graded {
		ev = ev.Int("correct", res.Correct)
	}
	ev.Msg("Quiz submitted")
	return res, nil
}

// Retry restarts a reviewed quiz against a freshly loaded, reshuffled pool.
func (s *QuizService) Retry(ctx context.Context, st *session.State) (*quiz.Session, error) {
	if st.Quiz == nil {
		return nil, ErrNoQuiz
	}
	if st.Quiz.State != quiz.StateReviewing {
		return nil, quiz.ErrInvalidTransition
	}
	bank, err := s.content.LoadQuestionBank(ctx, st.Quiz.SubjectCode)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Retry(st.Quiz, bank.Questions); err != nil {
		if !st.Quiz.Active() {
			st.Quiz = nil
		}
		return nil, err
	}
	return st.Quiz, nil
}

// Cancel discards a running quiz without scoring.
func (s *QuizService) Cancel(st *session.State) error {
	if st.Quiz == nil {
		return ErrNoQuiz
	}
	if err := s.engine.Cancel(st.Quiz); err != nil {
		return err
	}
	st.Quiz = nil
	return nil
}

// Dismiss closes a reviewed quiz.
func (s *QuizService) Dismiss(st *session.State) error {
	if st.Quiz == nil {
		return ErrNoQuiz
	}
	if err := s.engine.Dismiss(st.Quiz); err != nil {
		return err
	}
	st.Quiz = nil
	return nil
}

// Current returns the session's quiz, if any.
func (s *QuizService) Current(st *session.State) (*quiz.Session, error) {
	if !st.Quiz.Active() {
		return nil, ErrNoQuiz
	}
	return st.Quiz, nil
}

func subjectName(bank *model.QuestionBank, code string) string {
	if bank.Subject != "" {
		return bank.Subject
	}
	return code
}
