package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/studylite/studylite-backend/internal/model"
)

// Domain Errors
var (
	ErrEmptyPool         = errors.New("no questions available for quiz")
	ErrInvalidTransition = errors.New("invalid quiz state transition")
)

// Engine drives quiz sessions through Idle → Running → Reviewing.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates an Engine. A nil source uses the global generator.
func NewEngine(src rand.Source) *Engine {
	e := &Engine{}
	if src != nil {
		e.rng = rand.New(src)
	}
	return e
}

// Start selects min(n, len(pool)) questions from a fresh shuffle of the pool.
func (e *Engine) Start(s *Session, pool []model.Question, n int) error {
	if s.State != StateIdle {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, s.State)
	}
	if len(pool) == 0 {
		return ErrEmptyPool
	}
	if n <= 0 {
		n = DefaultCount
	}

	s.Requested = n
	s.Questions = e.pick(pool, n)
	s.Answers = nil
	s.Result = nil
	s.State = StateRunning
	return nil
}

// Submit records one answer per selected question and evaluates the quiz.
// Questions missing from answers count as unanswered.
func (e *Engine) Submit(s *Session, answers map[model.ID]string) (*Result, error) {
	if s.State != StateRunning {
		return nil, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, s.State)
	}

	collected := make(map[model.ID]string, len(s.Questions))
	for _, q := range s.Questions {
		collected[q.ID] = answers[q.ID]
	}

	var res *Result
	if s.Theoretical {
		res = Review(s.Questions, collected)
	} else {
		res = GradeAll(s.Questions, collected)
	}

	s.Answers = collected
	s.Result = res
	s.State = StateReviewing
	return res, nil
}

// Cancel discards a running quiz without scoring.
func (e *Engine) Cancel(s *Session) error {
	if s.State != StateRunning {
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, s.State)
	}
	s.reset()
	return nil
}

// Retry restarts a reviewed quiz with the same requested count against a
// freshly reshuffled pool. An empty pool leaves the review in place.
func (e *Engine) Retry(s *Session, pool []model.Question) error {
	if s.State != StateReviewing {
		return fmt.Errorf("%w: retry from %s", ErrInvalidTransition, s.State)
	}
	if len(pool) == 0 {
		return ErrEmptyPool
	}
	n := s.Requested
	s.reset()
	return e.Start(s, pool, n)
}

// Dismiss closes the review.
func (e *Engine) Dismiss(s *Session) error {
	if s.State != StateReviewing {
		return fmt.Errorf("%w: dismiss from %s", ErrInvalidTransition, s.State)
	}
	s.reset()
	return nil
}

func (e *Engine) pick(pool []model.Question, n int) []model.Question {
	shuffled := make([]model.Question, len(pool))
	copy(shuffled, pool)
	e.Shuffle(shuffled)
	return shuffled[:min(n, len(shuffled))]
}

// Shuffle permutes qs in place (Fisher–Yates).
func (e *Engine) Shuffle(qs []model.Question) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := len(qs) - 1; i > 0; i-- {
		j := e.intN(i + 1)
		qs[i], qs[j] = qs[j], qs[i]
	}
}

func (e *Engine) intN(n int) int {
	if e.rng != nil {
		return e.rng.IntN(n)
	}
	return rand.IntN(n)
}
