package quiz

import (
	"encoding/json"
	"strings"

	"github.com/studylite/studylite-backend/internal/model"
)

// Entry is the review line for one question.
type Entry struct {
	Number       int      `json:"number"`
	QuestionID   model.ID `json:"question_id"`
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	Correct      string   `json:"correct,omitempty"`
	Solution     string   `json:"solution"`
	WorkingSteps []string `json:"working_steps"`
	// OK is nil for theoretical subjects, where no verdict is given.
	OK *bool `json:"ok,omitempty"`
}

// Result is the outcome of a submitted quiz.
type Result struct {
	Graded  bool    `json:"graded"`
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Entries []Entry `json:"entries"`
}

// MarshalJSON reports correct and score only for graded results, so a 0/N
// score still carries both while theoretical reviews carry neither.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	out := struct {
		plain
		Correct *int     `json:"correct,omitempty"`
		Score   *float64 `json:"score,omitempty"`
	}{plain: plain(r)}
	if r.Graded {
		score := r.Score()
		out.Correct = &r.Correct
		out.Score = &score
	}
	return json.Marshal(out)
}

// Score returns correct/total, or 0 for ungraded or empty results.
func (r *Result) Score() float64 {
	if !r.Graded || r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// IsCorrect judges a single answer.
//
// With a canonical correct value the trimmed answer must equal it ignoring
// case. Without one, the trimmed lowercased answer only has to appear inside
// the solution text. That fallback is lenient and approximate: short answers
// such as "a" match most solutions.
func IsCorrect(q model.Question, answer string) bool {
	ans := strings.ToLower(strings.TrimSpace(answer))
	if ans == "" {
		return false
	}
	if q.HasCanonicalAnswer() {
		return ans == strings.ToLower(strings.TrimSpace(q.Correct))
	}
	if q.Solution == "" {
		return false
	}
	return strings.Contains(strings.ToLower(q.Solution), ans)
}

// GradeAll scores every question and builds per-question verdicts.
func GradeAll(qs []model.Question, answers map[model.ID]string) *Result {
	res := &Result{Graded: true, Total: len(qs), Entries: make([]Entry, 0, len(qs))}
	for i, q := range qs {
		ok := IsCorrect(q, answers[q.ID])
		if ok {
			res.Correct++
		}
		e := entryFor(i, q, answers[q.ID])
		e.OK = &ok
		res.Entries = append(res.Entries, e)
	}
	return res
}

// Review lists answers next to model solutions without judging them.
func Review(qs []model.Question, answers map[model.ID]string) *Result {
	res := &Result{Total: len(qs), Entries: make([]Entry, 0, len(qs))}
	for i, q := range qs {
		res.Entries = append(res.Entries, entryFor(i, q, answers[q.ID]))
	}
	return res
}

func entryFor(i int, q model.Question, answer string) Entry {
	steps := q.WorkingSteps
	if steps == nil {
		steps = []string{}
	}
	return Entry{
		Number:       i + 1,
		QuestionID:   q.ID,
		Question:     q.Question,
		Answer:       answer,
		Correct:      q.Correct,
		Solution:     q.Solution,
		WorkingSteps: steps,
	}
}
