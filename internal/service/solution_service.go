package service

import (
	"context"

	"github.com/studylite/studylite-backend/internal/model"
)

// SolutionService looks up worked solutions in the loaded question set.
type SolutionService struct {
	content *ContentService
}

// NewSolutionService creates a new SolutionService.
func NewSolutionService(content *ContentService) *SolutionService {
	return &SolutionService{content: content}
}

// Solution is a question with its numbered working and final answer.
type Solution struct {
	SubjectCode  string   `json:"subject_code"`
	QuestionID   model.ID `json:"question_id"`
	Title        string   `json:"title"`
	Question     string   `json:"question"`
	WorkingSteps []string `json:"working_steps"`
	Solution     string   `json:"solution"`
}

// Get returns the solution for question id of subject code.
func (s *SolutionService) Get(ctx context.Context, code string, id model.ID) (*Solution, error) {
	bank, err := s.content.LoadQuestionBank(ctx, code)
	if err != nil {
		return nil, err
	}
	q, ok := bank.Find(id)
	if !ok {
		return nil, ErrNotFound
	}

	title := q.Title
	if title == "" {
		title = "Solution"
	}
	steps := q.WorkingSteps
	if steps == nil {
		steps = []string{}
	}
	return &Solution{
		SubjectCode:  code,
		QuestionID:   q.ID,
		Title:        title,
		Question:     q.Question,
		WorkingSteps: steps,
		Solution:     q.Solution,
	}, nil
}
