package model

import "strings"

// Question is a single practice question.
type Question struct {
	ID           ID       `json:"id" binding:"required"`
	Title        string   `json:"title,omitempty"`
	Question     string   `json:"question" binding:"required"`
	Choices      []string `json:"choices,omitempty"`
	Correct      string   `json:"correct,omitempty"`
	Solution     string   `json:"solution"`
	WorkingSteps []string `json:"working_steps,omitempty"`
}

// IsMultipleChoice reports whether the question renders as radio choices.
func (q *Question) IsMultipleChoice() bool {
	return len(q.Choices) > 0
}

// HasCanonicalAnswer reports whether a non-blank correct value is defined.
func (q *Question) HasCanonicalAnswer() bool {
	return strings.TrimSpace(q.Correct) != ""
}

// QuestionBank is the decoded <code>.json file.
type QuestionBank struct {
	Subject   string           `json:"subject"`
	Metadata  *SubjectMetadata `json:"metadata,omitempty"`
	Questions []Question       `json:"questions" binding:"dive"`
}

// Find looks up a question by identifier.
func (b *QuestionBank) Find(id ID) (*Question, bool) {
	for i := range b.Questions {
		if b.Questions[i].ID == id {
			return &b.Questions[i], true
		}
	}
	return nil, false
}

// StartQuizRequest is the payload for starting a quiz.
type StartQuizRequest struct {
	Count int `json:"count" form:"count" binding:"omitempty,min=1,max=50"`
}

// SubmitQuizRequest is the JSON payload for submitting answers.
type SubmitQuizRequest struct {
	Answers map[string]string `json:"answers"`
}
