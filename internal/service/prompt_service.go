package service

import (
	"github.com/studylite/studylite-backend/internal/session"
)

// PromptService gates the purchase popup to once per browser session.
type PromptService struct{}

// NewPromptService creates a new PromptService.
func NewPromptService() *PromptService {
	return &PromptService{}
}

// ShouldShow reports whether the home page should display the popup and
// records the display. Only the first call per session returns true.
func (s *PromptService) ShouldShow(st *session.State) bool {
	if st.PromptShown {
		return false
	}
	st.PromptShown = true
	return true
}
