package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/middleware"
	"github.com/studylite/studylite-backend/internal/model"
	"github.com/studylite/studylite-backend/internal/quiz"
	"github.com/studylite/studylite-backend/internal/response"
	"github.com/studylite/studylite-backend/internal/service"
	"github.com/studylite/studylite-backend/internal/validator"
	ws "github.com/studylite/studylite-backend/internal/websocket"
)

// QuizHandler exposes the quiz lifecycle as JSON.
type QuizHandler struct {
	quizzes *service.QuizService
	log     zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizzes *service.QuizService, log zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		quizzes: quizzes,
		log:     log.With().Str("component", "quiz_handler").Logger(),
	}
}

// QuizResponse is the client view of a quiz. Questions are stripped of
// answers while running; Result is set once submitted.
type QuizResponse struct {
	State       quiz.State        `json:"state"`
	SubjectCode string            `json:"subject_code"`
	Subject     string            `json:"subject"`
	Theoretical bool              `json:"theoretical"`
	Questions   []ws.QuizQuestion `json:"questions"`
	Result      *quiz.Result      `json:"result,omitempty"`
}

func quizResponse(s *quiz.Session) QuizResponse {
	return QuizResponse{
		State:       s.State,
		SubjectCode: s.SubjectCode,
		Subject:     s.Subject,
		Theoretical: s.Theoretical,
		Questions:   ws.Questions(s),
		Result:      s.Result,
	}
}

// Start godoc
// POST /api/v1/subjects/:code/quiz
func (h *QuizHandler) Start(c *gin.Context) {
	var req model.StartQuizRequest
	if c.Request.ContentLength > 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	qs, err := h.quizzes.Start(c.Request.Context(), middleware.GetState(c), c.Param("code"), req.Count)
	if err != nil {
		failJSON(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"quiz": quizResponse(qs)})
}

// Submit godoc
// POST /api/v1/quiz/submit
func (h *QuizHandler) Submit(c *gin.Context) {
	var req model.SubmitQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	st := middleware.GetState(c)
	if _, err := h.quizzes.Submit(st, toAnswers(req.Answers)); err != nil {
		failJSON(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz": quizResponse(st.Quiz)})
}

// Retry godoc
// POST /api/v1/quiz/retry
func (h *QuizHandler) Retry(c *gin.Context) {
	qs, err := h.quizzes.Retry(c.Request.Context(), middleware.GetState(c))
	if err != nil {
		failJSON(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz": quizResponse(qs)})
}

// Cancel godoc
// POST /api/v1/quiz/cancel
func (h *QuizHandler) Cancel(c *gin.Context) {
	if err := h.quizzes.Cancel(middleware.GetState(c)); err != nil {
		failJSON(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "quiz cancelled"})
}

// Dismiss godoc
// POST /api/v1/quiz/done
func (h *QuizHandler) Dismiss(c *gin.Context) {
	if err := h.quizzes.Dismiss(middleware.GetState(c)); err != nil {
		failJSON(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "quiz closed"})
}

// Current godoc
// GET /api/v1/quiz
func (h *QuizHandler) Current(c *gin.Context) {
	qs, err := h.quizzes.Current(middleware.GetState(c))
	if err != nil {
		failJSON(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz": quizResponse(qs)})
}

func toAnswers(in map[string]string) map[model.ID]string {
	out := make(map[model.ID]string, len(in))
	for id, a := range in {
		out[model.ID(id)] = a
	}
	return out
}
