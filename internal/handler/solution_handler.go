package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/model"
	"github.com/studylite/studylite-backend/internal/response"
	"github.com/studylite/studylite-backend/internal/service"
)

type SolutionHandler struct {
	solutions *service.SolutionService
	log       zerolog.Logger
}

func NewSolutionHandler(solutions *service.SolutionService, log zerolog.Logger) *SolutionHandler {
	return &SolutionHandler{
		solutions: solutions,
		log:       log.With().Str("component", "solution_handler").Logger(),
	}
}

// Get godoc
// GET /api/v1/subjects/:code/questions/:id/solution
func (h *SolutionHandler) Get(c *gin.Context) {
	sol, err := h.solutions.Get(c.Request.Context(), c.Param("code"), model.ID(c.Param("id")))
	if err != nil {
		failJSON(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"solution": sol})
}
