package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/export"
	"github.com/studylite/studylite-backend/internal/quiz"
	"github.com/studylite/studylite-backend/internal/response"
	"github.com/studylite/studylite-backend/internal/service"
)

// classify maps a domain error to an HTTP status and API error code.
func classify(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, service.ErrUnknownSubject):
		return http.StatusNotFound, response.ErrUnknownSubject
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, response.ErrNotFound
	case errors.Is(err, service.ErrNoOpenNote):
		return http.StatusNotFound, response.ErrNoOpenNote
	case errors.Is(err, service.ErrContentLoad):
		return http.StatusServiceUnavailable, response.ErrContentLoad
	case errors.Is(err, export.ErrRenderUnavailable):
		return http.StatusServiceUnavailable, response.ErrRenderUnavailable
	case errors.Is(err, quiz.ErrEmptyPool):
		return http.StatusUnprocessableEntity, response.ErrEmptyPool
	case errors.Is(err, service.ErrNoQuiz):
		return http.StatusConflict, response.ErrNoQuiz
	case errors.Is(err, quiz.ErrInvalidTransition):
		return http.StatusConflict, response.ErrInvalidTransition
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

// failJSON converts err into the API error envelope.
func failJSON(c *gin.Context, log zerolog.Logger, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	}
	response.Fail(c, status, code)
}
