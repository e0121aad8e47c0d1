package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/middleware"
	"github.com/studylite/studylite-backend/internal/model"
	"github.com/studylite/studylite-backend/internal/response"
	"github.com/studylite/studylite-backend/internal/service"
)

// NoteHandler serves notes as JSON.
type NoteHandler struct {
	content *service.ContentService
	notes   *service.NoteService
	log     zerolog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(content *service.ContentService, notes *service.NoteService, log zerolog.Logger) *NoteHandler {
	return &NoteHandler{
		content: content,
		notes:   notes,
		log:     log.With().Str("component", "note_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/subjects/:code/notes?q=
func (h *NoteHandler) List(c *gin.Context) {
	set, err := h.content.LoadNotes(c.Request.Context(), c.Param("code"))
	if err != nil {
		failJSON(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notes": summarize(service.Search(set, c.Query("q")))})
}

// Get godoc
// GET /api/v1/subjects/:code/notes/:id
// Opens the note for the session and returns it.
func (h *NoteHandler) Get(c *gin.Context) {
	note, err := h.notes.Open(c.Request.Context(), middleware.GetState(c), c.Param("code"), model.ID(c.Param("id")))
	if err != nil {
		failJSON(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"note": note})
}

// Close godoc
// DELETE /api/v1/notes/open
func (h *NoteHandler) Close(c *gin.Context) {
	h.notes.Close(middleware.GetState(c))
	response.Success(c, http.StatusOK, gin.H{"message": "note closed"})
}

// Export godoc
// GET /api/v1/notes/open/pdf
// Exports the note currently open in the session.
func (h *NoteHandler) Export(c *gin.Context) {
	doc, err := h.notes.ExportCurrent(c.Request.Context(), middleware.GetState(c))
	if err != nil {
		failJSON(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
