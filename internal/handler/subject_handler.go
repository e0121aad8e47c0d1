package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/middleware"
	"github.com/studylite/studylite-backend/internal/model"
	"github.com/studylite/studylite-backend/internal/response"
	"github.com/studylite/studylite-backend/internal/service"
	"github.com/studylite/studylite-backend/internal/view"
)

// SubjectHandler serves the catalog, subject views, payment details and the
// popup flag as JSON.
type SubjectHandler struct {
	catalog *service.CatalogService
	content *service.ContentService
	prompts *service.PromptService
	log     zerolog.Logger
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(catalog *service.CatalogService, content *service.ContentService, prompts *service.PromptService, log zerolog.Logger) *SubjectHandler {
	return &SubjectHandler{
		catalog: catalog,
		content: content,
		prompts: prompts,
		log:     log.With().Str("component", "subject_handler").Logger(),
	}
}

// SubjectResponse is the JSON shape of a joined subject view.
type SubjectResponse struct {
	Code           string            `json:"code"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	Type           model.SubjectType `json:"type"`
	Notes          []NoteSummary     `json:"notes"`
	NotesError     string            `json:"notes_error,omitempty"`
	QuestionCount  int               `json:"question_count"`
	QuestionsError string            `json:"questions_error,omitempty"`
	Preview        []PreviewQuestion `json:"preview"`
	Pack           *model.Pack       `json:"pack,omitempty"`
	DedicatedPage  string            `json:"dedicated_page,omitempty"`
}

// NoteSummary lists a note without its body.
type NoteSummary struct {
	ID    model.ID `json:"id"`
	Title string   `json:"title"`
}

// PreviewQuestion is a question stub linking to its solution.
type PreviewQuestion struct {
	ID       model.ID `json:"id"`
	Question string   `json:"question"`
}

func summarize(notes []model.Note) []NoteSummary {
	out := make([]NoteSummary, len(notes))
	for i, n := range notes {
		out[i] = NoteSummary{ID: n.ID, Title: n.Title}
	}
	return out
}

// List godoc
// GET /api/v1/subjects
func (h *SubjectHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"subjects": h.catalog.Subjects()})
}

// Get godoc
// GET /api/v1/subjects/:code
func (h *SubjectHandler) Get(c *gin.Context) {
	code := c.Param("code")
	v, err := h.content.LoadSubjectView(c.Request.Context(), code)
	if err != nil {
		failJSON(c, h.log, err)
		return
	}
	middleware.GetState(c).EnterSubject(code)

	resp := SubjectResponse{
		Code:        code,
		Title:       v.Title,
		Description: v.Description,
		Type:        v.Type,
		Notes:       []NoteSummary{},
		Preview:     make([]PreviewQuestion, 0, len(v.Preview)),
		Pack:        v.Pack,
	}
	if v.NotesErr != nil {
		resp.NotesError = view.NoticeNotesFailed
	} else {
		resp.Notes = summarize(v.Notes.Notes)
	}
	if v.QuestionsErr != nil {
		resp.QuestionsError = view.NoticeQuestionsFailed
	} else {
		resp.QuestionCount = len(v.Bank.Questions)
	}
	for _, q := range v.Preview {
		resp.Preview = append(resp.Preview, PreviewQuestion{ID: q.ID, Question: q.Question})
	}
	if page, ok := h.catalog.DedicatedPage(code); ok {
		resp.DedicatedPage = page
	}

	response.Success(c, http.StatusOK, gin.H{"subject": resp})
}

// Payment godoc
// GET /api/v1/payment?subject=
func (h *SubjectHandler) Payment(c *gin.Context) {
	subject := ""
	if code := c.Query("subject"); code != "" {
		sub, err := h.catalog.Find(code)
		if err != nil {
			failJSON(c, h.log, err)
			return
		}
		subject = sub.Name
	}
	response.Success(c, http.StatusOK, gin.H{"payment": h.catalog.Payment(subject, nil)})
}

// Popup godoc
// GET /api/v1/popup
// Reports whether the purchase popup should be shown; true at most once per
// session.
func (h *SubjectHandler) Popup(c *gin.Context) {
	show := h.prompts.ShouldShow(middleware.GetState(c))
	response.Success(c, http.StatusOK, gin.H{"show": show})
}
