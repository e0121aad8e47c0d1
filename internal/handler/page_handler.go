package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/export"
	"github.com/studylite/studylite-backend/internal/middleware"
	"github.com/studylite/studylite-backend/internal/model"
	"github.com/studylite/studylite-backend/internal/response"
	"github.com/studylite/studylite-backend/internal/service"
	"github.com/studylite/studylite-backend/internal/session"
	"github.com/studylite/studylite-backend/internal/view"
)

// PageServices groups the services behind the HTML pages.
type PageServices struct {
	Catalog   *service.CatalogService
	Content   *service.ContentService
	Notes     *service.NoteService
	Quizzes   *service.QuizService
	Solutions *service.SolutionService
	Prompts   *service.PromptService
}

// PageHandler renders the server-side HTML site.
type PageHandler struct {
	svc PageServices
	log zerolog.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(svc PageServices, log zerolog.Logger) *PageHandler {
	return &PageHandler{
		svc: svc,
		log: log.With().Str("component", "page_handler").Logger(),
	}
}

func (h *PageHandler) layout(active, title, subject string, pack *model.Pack) view.Layout {
	return view.Layout{
		Title:    title,
		Active:   active,
		Nav:      h.svc.Catalog.Subjects(),
		Payment:  h.svc.Catalog.Payment(subject, pack),
		ShowsPay: true,
	}
}

// fail renders err as a full error page.
func (h *PageHandler) fail(c *gin.Context, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Page failed")
	}
	l := h.layout("", "", "", nil)
	l.Notice = response.GetMessage(code)
	c.HTML(status, view.PageError, view.ErrorPage{Layout: l, Status: status})
}

// Home godoc
// GET /
func (h *PageHandler) Home(c *gin.Context) {
	st := middleware.GetState(c)
	st.Leave()

	c.HTML(http.StatusOK, view.PageHome, view.HomePage{
		Layout:   h.layout(view.NavHome, "", "", nil),
		Subjects: h.svc.Catalog.Subjects(),
		Popup:    h.svc.Prompts.ShouldShow(st),
	})
}

// DismissPopup godoc
// POST /popup/dismiss
// The overlay was already recorded as shown when it rendered, so closing it
// only returns home.
func (h *PageHandler) DismissPopup(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// Open godoc
// GET /open/:code
// Redirects to a dedicated subject page when one is deployed, else renders
// the subject inline.
func (h *PageHandler) Open(c *gin.Context) {
	code := c.Param("code")
	if _, err := h.svc.Catalog.Find(code); err != nil {
		h.fail(c, err)
		return
	}
	if page, ok := h.svc.Catalog.DedicatedPage(code); ok {
		c.Redirect(http.StatusFound, page)
		return
	}
	c.Redirect(http.StatusFound, "/subjects/"+code)
}

// QuickQuiz godoc
// GET /quick/:code
func (h *PageHandler) QuickQuiz(c *gin.Context) {
	code := c.Param("code")
	if _, err := h.svc.Catalog.Find(code); err != nil {
		h.fail(c, err)
		return
	}
	if page, ok := h.svc.Catalog.DedicatedPage(code); ok {
		c.Redirect(http.StatusFound, page+"#quiz")
		return
	}

	st := middleware.GetState(c)
	if _, err := h.svc.Quizzes.Start(c.Request.Context(), st, code, 0); err != nil {
		h.renderSubject(c, st, code, http.StatusOK, noticeFor(err, view.NoticeQuestionsFailed))
		return
	}
	c.Redirect(http.StatusSeeOther, "/subjects/"+code+"#quiz")
}

// Subject godoc
// GET /subjects/:code
func (h *PageHandler) Subject(c *gin.Context) {
	h.renderSubject(c, middleware.GetState(c), c.Param("code"), http.StatusOK, "")
}

// OpenNote godoc
// GET /subjects/:code/notes/:id
func (h *PageHandler) OpenNote(c *gin.Context) {
	st := middleware.GetState(c)
	code := c.Param("code")

	if _, err := h.svc.Notes.Open(c.Request.Context(), st, code, model.ID(c.Param("id"))); err != nil {
		status, _ := classify(err)
		h.renderSubject(c, st, code, status, noticeFor(err, view.NoticeNotesFailed))
		return
	}
	h.renderSubject(c, st, code, http.StatusOK, "")
}

// CloseNote godoc
// POST /subjects/:code/notes/:id/close
func (h *PageHandler) CloseNote(c *gin.Context) {
	h.svc.Notes.Close(middleware.GetState(c))
	c.Redirect(http.StatusSeeOther, "/subjects/"+c.Param("code"))
}

// ExportNote godoc
// GET /subjects/:code/notes/:id/pdf
func (h *PageHandler) ExportNote(c *gin.Context) {
	st := middleware.GetState(c)
	code := c.Param("code")
	ctx := c.Request.Context()

	if _, err := h.svc.Notes.Open(ctx, st, code, model.ID(c.Param("id"))); err != nil {
		status, _ := classify(err)
		h.renderSubject(c, st, code, status, noticeFor(err, view.NoticeNotesFailed))
		return
	}

	doc, err := h.svc.Notes.ExportCurrent(ctx, st)
	if err != nil {
		status, _ := classify(err)
		h.renderSubject(c, st, code, status, noticeFor(err, view.NoticeExportFailed))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

// Solution godoc
// GET /subjects/:code/solutions/:id
func (h *PageHandler) Solution(c *gin.Context) {
	sol, ok := h.solution(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, view.PageSolution, view.SolutionPage{
		Layout:   h.layout(sol.SubjectCode, sol.Title, "", nil),
		Solution: sol,
	})
}

// PrintSolution godoc
// GET /subjects/:code/solutions/:id/print
func (h *PageHandler) PrintSolution(c *gin.Context) {
	sol, ok := h.solution(c)
	if !ok {
		return
	}
	h.log.Debug().Str("title", view.EscapeText(sol.Title)).Msg("Printing solution")
	c.HTML(http.StatusOK, view.PagePrint, view.PrintPage{Solution: sol})
}

func (h *PageHandler) solution(c *gin.Context) (*service.Solution, bool) {
	code := c.Param("code")
	sol, err := h.svc.Solutions.Get(c.Request.Context(), code, model.ID(c.Param("id")))
	if err == nil {
		return sol, true
	}

	if errors.Is(err, service.ErrContentLoad) {
		status, _ := classify(err)
		l := h.layout(code, "", "", nil)
		l.Notice = view.NoticeQuestionsNotSet
		c.HTML(status, view.PageError, view.ErrorPage{Layout: l, Status: status})
		return nil, false
	}
	h.fail(c, err)
	return nil, false
}

// renderSubject assembles and renders the inline subject view. notice is an
// optional page level message.
func (h *PageHandler) renderSubject(c *gin.Context, st *session.State, code string, status int, notice string) {
	v, err := h.svc.Content.LoadSubjectView(c.Request.Context(), code)
	if err != nil {
		h.fail(c, err)
		return
	}
	st.EnterSubject(code)

	page := view.SubjectPage{
		Layout:  h.layout(code, v.Title, v.Title, v.Pack),
		View:    v,
		Query:   c.Query("q"),
		Premium: c.Query("download") == "1",
	}
	page.Notice = notice

	if v.NotesErr != nil {
		page.NotesNotice = view.NoticeNotesFailed
	} else {
		page.Notes = service.Search(v.Notes, page.Query)
		if st.OpenNoteID != "" {
			if n, err := service.Lookup(v.Notes, st.OpenNoteID); err == nil {
				page.OpenNote = &n
			}
		}
	}

	switch {
	case v.QuestionsErr != nil:
		page.QuestionsNotice = view.NoticeQuestionsFailed
	case len(v.Bank.Questions) == 0:
		page.QuestionsNotice = view.NoticeNoQuestions
	}

	if st.Quiz.Active() && st.Quiz.SubjectCode == code {
		page.Quiz = st.Quiz
	}

	c.HTML(status, view.PageSubject, page)
}

// noticeFor picks the inline notice for an error shown on the subject page.
func noticeFor(err error, contentNotice string) string {
	if errors.Is(err, service.ErrContentLoad) {
		return contentNotice
	}
	if errors.Is(err, export.ErrRenderUnavailable) {
		return view.NoticeExportFailed
	}
	if errors.Is(err, service.ErrNotFound) {
		return view.NoticeNotFound
	}
	_, code := classify(err)
	return response.GetMessage(code)
}
