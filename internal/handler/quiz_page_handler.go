package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studylite/studylite-backend/internal/middleware"
	"github.com/studylite/studylite-backend/internal/model"
	"github.com/studylite/studylite-backend/internal/quiz"
	"github.com/studylite/studylite-backend/internal/service"
	"github.com/studylite/studylite-backend/internal/session"
	"github.com/studylite/studylite-backend/internal/validator"
	"github.com/studylite/studylite-backend/internal/view"
)

// StartQuiz godoc
// POST /subjects/:code/quiz
func (h *PageHandler) StartQuiz(c *gin.Context) {
	st := middleware.GetState(c)
	code := c.Param("code")

	var req model.StartQuizRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		h.renderSubject(c, st, code, http.StatusBadRequest, "Choose between 1 and 50 questions.")
		return
	}

	if _, err := h.svc.Quizzes.Start(c.Request.Context(), st, code, req.Count); err != nil {
		if errors.Is(err, service.ErrUnknownSubject) {
			h.fail(c, err)
			return
		}
		status, _ := classify(err)
		h.renderSubject(c, st, code, status, noticeFor(err, view.NoticeQuestionsFailed))
		return
	}
	c.Redirect(http.StatusSeeOther, quizURL(code))
}

// SubmitQuiz godoc
// POST /quiz/submit
func (h *PageHandler) SubmitQuiz(c *gin.Context) {
	st := middleware.GetState(c)

	if _, err := h.svc.Quizzes.Submit(st, toAnswers(c.PostFormMap("answers"))); err != nil {
		h.quizMisstep(c, st, err)
		return
	}
	c.Redirect(http.StatusSeeOther, quizURL(st.Quiz.SubjectCode))
}

// RetryQuiz godoc
// POST /quiz/retry
func (h *PageHandler) RetryQuiz(c *gin.Context) {
	st := middleware.GetState(c)
	if _, err := h.svc.Quizzes.Retry(c.Request.Context(), st); err != nil {
		h.quizMisstep(c, st, err)
		return
	}
	c.Redirect(http.StatusSeeOther, quizURL(st.Quiz.SubjectCode))
}

// CancelQuiz godoc
// POST /quiz/cancel
func (h *PageHandler) CancelQuiz(c *gin.Context) {
	st := middleware.GetState(c)
	code := quizSubject(st)
	if err := h.svc.Quizzes.Cancel(st); err != nil {
		h.quizMisstep(c, st, err)
		return
	}
	c.Redirect(http.StatusSeeOther, quizURL(code))
}

// DoneQuiz godoc
// POST /quiz/done
func (h *PageHandler) DoneQuiz(c *gin.Context) {
	st := middleware.GetState(c)
	code := quizSubject(st)
	if err := h.svc.Quizzes.Dismiss(st); err != nil {
		h.quizMisstep(c, st, err)
		return
	}
	c.Redirect(http.StatusSeeOther, quizURL(code))
}

// CurrentQuiz godoc
// GET /quiz
func (h *PageHandler) CurrentQuiz(c *gin.Context) {
	st := middleware.GetState(c)
	qs, err := h.svc.Quizzes.Current(st)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, view.PageQuiz, view.QuizPage{
		Layout: h.layout(qs.SubjectCode, qs.Subject+" quiz", qs.Subject, nil),
		Quiz:   qs,
	})
}

// quizMisstep handles out-of-order quiz posts such as a double submit by
// returning the user to wherever the quiz currently is.
func (h *PageHandler) quizMisstep(c *gin.Context, st *session.State, err error) {
	if errors.Is(err, service.ErrNoQuiz) || errors.Is(err, quiz.ErrInvalidTransition) {
		if code := quizSubject(st); code != "" {
			c.Redirect(http.StatusSeeOther, quizURL(code))
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	code := quizSubject(st)
	if code == "" {
		h.fail(c, err)
		return
	}
	status, _ := classify(err)
	h.renderSubject(c, st, code, status, noticeFor(err, view.NoticeQuestionsFailed))
}

func quizSubject(st *session.State) string {
	if st.Quiz != nil {
		return st.Quiz.SubjectCode
	}
	return st.SubjectCode
}

func quizURL(code string) string {
	return "/subjects/" + code + "#quiz"
}
