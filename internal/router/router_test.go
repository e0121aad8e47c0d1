package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studylite/studylite-backend/internal/config"
	"github.com/studylite/studylite-backend/internal/export"
	"github.com/studylite/studylite-backend/internal/handler"
	"github.com/studylite/studylite-backend/internal/middleware"
	"github.com/studylite/studylite-backend/internal/model"
	"github.com/studylite/studylite-backend/internal/quiz"
	"github.com/studylite/studylite-backend/internal/repository"
	"github.com/studylite/studylite-backend/internal/service"
	"github.com/studylite/studylite-backend/internal/session"
	"github.com/studylite/studylite-backend/internal/view"
)

const mathBank = `{
  "subject": "Mathematics",
  "metadata": {"type": "mixed", "packs": [{"title": "Maths pack", "link": "https://selar.co/m", "price_kes": 250}]},
  "questions": [
    {"id": 1, "question": "6 x 7?", "correct": "42", "solution": "42", "working_steps": ["Multiply"]},
    {"id": 2, "question": "Capital of France?", "choices": ["Paris", "Rome"], "correct": "Paris", "solution": "Paris"},
    {"id": 3, "question": "Area of a unit square?", "solution": "The area is 1"}
  ]
}`

const mathNotes = `{
  "subject": "Mathematics",
  "notes": [
    {"id": "algebra", "title": "Algebra basics", "content": "Balance both sides."},
    {"id": "circles", "title": "Circles", "content": "Area = pi r^2"}
  ]
}`

const biologyBank = `{
  "subject": "Biology",
  "metadata": {"type": "theoretical"},
  "questions": [
    {"id": "b1", "question": "Define osmosis.", "solution": "Movement of water across a membrane", "working_steps": ["Name the particle"]}
  ]
}`

type testServer struct {
	*httptest.Server
	client *http.Client
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()

	content := fstest.MapFS{
		"math.json":          {Data: []byte(mathBank)},
		"math-notes.json":    {Data: []byte(mathNotes)},
		"biology.json":       {Data: []byte(biologyBank)},
		"biology-notes.json": {Data: []byte(`{"subject":"Biology","notes":[]}`)},
		"physics.json":       {Data: []byte(`{"subject":"Physics","questions":[{"id":1,"question":"Unit of force?","correct":"newton","solution":"newton"}]}`)},
	}
	pages := fstest.MapFS{
		"subjects/physics.html": {Data: []byte("<html></html>")},
	}
	subjects := []model.Subject{
		model.NewSubject("math", "Mathematics"),
		model.NewSubject("biology", "Biology"),
		model.NewSubject("physics", "Physics"),
	}

	engine := quiz.NewEngine(nil)
	catalog := service.NewCatalogService(subjects, pages, config.PaymentDetails{ContactWhatsApp: "+254700000000"}, log)
	contentSvc := service.NewContentService(catalog, repository.NewFSSource(content), engine, log)
	notes := service.NewNoteService(contentSvc, export.Unavailable{}, log)
	quizzes := service.NewQuizService(contentSvc, engine, 10, log)
	solutions := service.NewSolutionService(contentSvc)
	prompts := service.NewPromptService()
	store := session.NewMemoryStore(time.Hour)

	tmpl, err := view.Load()
	require.NoError(t, err)

	limiter := middleware.NewRateLimiter(100, time.Minute)
	t.Cleanup(limiter.Stop)

	cfg := &config.Config{GinMode: gin.TestMode}
	r := SetupRouter(&Handlers{
		Page: handler.NewPageHandler(handler.PageServices{
			Catalog: catalog, Content: contentSvc, Notes: notes,
			Quizzes: quizzes, Solutions: solutions, Prompts: prompts,
		}, log),
		Subject:  handler.NewSubjectHandler(catalog, contentSvc, prompts, log),
		Note:     handler.NewNoteHandler(contentSvc, notes, log),
		Quiz:     handler.NewQuizHandler(quizzes, log),
		Solution: handler.NewSolutionHandler(solutions, log),
		WS:       handler.NewWSHandler(catalog, quizzes, store, log, nil),
	}, Deps{
		Templates:     tmpl,
		Session:       middleware.SessionConfig{Store: store, Signer: session.NewSigner("test-secret"), Log: log},
		ExportLimiter: limiter,
		StaticDir:     t.TempDir(),
		Log:           log,
	}, cfg)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testServer{
		Server: ts,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (s *testServer) do(t *testing.T, method, path string, body io.Reader, contentType string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := s.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func (s *testServer) get(t *testing.T, path string) (*http.Response, string) {
	return s.do(t, http.MethodGet, path, nil, "")
}

func (s *testServer) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	return s.do(t, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func (s *testServer) postJSON(t *testing.T, path string, v interface{}) (*http.Response, string) {
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return s.do(t, http.MethodPost, path, strings.NewReader(string(b)), "application/json")
}

func data(t *testing.T, body string, dst interface{}) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func errCode(t *testing.T, body string) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	return env.Error.Code
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp, body := s.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"ok"`)
}

func TestHomePopupOncePerSession(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `href="/open/math"`)
	assert.Contains(t, body, "/popup/dismiss")
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Zero(t, cookie.MaxAge)

	for i := 0; i < 3; i++ {
		_, body = s.get(t, "/")
		assert.NotContains(t, body, "/popup/dismiss")
	}

	resp, _ = s.postForm(t, "/popup/dismiss", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var popup struct {
		Show bool `json:"show"`
	}
	_, body = s.get(t, "/api/v1/popup")
	data(t, body, &popup)
	assert.False(t, popup.Show)
}

func TestTamperedCookieStartsNewSession(t *testing.T) {
	s := newTestServer(t)
	u, _ := url.Parse(s.URL)
	s.client.Jar.SetCookies(u, []*http.Cookie{{Name: middleware.SessionCookieName, Value: "not-a-token"}})

	resp, body := s.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "/popup/dismiss")
	assert.NotEmpty(t, resp.Cookies())
}

func TestOpenSubject(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.get(t, "/open/physics")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/pages/subjects/physics.html", resp.Header.Get("Location"))

	resp, _ = s.get(t, "/open/math")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/subjects/math", resp.Header.Get("Location"))

	resp, _ = s.get(t, "/open/history")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.get(t, "/quick/physics")
	assert.Equal(t, "/pages/subjects/physics.html#quiz", resp.Header.Get("Location"))

	resp, _ = s.get(t, "/quick/math")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body := s.get(t, "/quiz")
	assert.Equal(t, 3, strings.Count(body, "<fieldset"))
}

func TestSubjectPage(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/subjects/math")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Algebra basics")
	assert.Contains(t, body, "Take quiz")
	assert.Contains(t, body, `href="/subjects/math" class="active"`)
	assert.Contains(t, body, "https://selar.co/m")
	assert.Contains(t, body, "I%20want%20the%20Mathematics%20pack")
	assert.Contains(t, body, "a%20sample%20of%20the%20Mathematics%20pack")
	assert.Contains(t, body, "Tutor reseller info")

	_, body = s.get(t, "/subjects/math?q=CIRC")
	assert.Contains(t, body, "Circles")
	assert.NotContains(t, body, "Algebra basics")

	_, body = s.get(t, "/subjects/math?download=1")
	assert.Contains(t, body, "Premium download")

	resp, body = s.get(t, "/subjects/physics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, view.NoticeNotesFailed)
	assert.Contains(t, body, "Take quiz")

	_, body = s.get(t, "/subjects/biology")
	assert.Contains(t, body, "theoretical")

	resp, _ = s.get(t, "/subjects/history")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNoteModal(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/subjects/math/notes/algebra")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Balance both sides.")

	resp, body = s.get(t, "/subjects/math/notes/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, view.NoticeNotFound)
	assert.Contains(t, body, "Balance both sides.")

	resp, body = s.get(t, "/subjects/math/notes/algebra/pdf")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, view.NoticeExportFailed)

	resp, _ = s.postForm(t, "/subjects/math/notes/algebra/close", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body = s.get(t, "/subjects/math")
	assert.NotContains(t, body, "Balance both sides.")
}

func TestNotesAPI(t *testing.T) {
	s := newTestServer(t)

	var list struct {
		Notes []handler.NoteSummary `json:"notes"`
	}
	_, body := s.get(t, "/api/v1/subjects/math/notes?q=alg")
	data(t, body, &list)
	require.Len(t, list.Notes, 1)
	assert.Equal(t, model.ID("algebra"), list.Notes[0].ID)

	resp, body := s.get(t, "/api/v1/notes/open/pdf")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NO_OPEN_NOTE", errCode(t, body))

	resp, _ = s.get(t, "/api/v1/subjects/math/notes/circles")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.get(t, "/api/v1/notes/open/pdf")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "RENDER_UNAVAILABLE", errCode(t, body))

	resp, body = s.get(t, "/api/v1/subjects/math/notes/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errCode(t, body))
}

func TestHTMLQuizFlow(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.postForm(t, "/subjects/math/quiz", url.Values{"count": {"10"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/subjects/math#quiz", resp.Header.Get("Location"))

	_, body := s.get(t, "/subjects/math")
	assert.Equal(t, 3, strings.Count(body, "<fieldset"))

	form := url.Values{
		"answers[1]": {" 42 "},
		"answers[2]": {"paris"},
		"answers[3]": {"1"},
	}
	resp, _ = s.postForm(t, "/quiz/submit", form)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body = s.get(t, "/subjects/math")
	assert.Contains(t, body, "Score: 3 / 3 (100%)")

	// A second submit is an out-of-order post and just returns to the quiz.
	resp, _ = s.postForm(t, "/quiz/submit", form)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = s.postForm(t, "/quiz/retry", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp, _ = s.postForm(t, "/quiz/cancel", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, _ = s.get(t, "/quiz")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, body = s.postForm(t, "/subjects/math/quiz", url.Values{"count": {"100"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "between 1 and 50")
}

func TestAPIQuizFlow(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.postJSON(t, "/api/v1/subjects/math/quiz", map[string]int{"count": 100})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, body))

	var started handler.QuizResponse
	resp, body = s.postJSON(t, "/api/v1/subjects/math/quiz", map[string]int{"count": 10})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var wrapped struct {
		Quiz handler.QuizResponse `json:"quiz"`
	}
	data(t, body, &wrapped)
	started = wrapped.Quiz
	assert.Equal(t, quiz.StateRunning, started.State)
	assert.Len(t, started.Questions, 3)
	assert.NotContains(t, body, `"correct"`)

	resp, body = s.postJSON(t, "/api/v1/quiz/submit", map[string]interface{}{"answers": map[string]string{"1": "42", "3": ""}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data(t, body, &wrapped)
	require.NotNil(t, wrapped.Quiz.Result)
	assert.True(t, wrapped.Quiz.Result.Graded)
	assert.Equal(t, 1, wrapped.Quiz.Result.Correct)
	assert.Equal(t, 3, wrapped.Quiz.Result.Total)

	resp, body = s.postJSON(t, "/api/v1/quiz/cancel", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", errCode(t, body))

	resp, _ = s.postJSON(t, "/api/v1/quiz/done", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.get(t, "/api/v1/quiz")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NO_QUIZ", errCode(t, body))
}

func TestAPIQuizAllWrongReportsZeroCorrect(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.postJSON(t, "/api/v1/subjects/physics/quiz", map[string]int{"count": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := s.postJSON(t, "/api/v1/quiz/submit", map[string]interface{}{"answers": map[string]string{"1": "joule"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"correct":0`)
	assert.Contains(t, body, `"score":0`)

	var wrapped struct {
		Quiz handler.QuizResponse `json:"quiz"`
	}
	data(t, body, &wrapped)
	require.NotNil(t, wrapped.Quiz.Result)
	assert.True(t, wrapped.Quiz.Result.Graded)
	assert.Equal(t, 0, wrapped.Quiz.Result.Correct)
	assert.Equal(t, 1, wrapped.Quiz.Result.Total)

	resp, body = s.get(t, "/api/v1/quiz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"correct":0`)
}

func TestTheoreticalQuizHasNoScore(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.postForm(t, "/subjects/biology/quiz", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp, _ = s.postForm(t, "/quiz/submit", url.Values{"answers[b1]": {"water moves"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := s.get(t, "/quiz")
	assert.NotContains(t, body, "Score:")
	assert.Contains(t, body, "Movement of water across a membrane")
	assert.Contains(t, body, "water moves")
}

func TestSolutionPages(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get(t, "/subjects/math/solutions/1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<li>Multiply</li>")
	assert.Contains(t, body, "/subjects/math/solutions/1/print")

	resp, body = s.get(t, "/subjects/math/solutions/1/print")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "window.print()")

	resp, _ = s.get(t, "/subjects/math/solutions/99")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var sol struct {
		Solution service.Solution `json:"solution"`
	}
	_, body = s.get(t, "/api/v1/subjects/math/questions/1/solution")
	data(t, body, &sol)
	assert.Equal(t, "Solution", sol.Solution.Title)
	assert.Equal(t, []string{"Multiply"}, sol.Solution.WorkingSteps)
}

func TestSubjectAPI(t *testing.T) {
	s := newTestServer(t)

	var got struct {
		Subject handler.SubjectResponse `json:"subject"`
	}
	_, body := s.get(t, "/api/v1/subjects/physics")
	data(t, body, &got)
	assert.Equal(t, view.NoticeNotesFailed, got.Subject.NotesError)
	assert.Equal(t, 1, got.Subject.QuestionCount)
	assert.Equal(t, "/pages/subjects/physics.html", got.Subject.DedicatedPage)

	resp, body := s.get(t, "/api/v1/subjects/history")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_SUBJECT", errCode(t, body))

	var pay struct {
		Payment service.PaymentLinks `json:"payment"`
	}
	_, body = s.get(t, "/api/v1/payment?subject=biology")
	data(t, body, &pay)
	assert.Equal(t, config.DefaultTillNumber, pay.Payment.TillNumber)
	assert.Contains(t, pay.Payment.OrderURL, "Biology%20pack")
	assert.Contains(t, pay.Payment.SampleURL, "sample%20of%20the%20Biology%20pack")
	assert.Contains(t, pay.Payment.TutorURL, "tutor%20reseller")
}

func TestQuizWebSocket(t *testing.T) {
	s := newTestServer(t)

	// Establish the session cookie first.
	s.get(t, "/health")
	s.get(t, "/subjects/math")

	wsURL := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws/v1/subjects/math/quiz"
	dialer := websocket.Dialer{Jar: s.client.Jar, HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var ev map[string]interface{}
	require.NoError(t, conn.WriteJSON(map[string]string{"action": "ping"}))
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "pong", ev["event"])

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "submit"}))
	ev = nil
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "error", ev["event"])
	assert.Equal(t, "NO_QUIZ", ev["code"])

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"action": "start", "count": 2}))
	ev = nil
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, "started", ev["event"])
	assert.Len(t, ev["questions"], 2)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"action": "submit", "answers": map[string]string{"1": "42"}}))
	ev = nil
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "graded", ev["event"])
	assert.EqualValues(t, 2, ev["total"])

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "retry"}))
	ev = nil
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "started", ev["event"])

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "cancel"}))
	ev = nil
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "cancelled", ev["event"])

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "dance"}))
	ev = nil
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "error", ev["event"])
}
