package view

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/studylite/studylite-backend/internal/model"
	"github.com/studylite/studylite-backend/internal/quiz"
	"github.com/studylite/studylite-backend/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names accepted by gin's c.HTML.
const (
	PageHome     = "home"
	PageSubject  = "subject"
	PageQuiz     = "quiz"
	PageSolution = "solution"
	PagePrint    = "print"
	PageError    = "error"
)

// Nav keys used for the active link.
const NavHome = "home"

// Load parses the embedded page templates.
func Load() (*template.Template, error) {
	t, err := template.New("studylite").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// Funcs are the helpers available inside templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"verdict": func(ok *bool) string {
			switch {
			case ok == nil:
				return ""
			case *ok:
				return "correct"
			default:
				return "incorrect"
			}
		},
		"percent": func(r *quiz.Result) int {
			return int(r.Score()*100 + 0.5)
		},
		"answerOf": func(s *quiz.Session, id model.ID) string {
			return s.Answers[id]
		},
		"dict": dict,
		"paragraphs": func(s string) []string {
			s = strings.ReplaceAll(s, "\r\n", "\n")
			return strings.Split(s, "\n")
		},
	}
}

func dict(kv ...interface{}) (map[string]interface{}, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd argument count")
	}
	m := make(map[string]interface{}, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// Layout is shared by every page.
type Layout struct {
	Title    string
	Active   string
	Nav      []model.Subject
	Notice   string
	Payment  service.PaymentLinks
	ShowsPay bool
}

// HomePage lists the catalog.
type HomePage struct {
	Layout
	Subjects []model.Subject
	Popup    bool
}

// SubjectPage is the inline subject view with its note modal, quiz panel and
// purchase overlay.
type SubjectPage struct {
	Layout
	View            *service.SubjectView
	Query           string
	Notes           []model.Note
	NotesNotice     string
	QuestionsNotice string
	OpenNote        *model.Note
	Quiz            *quiz.Session
	Premium         bool
}

// QuizPage shows the session's current quiz on its own.
type QuizPage struct {
	Layout
	Quiz *quiz.Session
}

// SolutionPage shows one worked solution.
type SolutionPage struct {
	Layout
	Solution *service.Solution
}

// PrintPage is the standalone printable solution document.
type PrintPage struct {
	Solution *service.Solution
}

// ErrorPage is a full page notice.
type ErrorPage struct {
	Layout
	Status int
}

// Section notices.
const (
	NoticeNotesFailed     = "Failed to load notes."
	NoticeQuestionsFailed = "Failed to load questions."
	NoticeNoQuestions     = "No questions available for this subject."
	NoticeNotFound        = "Not found."
	NoticeQuestionsNotSet = "Questions not loaded."
	NoticeExportFailed    = "PDF export is not available right now."
)

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"`", "&#96;",
)

// EscapeText escapes the characters the site treats as markup for use
// outside a template.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}
