package service

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/studylite/studylite-backend/internal/config"
	"github.com/studylite/studylite-backend/internal/model"
	"github.com/studylite/studylite-backend/internal/quiz"
	"github.com/studylite/studylite-backend/internal/repository"
)

var testSubjects = []model.Subject{
	model.NewSubject("math", "Mathematics"),
	model.NewSubject("biology", "Biology"),
	model.NewSubject("physics", "Physics"),
	model.NewSubject("chemistry", "Chemistry"),
}

func bankJSON(t *testing.T, subject string, typ model.SubjectType, n int) []byte {
	t.Helper()
	bank := model.QuestionBank{
		Subject:  subject,
		Metadata: &model.SubjectMetadata{Type: typ, Description: subject + " questions"},
	}
	for i := 1; i <= n; i++ {
		bank.Questions = append(bank.Questions, model.Question{
			ID:           model.ID(fmt.Sprintf("q%d", i)),
			Question:     fmt.Sprintf("Question %d?", i),
			Correct:      fmt.Sprintf("%d", i),
			Solution:     fmt.Sprintf("The answer is %d", i),
			WorkingSteps: []string{"Think", "Answer"},
		})
	}
	b, err := json.Marshal(bank)
	require.NoError(t, err)
	return b
}

const mathNotes = `{
  "subject": "Mathematics",
  "metadata": {"type": "mixed", "description": "Numbers and shapes"},
  "notes": [
    {"id": "algebra", "title": "Algebra basics", "content": "Balance both sides."},
    {"id": "circles", "title": "Circles", "content": "Area = pi r^2"},
    {"id": 7, "title": "Linear ALGEBRA", "content": "Vectors."}
  ]
}`

// testContent has a full math subject, a theoretical biology subject, physics
// without notes and chemistry with an empty pool.
func testContent(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"math.json":            {Data: bankJSON(t, "Mathematics", model.SubjectTypeMixed, 12)},
		"math-notes.json":      {Data: []byte(mathNotes)},
		"biology.json":         {Data: bankJSON(t, "Biology", model.SubjectTypeTheoretical, 3)},
		"biology-notes.json":   {Data: []byte(`{"subject":"Biology","notes":[]}`)},
		"physics.json":         {Data: bankJSON(t, "Physics", "", 15)},
		"chemistry.json":       {Data: []byte(`{"subject":"Chemistry","questions":[]}`)},
		"chemistry-notes.json": {Data: []byte(`{"subject":"Chemistry","notes":[]}`)},
	}
}

type fixture struct {
	catalog   *CatalogService
	content   *ContentService
	engine    *quiz.Engine
	quizzes   *QuizService
	solutions *SolutionService
}

func newFixture(t *testing.T, fsys fs.FS) *fixture {
	t.Helper()
	log := zerolog.Nop()
	engine := quiz.NewEngine(nil)
	catalog := NewCatalogService(testSubjects, nil, config.PaymentDetails{ContactWhatsApp: "+254700000000"}, log)
	content := NewContentService(catalog, repository.NewFSSource(fsys), engine, log)
	return &fixture{
		catalog:   catalog,
		content:   content,
		engine:    engine,
		quizzes:   NewQuizService(content, engine, 0, log),
		solutions: NewSolutionService(content),
	}
}

func jsonUnmarshal(s string, v interface{}) error {
	return json.Unmarshal([]byte(s), v)
}
