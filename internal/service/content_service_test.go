package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studylite/studylite-backend/internal/model"
)

func TestLoadQuestionBank(t *testing.T) {
	ctx := context.Background()

	t.Run("loads and validates", func(t *testing.T) {
		f := newFixture(t, testContent(t))
		bank, err := f.content.LoadQuestionBank(ctx, "math")
		require.NoError(t, err)
		assert.Len(t, bank.Questions, 12)
		assert.Equal(t, "Mathematics", bank.Subject)
	})

	t.Run("unknown subject", func(t *testing.T) {
		f := newFixture(t, testContent(t))
		_, err := f.content.LoadQuestionBank(ctx, "history")
		assert.ErrorIs(t, err, ErrUnknownSubject)
	})

	cases := map[string]string{
		"malformed":         `{"questions": [`,
		"missing question":  `{"questions": [{"id": "1", "solution": "x"}]}`,
		"missing id":        `{"questions": [{"question": "Why?"}]}`,
		"duplicate ids":     `{"questions": [{"id": 1, "question": "a"}, {"id": "1", "question": "b"}]}`,
		"wrong type for id": `{"questions": [{"id": true, "question": "a"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			fsys := testContent(t)
			fsys["math.json"].Data = []byte(body)
			f := newFixture(t, fsys)

			bank, err := f.content.LoadQuestionBank(ctx, "math")
			assert.Nil(t, bank)
			assert.ErrorIs(t, err, ErrContentLoad)

			var cle *ContentLoadError
			require.ErrorAs(t, err, &cle)
			assert.Equal(t, "math.json", cle.Name)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		fsys := testContent(t)
		delete(fsys, "math.json")
		f := newFixture(t, fsys)
		_, err := f.content.LoadQuestionBank(ctx, "math")
		assert.ErrorIs(t, err, ErrContentLoad)
		assert.True(t, IsContentError(err))
	})
}

func TestLoadSubjectView(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testContent(t))

	t.Run("joins both halves", func(t *testing.T) {
		v, err := f.content.LoadSubjectView(ctx, "math")
		require.NoError(t, err)
		assert.NoError(t, v.NotesErr)
		assert.NoError(t, v.QuestionsErr)
		assert.Equal(t, "Mathematics", v.Title)
		assert.Equal(t, "Numbers and shapes", v.Description)
		assert.Equal(t, model.SubjectTypeMixed, v.Type)
		assert.Len(t, v.Notes.Notes, 3)
		assert.Len(t, v.Preview, 12)
	})

	t.Run("notes failure only degrades notes", func(t *testing.T) {
		v, err := f.content.LoadSubjectView(ctx, "physics")
		require.NoError(t, err)
		assert.ErrorIs(t, v.NotesErr, ErrContentLoad)
		assert.NoError(t, v.QuestionsErr)
		assert.Equal(t, "Physics", v.Title)
		assert.Equal(t, model.SubjectTypeMixed, v.Type)
		assert.Len(t, v.Preview, 12)
	})

	t.Run("type comes from questions", func(t *testing.T) {
		v, err := f.content.LoadSubjectView(ctx, "biology")
		require.NoError(t, err)
		assert.True(t, v.Theoretical())
		assert.Len(t, v.Preview, 3)
	})

	t.Run("unknown subject", func(t *testing.T) {
		_, err := f.content.LoadSubjectView(ctx, "history")
		assert.ErrorIs(t, err, ErrUnknownSubject)
	})
}

func TestPreviewDistinct(t *testing.T) {
	f := newFixture(t, testContent(t))
	v, err := f.content.LoadSubjectView(context.Background(), "physics")
	require.NoError(t, err)

	seen := map[model.ID]bool{}
	for _, q := range v.Preview {
		assert.False(t, seen[q.ID], "duplicate %s", q.ID)
		seen[q.ID] = true
	}
}
