package validator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studylite/studylite-backend/internal/model"
)

func TestValidateContentPaths(t *testing.T) {
	Setup()

	var bank model.QuestionBank
	require.NoError(t, json.Unmarshal([]byte(`{"questions":[{"id":1,"question":"ok"},{"id":2,"question":""}]}`), &bank))

	err := Validate(&bank)
	require.Error(t, err)

	fields := TranslateErrors(err)
	require.Len(t, fields, 1)
	msg, ok := fields["questions[1].question"]
	require.True(t, ok, "fields: %v", fields)
	assert.Contains(t, msg, "required")
	assert.Equal(t, "questions[1].question: "+msg, Describe(err))
}

func TestValidateStartRequest(t *testing.T) {
	Setup()

	assert.NoError(t, Validate(&model.StartQuizRequest{}))
	assert.NoError(t, Validate(&model.StartQuizRequest{Count: 50}))

	fields := TranslateErrors(Validate(&model.StartQuizRequest{Count: 51}))
	assert.Contains(t, fields, "count")
}

func TestTranslateNonValidationError(t *testing.T) {
	var v map[string]int
	err := json.Unmarshal([]byte(`{`), &v)
	assert.Equal(t, map[string]string{"detail": err.Error()}, TranslateErrors(err))
}
