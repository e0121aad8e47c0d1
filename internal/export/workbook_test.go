package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studylite/studylite-backend/internal/model"
)

func TestBankWorkbook(t *testing.T) {
	bank := &model.QuestionBank{
		Subject: "Mathematics",
		Questions: []model.Question{
			{ID: "1", Question: "6 x 7?", Correct: "42", Solution: "42", WorkingSteps: []string{"Multiply"}},
			{ID: "2", Question: "Prime?", Choices: []string{"21", "29"}, Correct: "29", Solution: "29"},
		},
	}

	f, err := BankWorkbook(bank)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(bankSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "6 x 7?", rows[1][2])
	assert.Equal(t, "1. Multiply", rows[1][6])
	assert.Equal(t, "21 | 29", rows[2][3])
}
