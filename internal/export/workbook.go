package export

import (
	"fmt"
	"strings"

	"github.com/studylite/studylite-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

const bankSheet = "Questions"

var bankHeader = []interface{}{"ID", "Title", "Question", "Choices", "Correct", "Solution", "Working steps"}

// BankWorkbook lays a question bank out as a spreadsheet, one question per
// row, for offline review by content authors.
func BankWorkbook(bank *model.QuestionBank) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", bankSheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetRow(bankSheet, "A1", &bankHeader); err != nil {
		f.Close()
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(bankSheet, 1, 1, style)
	}

	for i, q := range bank.Questions {
		steps := make([]string, len(q.WorkingSteps))
		for j, s := range q.WorkingSteps {
			steps[j] = fmt.Sprintf("%d. %s", j+1, s)
		}
		row := []interface{}{
			q.ID.String(),
			q.Title,
			q.Question,
			strings.Join(q.Choices, " | "),
			q.Correct,
			q.Solution,
			strings.Join(steps, "\n"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(bankSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	_ = f.SetColWidth(bankSheet, "C", "C", 60)
	_ = f.SetColWidth(bankSheet, "F", "G", 50)
	return f, nil
}
