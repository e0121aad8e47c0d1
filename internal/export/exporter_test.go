package export

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studylite/studylite-backend/internal/model"
)

func TestSafeFilename(t *testing.T) {
	cases := map[string]string{
		"Cell Biology: Part 1/2":    "Cell Biology Part 12",
		"Ohm's law (V = IR)":        "Ohms law V  IR",
		"":                          "note",
		"???":                       "note",
		"snake_case-and spaces":     "snake_case-and spaces",
		strings.Repeat("a", 100):    strings.Repeat("a", 80),
		"<script>alert(1)</script>": "scriptalert1script",
	}
	for in, want := range cases {
		assert.Equal(t, want, SafeFilename(in), in)
	}
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.Export(model.Note{ID: "1", Title: "x"})
	assert.ErrorIs(t, err, ErrRenderUnavailable)
}

func TestResolveFallsBackWithoutFont(t *testing.T) {
	exp := Resolve("/nonexistent/font.ttf", zerolog.Nop())

	_, ok := exp.(Unavailable)
	require.True(t, ok)

	_, err := exp.Export(model.Note{ID: "1", Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrRenderUnavailable)
}

const testFont = "testdata/LiberationSerif-Regular.ttf"

func TestPDFExport(t *testing.T) {
	exp, err := NewPDFExporter(testFont)
	require.NoError(t, err)

	doc, err := exp.Export(model.Note{
		ID:      "1",
		Title:   "Photosynthesis: Overview",
		Content: strings.Repeat("Light energy is converted into chemical energy.\r\n", 120),
	})
	require.NoError(t, err)

	assert.Equal(t, "Photosynthesis Overview.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, strings.HasPrefix(string(doc.Data), "%PDF-"))
}

func TestPDFExportPaginates(t *testing.T) {
	exp, err := NewPDFExporter(testFont)
	require.NoError(t, err)

	short, err := exp.render(model.Note{ID: "1", Title: "Cells", Content: "The cell is the unit of life."})
	require.NoError(t, err)
	assert.Equal(t, 1, short.GetNumberOfPages())

	long, err := exp.render(model.Note{
		ID:      "2",
		Title:   "Cells",
		Content: strings.Repeat("Mitochondria release energy from glucose.\n", 120),
	})
	require.NoError(t, err)
	assert.Greater(t, long.GetNumberOfPages(), 1)
}

func TestPDFExportEdgeCases(t *testing.T) {
	exp, err := NewPDFExporter(testFont)
	require.NoError(t, err)

	cases := []struct {
		name     string
		note     model.Note
		filename string
	}{
		{"empty note", model.Note{ID: "1"}, "note.pdf"},
		{"unbroken word", model.Note{ID: "2", Title: "Long", Content: strings.Repeat("x", 5000)}, "Long.pdf"},
		{"unicode title", model.Note{ID: "3", Title: "Ökologie", Content: "Energiefluss"}, "kologie.pdf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := exp.Export(tc.note)
			require.NoError(t, err)
			assert.Equal(t, tc.filename, doc.Filename)
			assert.NotEmpty(t, doc.Data)
		})
	}
}

func TestWrapKeepsLinesWithinWidth(t *testing.T) {
	exp, err := NewPDFExporter(testFont)
	require.NoError(t, err)

	pdf, err := exp.render(model.Note{ID: "1", Title: "t"})
	require.NoError(t, err)

	content := strings.Repeat("Newton's second law relates force, mass and acceleration. ", 20) +
		"\n\n" + strings.Repeat("y", 400)
	lines, err := wrap(pdf, content)
	require.NoError(t, err)
	require.Greater(t, len(lines), 3)
	assert.Contains(t, lines, "", "blank paragraphs are kept")

	for _, line := range lines {
		w, err := pdf.MeasureTextWidth(line)
		require.NoError(t, err)
		assert.LessOrEqual(t, w, wrapWidth, line)
	}
}
