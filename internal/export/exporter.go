package export

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/model"
)

// ErrRenderUnavailable is returned when no document backend is configured.
var ErrRenderUnavailable = errors.New("document rendering backend unavailable")

// Document is a rendered, downloadable file.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Exporter renders a note into a downloadable document.
type Exporter interface {
	Export(note model.Note) (*Document, error)
}

// Unavailable is the fallback Exporter used when no backend could be set up.
type Unavailable struct {
	Reason error
}

// Export always fails with ErrRenderUnavailable.
func (u Unavailable) Export(model.Note) (*Document, error) {
	if u.Reason != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderUnavailable, u.Reason)
	}
	return nil, ErrRenderUnavailable
}

// Resolve picks the exporter once at start-up: the PDF backend when its font
// loads, otherwise the unavailable fallback.
func Resolve(fontPath string, log zerolog.Logger) Exporter {
	pdf, err := NewPDFExporter(fontPath)
	if err != nil {
		log.Warn().Err(err).Str("font", fontPath).Msg("PDF export disabled")
		return Unavailable{Reason: err}
	}
	log.Info().Str("font", fontPath).Msg("PDF export enabled")
	return pdf
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_\- ]+`)

const maxFilenameLen = 80

// SafeFilename keeps letters, digits, underscore, hyphen and space, truncates
// to 80 characters and falls back to "note".
func SafeFilename(title string) string {
	name := unsafeFilenameChars.ReplaceAllString(title, "")
	if len(name) > maxFilenameLen {
		name = name[:maxFilenameLen]
	}
	if name == "" {
		name = "note"
	}
	return name
}
