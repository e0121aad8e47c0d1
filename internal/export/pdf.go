package export

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/signintech/gopdf"
	"github.com/studylite/studylite-backend/internal/model"
)

const (
	fontFamily   = "body"
	pageMargin   = 40.0
	titleSize    = 18
	bodySize     = 11
	titleTop     = 60.0
	bodyTop      = 90.0
	wrapWidth    = 520.0
	bodyLeading  = bodySize * 1.4
	a4PageHeight = 842.0
)

// PDFExporter renders notes to A4 PDF documents with gopdf.
type PDFExporter struct {
	font []byte
}

// NewPDFExporter loads the TTF font used for every document.
func NewPDFExporter(fontPath string) (*PDFExporter, error) {
	font, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	e := &PDFExporter{font: font}

	// Fail at start-up rather than on the first download.
	check := gopdf.GoPdf{}
	check.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4, Unit: gopdf.UnitPT})
	if err := check.AddTTFFontData(fontFamily, font); err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return e, nil
}

// Export writes the note title as a heading and the content wrapped to a
// fixed page width. Baselines follow the site's layout (title at 60pt, body
// from 90pt).
func (e *PDFExporter) Export(note model.Note) (*Document, error) {
	pdf, err := e.render(note)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	return &Document{
		Filename:    SafeFilename(note.Title) + ".pdf",
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

func (e *PDFExporter) render(note model.Note) (*gopdf.GoPdf, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4, Unit: gopdf.UnitPT})
	if err := pdf.AddTTFFontData(fontFamily, e.font); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderUnavailable, err)
	}
	pdf.SetInfo(gopdf.PdfInfo{Title: note.Title, Creator: "StudyLite"})
	pdf.AddPage()

	if err := pdf.SetFont(fontFamily, "", titleSize); err != nil {
		return nil, fmt.Errorf("set title font: %w", err)
	}
	pdf.SetXY(pageMargin, titleTop-titleSize)
	if err := pdf.Cell(nil, note.Title); err != nil {
		return nil, fmt.Errorf("write title: %w", err)
	}

	if err := pdf.SetFont(fontFamily, "", bodySize); err != nil {
		return nil, fmt.Errorf("set body font: %w", err)
	}
	lines, err := wrap(pdf, note.Content)
	if err != nil {
		return nil, err
	}

	y := bodyTop - bodySize
	for _, line := range lines {
		if y+bodyLeading > a4PageHeight-pageMargin {
			pdf.AddPage()
			y = pageMargin
		}
		if line != "" {
			pdf.SetXY(pageMargin, y)
			if err := pdf.Cell(nil, line); err != nil {
				return nil, fmt.Errorf("write body: %w", err)
			}
		}
		y += bodyLeading
	}
	return pdf, nil
}

// wrap splits content into lines no wider than wrapWidth, keeping explicit
// line breaks.
func wrap(pdf *gopdf.GoPdf, content string) ([]string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var out []string
	for _, para := range strings.Split(content, "\n") {
		if strings.TrimSpace(para) == "" {
			out = append(out, "")
			continue
		}
		lines, err := pdf.SplitText(para, wrapWidth)
		if err != nil {
			return nil, fmt.Errorf("wrap text: %w", err)
		}
		out = append(out, lines...)
	}
	return out, nil
}
