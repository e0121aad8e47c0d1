package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/export"
	"github.com/studylite/studylite-backend/internal/model"
	"github.com/studylite/studylite-backend/internal/session"
)

// NoteService opens, searches and exports notes.
type NoteService struct {
	content  *ContentService
	exporter export.Exporter
	log      zerolog.Logger
}

// NewNoteService creates a new NoteService. The exporter is resolved once by
// the caller; use export.Unavailable when no backend exists.
func NewNoteService(content *ContentService, exporter export.Exporter, log zerolog.Logger) *NoteService {
	return &NoteService{
		content:  content,
		exporter: exporter,
		log:      log.With().Str("component", "note_service").Logger(),
	}
}

// Lookup finds a note by identifier.
func Lookup(set *model.NoteSet, id model.ID) (model.Note, error) {
	if set != nil {
		for _, n := range set.Notes {
			if n.ID == id {
				return n, nil
			}
		}
	}
	return model.Note{}, ErrNotFound
}

// Search filters notes whose title contains term, ignoring case. A blank
// term returns every note.
func Search(set *model.NoteSet, term string) []model.Note {
	if set == nil {
		return []model.Note{}
	}
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]model.Note, 0, len(set.Notes))
	for _, n := range set.Notes {
		if term == "" || strings.Contains(strings.ToLower(n.Title), term) {
			out = append(out, n)
		}
	}
	return out
}

// Open makes a note the currently displayed one. Re-opening replaces the
// previous note; a miss leaves the displayed note unchanged.
func (s *NoteService) Open(ctx context.Context, st *session.State, code string, id model.ID) (model.Note, error) {
	set, err := s.content.LoadNotes(ctx, code)
	if err != nil {
		return model.Note{}, err
	}
	note, err := Lookup(set, id)
	if err != nil {
		return model.Note{}, err
	}

	st.EnterSubject(code)
	st.OpenNoteID = note.ID
	return note, nil
}

// Close releases the displayed note.
func (s *NoteService) Close(st *session.State) {
	st.OpenNoteID = ""
}

// Current returns the note currently open for the session's subject.
func (s *NoteService) Current(ctx context.Context, st *session.State) (model.Note, error) {
	if st.OpenNoteID == "" || st.SubjectCode == "" {
		return model.Note{}, ErrNoOpenNote
	}
	set, err := s.content.LoadNotes(ctx, st.SubjectCode)
	if err != nil {
		return model.Note{}, err
	}
	return Lookup(set, st.OpenNoteID)
}

// ExportCurrent renders the open note with the configured exporter.
func (s *NoteService) ExportCurrent(ctx context.Context, st *session.State) (*export.Document, error) {
	note, err := s.Current(ctx, st)
	if err != nil {
		return nil, err
	}
	doc, err := s.exporter.Export(note)
	if err != nil {
		s.log.Warn().Err(err).Str("note_id", note.ID.String()).Msg("note export failed")
		return nil, err
	}
	return doc, nil
}
