package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/model"
	"github.com/studylite/studylite-backend/internal/quiz"
	"github.com/studylite/studylite-backend/internal/repository"
	"github.com/studylite/studylite-backend/internal/validator"
	"golang.org/x/sync/errgroup"
)

// previewMax is the largest shuffled question sample on a subject page.
const previewMax = 12

// ContentService loads question banks and note sets for catalog subjects.
type ContentService struct {
	catalog *CatalogService
	source  repository.ContentSource
	engine  *quiz.Engine
	log     zerolog.Logger
}

// NewContentService creates a new ContentService.
func NewContentService(catalog *CatalogService, source repository.ContentSource, engine *quiz.Engine, log zerolog.Logger) *ContentService {
	return &ContentService{
		catalog: catalog,
		source:  source,
		engine:  engine,
		log:     log.With().Str("component", "content_service").Logger(),
	}
}

// LoadQuestionBank fetches, decodes and validates a subject's question file.
// Any failure is a *ContentLoadError; no partially decoded bank is returned.
func (s *ContentService) LoadQuestionBank(ctx context.Context, code string) (*model.QuestionBank, error) {
	sub, err := s.catalog.Find(code)
	if err != nil {
		return nil, err
	}

	var bank model.QuestionBank
	if err := s.load(ctx, sub.QuestionsFile, &bank); err != nil {
		return nil, err
	}
	if err := uniqueIDs(len(bank.Questions), func(i int) model.ID { return bank.Questions[i].ID }); err != nil {
		return nil, &ContentLoadError{Name: sub.QuestionsFile, Err: err}
	}
	if bank.Questions == nil {
		bank.Questions = []model.Question{}
	}
	return &bank, nil
}

// LoadNotes fetches, decodes and validates a subject's notes file.
func (s *ContentService) LoadNotes(ctx context.Context, code string) (*model.NoteSet, error) {
	sub, err := s.catalog.Find(code)
	if err != nil {
		return nil, err
	}

	var set model.NoteSet
	if err := s.load(ctx, sub.NotesFile, &set); err != nil {
		return nil, err
	}
	if err := uniqueIDs(len(set.Notes), func(i int) model.ID { return set.Notes[i].ID }); err != nil {
		return nil, &ContentLoadError{Name: sub.NotesFile, Err: err}
	}
	if set.Notes == nil {
		set.Notes = []model.Note{}
	}
	return &set, nil
}

func (s *ContentService) load(ctx context.Context, name string, dst interface{}) error {
	raw, err := s.source.Fetch(ctx, name)
	if err != nil {
		s.log.Warn().Err(err).Str("file", name).Msg("content fetch failed")
		return &ContentLoadError{Name: name, Err: err}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn().Err(err).Str("file", name).Msg("content decode failed")
		return &ContentLoadError{Name: name, Err: fmt.Errorf("decode: %w", err)}
	}
	if err := validator.Validate(dst); err != nil {
		s.log.Warn().Str("file", name).Str("problems", validator.Describe(err)).Msg("content validation failed")
		return &ContentLoadError{Name: name, Err: fmt.Errorf("validate: %w", err)}
	}
	return nil
}

func uniqueIDs(n int, id func(int) model.ID) error {
	seen := make(map[model.ID]struct{}, n)
	for i := 0; i < n; i++ {
		if _, dup := seen[id(i)]; dup {
			return fmt.Errorf("duplicate id %q", id(i))
		}
		seen[id(i)] = struct{}{}
	}
	return nil
}

// SubjectView is a joined subject page. Each half carries its own error so a
// failure in one only degrades that section.
type SubjectView struct {
	Subject      model.Subject
	Title        string
	Description  string
	Type         model.SubjectType
	Notes        *model.NoteSet
	NotesErr     error
	Bank         *model.QuestionBank
	QuestionsErr error
	Preview      []model.Question
	Pack         *model.Pack
}

// Theoretical reports whether the subject is review-only.
func (v *SubjectView) Theoretical() bool {
	return v.Type == model.SubjectTypeTheoretical
}

// LoadSubjectView fetches notes and questions concurrently and joins both
// before the view is assembled.
func (s *ContentService) LoadSubjectView(ctx context.Context, code string) (*SubjectView, error) {
	sub, err := s.catalog.Find(code)
	if err != nil {
		return nil, err
	}

	view := &SubjectView{Subject: sub}

	var g errgroup.Group
	g.Go(func() error {
		view.Notes, view.NotesErr = s.LoadNotes(ctx, code)
		return nil
	})
	g.Go(func() error {
		view.Bank, view.QuestionsErr = s.LoadQuestionBank(ctx, code)
		return nil
	})
	_ = g.Wait()

	view.Title, view.Description, view.Type = describe(sub, view.Notes, view.Bank)
	if view.Bank != nil {
		view.Preview = s.preview(view.Bank.Questions)
		if md := view.Bank.Metadata; md != nil && len(md.Packs) > 0 {
			pack := md.Packs[0]
			view.Pack = &pack
		}
	}

	if view.NotesErr != nil && view.QuestionsErr != nil {
		s.log.Error().
			Str("subject", code).
			AnErr("notes_err", view.NotesErr).
			AnErr("questions_err", view.QuestionsErr).
			Msg("subject content unavailable")
	}
	return view, nil
}

// describe prefers notes for title and description, questions for type.
func describe(sub model.Subject, notes *model.NoteSet, bank *model.QuestionBank) (string, string, model.SubjectType) {
	title, desc := "", ""
	typ := model.SubjectType("")

	if notes != nil {
		title = notes.Subject
		if notes.Metadata != nil {
			desc = notes.Metadata.Description
		}
	}
	if bank != nil {
		if title == "" {
			title = bank.Subject
		}
		if bank.Metadata != nil {
			if desc == "" {
				desc = bank.Metadata.Description
			}
			typ = bank.Metadata.Type
		}
	}
	if typ == "" && notes != nil && notes.Metadata != nil {
		typ = notes.Metadata.Type
	}
	if typ == "" {
		typ = model.SubjectTypeMixed
	}
	if title == "" {
		title = sub.Name
	}
	return title, desc, typ
}

// preview returns a shuffled sample: up to 12 questions once the pool has at
// least 10, otherwise the whole pool.
func (s *ContentService) preview(pool []model.Question) []model.Question {
	qs := make([]model.Question, len(pool))
	copy(qs, pool)
	s.engine.Shuffle(qs)
	if len(qs) >= 10 {
		return qs[:min(len(qs), previewMax)]
	}
	return qs
}

// IsContentError reports whether err should be shown as a load notice.
func IsContentError(err error) bool {
	return errors.Is(err, ErrContentLoad)
}
