package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/model"
	"github.com/studylite/studylite-backend/internal/service"
	"golang.org/x/sync/errgroup"
)

// ContentAuditWorker loads every catalog subject on a schedule and logs the
// files that fail to fetch, decode or validate, so a broken deploy of the
// content directory shows up before a visitor opens the subject.
type ContentAuditWorker struct {
	catalog  *service.CatalogService
	content  *service.ContentService
	interval time.Duration
	log      zerolog.Logger
}

// NewContentAuditWorker creates a new ContentAuditWorker. A zero interval
// audits once at startup only.
func NewContentAuditWorker(catalog *service.CatalogService, content *service.ContentService, interval time.Duration, log zerolog.Logger) *ContentAuditWorker {
	return &ContentAuditWorker{
		catalog:  catalog,
		content:  content,
		interval: interval,
		log:      log.With().Str("component", "content_audit_worker").Logger(),
	}
}

// AuditReport summarises one pass.
type AuditReport struct {
	Subjects  int
	Questions int
	Notes     int
	Failed    []string
}

// Start audits immediately, then on every tick until ctx is done.
func (w *ContentAuditWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")
	w.Audit(ctx)

	if w.interval <= 0 {
		return
	}
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-t.C:
			w.Audit(ctx)
		}
	}
}

type subjectAudit struct {
	questions int
	notes     int
	failed    []string
}

// Audit loads every subject's questions and notes concurrently.
func (w *ContentAuditWorker) Audit(ctx context.Context) AuditReport {
	subjects := w.catalog.Subjects()
	results := make([]subjectAudit, len(subjects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, sub := range subjects {
		g.Go(func() error {
			results[i] = w.auditSubject(gctx, sub)
			return nil
		})
	}
	_ = g.Wait()

	report := AuditReport{Subjects: len(subjects), Failed: []string{}}
	for _, r := range results {
		report.Questions += r.questions
		report.Notes += r.notes
		report.Failed = append(report.Failed, r.failed...)
	}

	ev := w.log.Info()
	if len(report.Failed) > 0 {
		ev = w.log.Warn().Strs("failed", report.Failed)
	}
	ev.Int("subjects", report.Subjects).
		Int("questions", report.Questions).
		Int("notes", report.Notes).
		Msg("Content audit finished")
	return report
}

func (w *ContentAuditWorker) auditSubject(ctx context.Context, sub model.Subject) subjectAudit {
	var a subjectAudit
	if bank, err := w.content.LoadQuestionBank(ctx, sub.Code); err != nil {
		a.failed = append(a.failed, sub.QuestionsFile)
	} else {
		a.questions = len(bank.Questions)
	}
	if set, err := w.content.LoadNotes(ctx, sub.Code); err != nil {
		a.failed = append(a.failed, sub.NotesFile)
	} else {
		a.notes = len(set.Notes)
	}
	return a
}
