package service

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/config"
	"github.com/studylite/studylite-backend/internal/model"
)

// CatalogService owns the subject catalog, dedicated page lookup and payment
// details.
type CatalogService struct {
	subjects []model.Subject
	pages    fs.FS
	payment  config.PaymentDetails
	log      zerolog.Logger
}

// NewCatalogService creates a CatalogService. pages may be nil when no
// dedicated subject pages are deployed.
func NewCatalogService(subjects []model.Subject, pages fs.FS, payment config.PaymentDetails, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		subjects: subjects,
		pages:    pages,
		payment:  payment,
		log:      log.With().Str("component", "catalog_service").Logger(),
	}
}

// NewPagesFS returns a filesystem over dir, or nil when dir does not exist.
func NewPagesFS(dir string) fs.FS {
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return nil
	}
	return os.DirFS(dir)
}

// Subjects returns the configured catalog in display order.
func (s *CatalogService) Subjects() []model.Subject {
	out := make([]model.Subject, len(s.subjects))
	copy(out, s.subjects)
	return out
}

// Find looks a subject up by code.
func (s *CatalogService) Find(code string) (model.Subject, error) {
	for _, sub := range s.subjects {
		if sub.Code == code {
			return sub, nil
		}
	}
	return model.Subject{}, ErrUnknownSubject
}

// DedicatedPage returns the path of a per-subject page, checking
// subjects/<code>.html then <code>.html. ok is false when neither exists.
func (s *CatalogService) DedicatedPage(code string) (string, bool) {
	if s.pages == nil {
		return "", false
	}
	for _, candidate := range []string{
		path.Join("subjects", code+".html"),
		code + ".html",
	} {
		st, err := fs.Stat(s.pages, candidate)
		if err == nil && !st.IsDir() {
			return "/pages/" + candidate, true
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", candidate).Msg("dedicated page check failed")
		}
	}
	return "", false
}

// PaymentLinks are the rendered contact/payment values.
type PaymentLinks struct {
	TillNumber   string  `json:"till_number"`
	Paybill      string  `json:"paybill,omitempty"`
	WhatsApp     string  `json:"whatsapp"`
	WhatsAppURL  string  `json:"whatsapp_url"`
	OrderURL     string  `json:"order_url"`
	SampleURL    string  `json:"sample_url"`
	TutorURL     string  `json:"tutor_url"`
	Email        string  `json:"email"`
	MailtoURL    string  `json:"mailto_url"`
	SelarLink    string  `json:"selar_link,omitempty"`
	PackTitle    string  `json:"pack_title,omitempty"`
	PackLink     string  `json:"pack_link,omitempty"`
	PackPriceKES float64 `json:"pack_price_kes,omitempty"`
}

// Payment substitutes the configured payment details for a subject name and
// optional pack. An empty subject produces a generic order message.
func (s *CatalogService) Payment(subject string, pack *model.Pack) PaymentLinks {
	till := s.payment.TillNumber
	if till == "" {
		till = config.DefaultTillNumber
	}
	phone := strings.ReplaceAll(s.payment.ContactWhatsApp, "+", "")

	what := "pack"
	if subject != "" {
		what = subject + " pack"
	}
	email := s.payment.ContactEmail
	if email == "" {
		email = "you@example.com"
	}

	links := PaymentLinks{
		TillNumber:  till,
		Paybill:     s.payment.Paybill,
		WhatsApp:    s.payment.ContactWhatsApp,
		WhatsAppURL: "https://wa.me/" + phone,
		OrderURL:    "https://wa.me/" + phone + "?text=" + encodeComponent("Hi, I want the "+what),
		SampleURL:   "https://wa.me/" + phone + "?text=" + encodeComponent("Hi, I would like a sample of the "+what),
		TutorURL:    "https://wa.me/" + phone + "?text=" + encodeComponent("Hi, I want tutor reseller info"),
		Email:       email,
		MailtoURL:   "mailto:" + email,
		SelarLink:   s.payment.SelarLink,
	}
	if pack != nil && pack.Link != "" {
		links.PackTitle = pack.Title
		links.PackLink = pack.Link
		links.PackPriceKES = pack.PriceKES
	}
	return links
}

// encodeComponent escapes like a browser's encodeURIComponent for the
// characters used in order messages.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
