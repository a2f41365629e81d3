package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"MeridianWebserver/internal/domain"
)

// SubmissionsStore is satisfied by both the flat-file and postgres stores.
type SubmissionsStore interface {
	AppendLead(ctx context.Context, l domain.Lead) error
	LeadByEmail(ctx context.Context, email string) (domain.Lead, bool, error)
	ListLeads(ctx context.Context) ([]domain.Lead, error)
	AppendContact(ctx context.Context, c domain.ContactSubmission) error
	ListContacts(ctx context.Context) ([]domain.ContactSubmission, error)
	AppendCareer(ctx context.Context, a domain.CareerApplication) error
	ListCareers(ctx context.Context) ([]domain.CareerApplication, error)
	ListRegistrations(ctx context.Context) ([]domain.EventRegistration, error)
	UpdateStatus(ctx context.Context, id string, status domain.SubmissionStatus) (domain.Submission, error)
}

type SubmissionsService struct {
	Store  SubmissionsStore
	Logger *slog.Logger
	Now    func() time.Time
}

func (s *SubmissionsService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *SubmissionsService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

type NewLead struct {
	Email     string
	Name      string
	Company   string
	Phone     string
	Source    string
	Interest  string
	IPAddress string
	PageURL   string
}

// CreateLead dedupes by normalized email: a repeat submission returns the
// stored lead with isExisting=true and appends nothing. Persistence is
// best-effort; a write failure is logged and the lead is still returned so
// the caller can respond with success.
func (s *SubmissionsService) CreateLead(ctx context.Context, in NewLead) (lead domain.Lead, isExisting bool, err error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, found, err := s.Store.LeadByEmail(ctx, email)
	if err != nil {
		return domain.Lead{}, false, err
	}
	if found {
		return existing, true, nil
	}

	now := s.now().UTC()
	lead = domain.Lead{
		ID:        newID("lead", now),
		Email:     email,
		Name:      strings.TrimSpace(in.Name),
		Company:   strings.TrimSpace(in.Company),
		Phone:     strings.TrimSpace(in.Phone),
		Source:    strings.TrimSpace(in.Source),
		Interest:  strings.TrimSpace(in.Interest),
		Status:    domain.StatusNew,
		CreatedAt: now,
		IPAddress: in.IPAddress,
		PageURL:   in.PageURL,
	}
	if err := s.Store.AppendLead(ctx, lead); err != nil {
		s.logger().Error("lead persist failed", "err", err, "lead_id", lead.ID)
	}
	return lead, false, nil
}

type NewContact struct {
	FirstName string
	LastName  string
	Email     string
	Company   string
	Phone     string
	Subject   string
	Message   string
	IPAddress string
	PageURL   string
}

func (s *SubmissionsService) CreateContact(ctx context.Context, in NewContact) (domain.ContactSubmission, error) {
	now := s.now().UTC()
	c := domain.ContactSubmission{
		ID:          newID("contact", now),
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Company:     strings.TrimSpace(in.Company),
		Phone:       strings.TrimSpace(in.Phone),
		Subject:     strings.TrimSpace(in.Subject),
		Message:     strings.TrimSpace(in.Message),
		Status:      domain.StatusNew,
		SubmittedAt: now,
		IPAddress:   in.IPAddress,
		PageURL:     in.PageURL,
	}
	if err := s.Store.AppendContact(ctx, c); err != nil {
		s.logger().Error("contact persist failed", "err", err, "contact_id", c.ID)
	}
	return c, nil
}

type NewCareerApplication struct {
	Name        string
	Email       string
	Phone       string
	Position    string
	CoverLetter string
	ResumeURL   string
	IPAddress   string
}

func (s *SubmissionsService) CreateCareerApplication(ctx context.Context, in NewCareerApplication) (domain.CareerApplication, error) {
	now := s.now().UTC()
	a := domain.CareerApplication{
		ID:          newID("career", now),
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:       strings.TrimSpace(in.Phone),
		Position:    strings.TrimSpace(in.Position),
		CoverLetter: strings.TrimSpace(in.CoverLetter),
		ResumeURL:   strings.TrimSpace(in.ResumeURL),
		Status:      domain.StatusNew,
		SubmittedAt: now,
		IPAddress:   in.IPAddress,
	}
	if err := s.Store.AppendCareer(ctx, a); err != nil {
		s.logger().Error("career application persist failed", "err", err, "application_id", a.ID)
	}
	return a, nil
}

// ListAll merges every category into the shared envelope, newest first. A
// failing category is logged and skipped so one bad file never empties the
// whole admin view.
func (s *SubmissionsService) ListAll(ctx context.Context) ([]domain.Submission, error) {
	var out []domain.Submission

	leads, err := s.Store.ListLeads(ctx)
	if err != nil {
		s.logger().Error("list leads failed", "err", err)
	}
	for _, l := range leads {
		out = append(out, domain.SubmissionFromLead(l))
	}

	contacts, err := s.Store.ListContacts(ctx)
	if err != nil {
		s.logger().Error("list contacts failed", "err", err)
	}
	for _, c := range contacts {
		out = append(out, domain.SubmissionFromContact(c))
	}

	careers, err := s.Store.ListCareers(ctx)
	if err != nil {
		s.logger().Error("list career applications failed", "err", err)
	}
	for _, a := range careers {
		out = append(out, domain.SubmissionFromCareer(a))
	}

	regs, err := s.Store.ListRegistrations(ctx)
	if err != nil {
		s.logger().Error("list registrations failed", "err", err)
	}
	for _, r := range regs {
		out = append(out, domain.SubmissionFromRegistration(r))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *SubmissionsService) Get(ctx context.Context, id string) (domain.Submission, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return domain.Submission{}, err
	}
	for _, sub := range all {
		if sub.ID == id {
			return sub, nil
		}
	}
	return domain.Submission{}, domain.ErrNotFound
}

// UpdateStatus validates the closed status set before touching any store.
func (s *SubmissionsService) UpdateStatus(ctx context.Context, id string, status domain.SubmissionStatus) (domain.Submission, error) {
	if !domain.ValidStatusUpdate(status) {
		return domain.Submission{}, domain.NewValidationError(map[string]string{
			"status": "must be one of new, processed, archived",
		})
	}
	return s.Store.UpdateStatus(ctx, id, status)
}
