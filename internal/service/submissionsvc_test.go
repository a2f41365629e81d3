package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"MeridianWebserver/internal/domain"
)

type stubSubmissionsStore struct {
	t *testing.T

	appendLeadFunc   func(context.Context, domain.Lead) error
	leadByEmailFunc  func(context.Context, string) (domain.Lead, bool, error)
	listLeadsFunc    func(context.Context) ([]domain.Lead, error)
	appendContactFn  func(context.Context, domain.ContactSubmission) error
	listContactsFunc func(context.Context) ([]domain.ContactSubmission, error)
	appendCareerFunc func(context.Context, domain.CareerApplication) error
	listCareersFunc  func(context.Context) ([]domain.CareerApplication, error)
	listRegsFunc     func(context.Context) ([]domain.EventRegistration, error)
	updateStatusFunc func(context.Context, string, domain.SubmissionStatus) (domain.Submission, error)
}

func (s *stubSubmissionsStore) AppendLead(ctx context.Context, l domain.Lead) error {
	if s.appendLeadFunc != nil {
		return s.appendLeadFunc(ctx, l)
	}
	s.t.Fatalf("AppendLead called unexpectedly")
	return nil
}

func (s *stubSubmissionsStore) LeadByEmail(ctx context.Context, email string) (domain.Lead, bool, error) {
	if s.leadByEmailFunc != nil {
		return s.leadByEmailFunc(ctx, email)
	}
	return domain.Lead{}, false, nil
}

func (s *stubSubmissionsStore) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	if s.listLeadsFunc != nil {
		return s.listLeadsFunc(ctx)
	}
	return nil, nil
}

func (s *stubSubmissionsStore) AppendContact(ctx context.Context, c domain.ContactSubmission) error {
	if s.appendContactFn != nil {
		return s.appendContactFn(ctx, c)
	}
	return nil
}

func (s *stubSubmissionsStore) ListContacts(ctx context.Context) ([]domain.ContactSubmission, error) {
	if s.listContactsFunc != nil {
		return s.listContactsFunc(ctx)
	}
	return nil, nil
}

func (s *stubSubmissionsStore) AppendCareer(ctx context.Context, a domain.CareerApplication) error {
	if s.appendCareerFunc != nil {
		return s.appendCareerFunc(ctx, a)
	}
	return nil
}

func (s *stubSubmissionsStore) ListCareers(ctx context.Context) ([]domain.CareerApplication, error) {
	if s.listCareersFunc != nil {
		return s.listCareersFunc(ctx)
	}
	return nil, nil
}

func (s *stubSubmissionsStore) ListRegistrations(ctx context.Context) ([]domain.EventRegistration, error) {
	if s.listRegsFunc != nil {
		return s.listRegsFunc(ctx)
	}
	return nil, nil
}

func (s *stubSubmissionsStore) UpdateStatus(ctx context.Context, id string, status domain.SubmissionStatus) (domain.Submission, error) {
	if s.updateStatusFunc != nil {
		return s.updateStatusFunc(ctx, id, status)
	}
	s.t.Fatalf("UpdateStatus called unexpectedly")
	return domain.Submission{}, nil
}

func TestCreateLeadDedupesByEmail(t *testing.T) {
	existing := domain.Lead{ID: "lead_1", Email: "alice@example.com"}
	appended := 0

	store := &stubSubmissionsStore{
		t: t,
		leadByEmailFunc: func(_ context.Context, email string) (domain.Lead, bool, error) {
			if email != "alice@example.com" {
				t.Fatalf("expected normalized email, got %q", email)
			}
			return existing, true, nil
		},
		appendLeadFunc: func(context.Context, domain.Lead) error {
			appended++
			return nil
		},
	}

	svc := &SubmissionsService{Store: store}
	lead, isExisting, err := svc.CreateLead(context.Background(), NewLead{Email: "  Alice@Example.COM "})
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}
	if !isExisting {
		t.Fatalf("expected isExisting for duplicate email")
	}
	if lead.ID != "lead_1" {
		t.Fatalf("expected stored lead returned, got %+v", lead)
	}
	if appended != 0 {
		t.Fatalf("duplicate must not append a second record")
	}
}

func TestCreateLeadNewRecord(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var got domain.Lead

	store := &stubSubmissionsStore{
		t: t,
		appendLeadFunc: func(_ context.Context, l domain.Lead) error {
			got = l
			return nil
		},
	}

	svc := &SubmissionsService{Store: store, Now: func() time.Time { return now }}
	lead, isExisting, err := svc.CreateLead(context.Background(), NewLead{
		Email: "Bob@Example.com", Name: " Bob ", Source: "whitepaper",
	})
	if err != nil || isExisting {
		t.Fatalf("CreateLead: isExisting=%v err=%v", isExisting, err)
	}
	if got.ID == "" || got.ID != lead.ID {
		t.Fatalf("appended record mismatch: %+v vs %+v", got, lead)
	}
	if got.Email != "bob@example.com" || got.Name != "Bob" {
		t.Fatalf("normalization: %+v", got)
	}
	if got.Status != domain.StatusNew || !got.CreatedAt.Equal(now) {
		t.Fatalf("envelope fields: %+v", got)
	}
}

func TestCreateLeadPersistFailureStillSucceeds(t *testing.T) {
	store := &stubSubmissionsStore{
		t: t,
		appendLeadFunc: func(context.Context, domain.Lead) error {
			return errors.New("read-only filesystem")
		},
	}

	svc := &SubmissionsService{Store: store}
	lead, _, err := svc.CreateLead(context.Background(), NewLead{Email: "c@example.com"})
	if err != nil {
		t.Fatalf("persist failure must not fail the submission: %v", err)
	}
	if lead.ID == "" {
		t.Fatalf("expected a lead back despite persist failure")
	}
}

func TestListAllSortsByTimestampDescending(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t3 := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	t4 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store := &stubSubmissionsStore{
		t: t,
		listLeadsFunc: func(context.Context) ([]domain.Lead, error) {
			return []domain.Lead{{ID: "lead_1", CreatedAt: t2}}, nil
		},
		listContactsFunc: func(context.Context) ([]domain.ContactSubmission, error) {
			return []domain.ContactSubmission{{ID: "contact_1", SubmittedAt: t4}}, nil
		},
		listCareersFunc: func(context.Context) ([]domain.CareerApplication, error) {
			return []domain.CareerApplication{{ID: "career_1", SubmittedAt: t1}}, nil
		},
		listRegsFunc: func(context.Context) ([]domain.EventRegistration, error) {
			return []domain.EventRegistration{{ID: "reg_1", RegisteredAt: t3}}, nil
		},
	}

	svc := &SubmissionsService{Store: store}
	all, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}

	wantOrder := []string{"contact_1", "reg_1", "lead_1", "career_1"}
	wantTypes := []domain.SubmissionType{domain.TypeContact, domain.TypeEvent, domain.TypeLead, domain.TypeCareer}
	if len(all) != len(wantOrder) {
		t.Fatalf("len = %d, want %d", len(all), len(wantOrder))
	}
	for i := range all {
		if all[i].ID != wantOrder[i] || all[i].Type != wantTypes[i] {
			t.Fatalf("position %d: got %s/%s, want %s/%s", i, all[i].Type, all[i].ID, wantTypes[i], wantOrder[i])
		}
	}
}

func TestListAllToleratesOneFailingCategory(t *testing.T) {
	store := &stubSubmissionsStore{
		t: t,
		listLeadsFunc: func(context.Context) ([]domain.Lead, error) {
			return nil, errors.New("corrupt file")
		},
		listContactsFunc: func(context.Context) ([]domain.ContactSubmission, error) {
			return []domain.ContactSubmission{{ID: "contact_1"}}, nil
		},
	}

	svc := &SubmissionsService{Store: store}
	all, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 || all[0].ID != "contact_1" {
		t.Fatalf("expected the healthy category, got %+v", all)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	store := &stubSubmissionsStore{t: t} // UpdateStatus must not be reached

	svc := &SubmissionsService{Store: store}
	_, err := svc.UpdateStatus(context.Background(), "lead_1", "bogus")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), "lead_1", domain.StatusConfirmed)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("confirmed is not settable via update, got %v", err)
	}
}

func TestUpdateStatusPassesThrough(t *testing.T) {
	store := &stubSubmissionsStore{
		t: t,
		updateStatusFunc: func(_ context.Context, id string, status domain.SubmissionStatus) (domain.Submission, error) {
			if id != "lead_1" || status != domain.StatusArchived {
				t.Fatalf("unexpected args: %s %s", id, status)
			}
			return domain.Submission{Type: domain.TypeLead, ID: id, Status: status}, nil
		},
	}

	svc := &SubmissionsService{Store: store}
	sub, err := svc.UpdateStatus(context.Background(), "lead_1", domain.StatusArchived)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if sub.Type != domain.TypeLead || sub.Status != domain.StatusArchived {
		t.Fatalf("unexpected submission: %+v", sub)
	}
}
