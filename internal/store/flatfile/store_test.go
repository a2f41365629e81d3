package flatfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"MeridianWebserver/internal/domain"
)

func TestCollectionAppendAndReadAll(t *testing.T) {
	dir := t.TempDir()
	c := NewCollection[domain.Lead](filepath.Join(dir, "nested", "leads.json"), nil)
	ctx := context.Background()

	got, err := c.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll on missing file: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty slice, got %d records", len(got))
	}

	l := domain.Lead{ID: "lead_1", Email: "a@example.com", Status: domain.StatusNew}
	if err := c.Append(ctx, l); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err = c.ReadAll(ctx)
	if err != nil || len(got) != 1 || got[0].ID != "lead_1" {
		t.Fatalf("ReadAll after append: %v %v", got, err)
	}

	// File is a pretty-printed JSON array.
	raw, err := os.ReadFile(filepath.Join(dir, "nested", "leads.json"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if raw[0] != '[' {
		t.Fatalf("expected JSON array, got %q", raw[:1])
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		t.Fatalf("file not a JSON array: %v", err)
	}
}

func TestCollectionCorruptFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leads.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c := NewCollection[domain.Lead](path, nil)
	got, err := c.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("corrupt file should not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected zero records from corrupt file")
	}
}

func TestLeadByEmail(t *testing.T) {
	s := New(t.TempDir(), nil)
	ctx := context.Background()

	if err := s.AppendLead(ctx, domain.Lead{ID: "lead_1", Email: "Alice@Example.com"}); err != nil {
		t.Fatalf("AppendLead: %v", err)
	}

	_, found, err := s.LeadByEmail(ctx, "alice@example.com")
	if err != nil || !found {
		t.Fatalf("expected case-insensitive match, found=%v err=%v", found, err)
	}

	_, found, err = s.LeadByEmail(ctx, "bob@example.com")
	if err != nil || found {
		t.Fatalf("expected no match, found=%v err=%v", found, err)
	}
}

func TestRegistrationExists(t *testing.T) {
	s := New(t.TempDir(), nil)
	ctx := context.Background()

	err := s.AppendRegistration(ctx, domain.EventRegistration{
		ID: "evt_1", EventID: "summit-2026", Email: "Dana@Example.com",
	})
	if err != nil {
		t.Fatalf("AppendRegistration: %v", err)
	}

	ok, err := s.RegistrationExists(ctx, "summit-2026", "dana@example.com")
	if err != nil || !ok {
		t.Fatalf("expected existing registration, ok=%v err=%v", ok, err)
	}
	ok, err = s.RegistrationExists(ctx, "other-event", "dana@example.com")
	if err != nil || ok {
		t.Fatalf("same email on another event should not match")
	}
}

func TestUpdateStatusScansCategoriesInOrder(t *testing.T) {
	s := New(t.TempDir(), nil)
	ctx := context.Background()

	if err := s.AppendLead(ctx, domain.Lead{ID: "lead_1", Status: domain.StatusNew}); err != nil {
		t.Fatalf("AppendLead: %v", err)
	}
	if err := s.AppendContact(ctx, domain.ContactSubmission{ID: "contact_1", Status: domain.StatusNew}); err != nil {
		t.Fatalf("AppendContact: %v", err)
	}
	if err := s.AppendCareer(ctx, domain.CareerApplication{ID: "career_1", Status: domain.StatusNew}); err != nil {
		t.Fatalf("AppendCareer: %v", err)
	}

	sub, err := s.UpdateStatus(ctx, "contact_1", domain.StatusArchived)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if sub.Type != domain.TypeContact || sub.Status != domain.StatusArchived {
		t.Fatalf("unexpected submission: %+v", sub)
	}

	// Only the owning file changed.
	leads, _ := s.ListLeads(ctx)
	if leads[0].Status != domain.StatusNew {
		t.Fatalf("lead status should be untouched")
	}
	contacts, _ := s.ListContacts(ctx)
	if contacts[0].Status != domain.StatusArchived {
		t.Fatalf("contact status not persisted")
	}

	if _, err := s.UpdateStatus(ctx, "nope", domain.StatusArchived); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFeatureCRUD(t *testing.T) {
	s := New(t.TempDir(), nil)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	f := domain.Feature{ID: "feat_1", Name: "chat-widget", Enabled: true, CreatedAt: now, UpdatedAt: now}
	if err := s.CreateFeature(ctx, f); err != nil {
		t.Fatalf("CreateFeature: %v", err)
	}

	got, err := s.GetFeature(ctx, "feat_1")
	if err != nil || got.Name != "chat-widget" {
		t.Fatalf("GetFeature: %+v %v", got, err)
	}

	f.Enabled = false
	if err := s.UpdateFeature(ctx, f); err != nil {
		t.Fatalf("UpdateFeature: %v", err)
	}
	got, _ = s.GetFeature(ctx, "feat_1")
	if got.Enabled {
		t.Fatalf("feature should be disabled after update")
	}

	if err := s.DeleteFeature(ctx, "feat_1"); err != nil {
		t.Fatalf("DeleteFeature: %v", err)
	}
	if _, err := s.GetFeature(ctx, "feat_1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.UpdateFeature(ctx, f); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update of missing feature: got %v", err)
	}
}

func TestWebVitalsCap(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, nil)
	ctx := context.Background()

	// Seed just under the cap directly, then push past it.
	seed := make([]domain.WebVital, WebVitalsCap-1)
	for i := range seed {
		seed[i] = domain.WebVital{Name: "LCP", Value: float64(i)}
	}
	if err := s.vitals.ReplaceAll(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := s.AppendWebVital(ctx, domain.WebVital{Name: "CLS", Value: float64(i)}); err != nil {
			t.Fatalf("AppendWebVital: %v", err)
		}
	}

	vitals, err := s.ListWebVitals(ctx)
	if err != nil {
		t.Fatalf("ListWebVitals: %v", err)
	}
	if len(vitals) != WebVitalsCap {
		t.Fatalf("len = %d, want cap %d", len(vitals), WebVitalsCap)
	}
	last := vitals[len(vitals)-1]
	if last.Name != "CLS" || last.Value != 2 {
		t.Fatalf("most recent entry should survive, got %+v", last)
	}
}

func TestCollectionUpdateNoChangeSkipsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.json")
	c := NewCollection[domain.Lead](path, nil)

	changed, err := c.Update(context.Background(), func(leads []domain.Lead) ([]domain.Lead, bool) {
		return leads, false
	})
	if err != nil || changed {
		t.Fatalf("expected no-op update, changed=%v err=%v", changed, err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("no-op update should not create the file")
	}
}

func TestAppendPreservesInsertionOrder(t *testing.T) {
	s := New(t.TempDir(), nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.AppendContact(ctx, domain.ContactSubmission{ID: fmt.Sprintf("contact_%d", i)}); err != nil {
			t.Fatalf("AppendContact: %v", err)
		}
	}
	contacts, _ := s.ListContacts(ctx)
	for i, c := range contacts {
		if c.ID != fmt.Sprintf("contact_%d", i) {
			t.Fatalf("order broken at %d: %s", i, c.ID)
		}
	}
}
