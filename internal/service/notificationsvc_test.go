package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"MeridianWebserver/internal/domain"
	"MeridianWebserver/internal/email"
)

type stubSender struct {
	sendFunc func(context.Context, email.Message) error
}

func (s *stubSender) Send(ctx context.Context, msg email.Message) error {
	if s.sendFunc != nil {
		return s.sendFunc(ctx, msg)
	}
	return nil
}

type memEmailLog struct {
	entries []domain.EmailLogEntry
}

func (m *memEmailLog) AppendEmailLog(_ context.Context, e domain.EmailLogEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memEmailLog) ListEmailLogs(context.Context) ([]domain.EmailLogEntry, error) {
	out := make([]domain.EmailLogEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func TestNotifySubmissionLogsSent(t *testing.T) {
	var sent email.Message
	log := &memEmailLog{}
	svc := &NotificationService{
		Sender: &stubSender{sendFunc: func(_ context.Context, msg email.Message) error {
			sent = msg
			return nil
		}},
		Log:       log,
		To:        "marketing@meridian.example",
		FromEmail: "noreply@meridian.example",
	}

	svc.NotifySubmission(domain.Submission{Type: domain.TypeLead, ID: "lead_1", Email: "a@example.com"})

	if sent.ToEmail != "marketing@meridian.example" {
		t.Fatalf("unexpected recipient: %q", sent.ToEmail)
	}
	if len(log.entries) != 1 || log.entries[0].Status != domain.EmailSent {
		t.Fatalf("expected one sent log entry, got %+v", log.entries)
	}
	if log.entries[0].ID == "" {
		t.Fatalf("log entry needs an id")
	}
}

func TestNotifySubmissionFailureIsSwallowedAndLogged(t *testing.T) {
	log := &memEmailLog{}
	svc := &NotificationService{
		Sender: &stubSender{sendFunc: func(context.Context, email.Message) error {
			return errors.New("connection refused")
		}},
		Log: log,
		To:  "marketing@meridian.example",
	}

	// Must not panic or propagate anything.
	svc.NotifySubmission(domain.Submission{Type: domain.TypeContact, ID: "contact_1"})

	if len(log.entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(log.entries))
	}
	e := log.entries[0]
	if e.Status != domain.EmailFailed || e.Error == "" {
		t.Fatalf("expected failed entry with error, got %+v", e)
	}
}

type ctxEmailLog struct {
	memEmailLog
	appendCtxErr error
}

func (m *ctxEmailLog) AppendEmailLog(ctx context.Context, e domain.EmailLogEntry) error {
	m.appendCtxErr = ctx.Err()
	return m.memEmailLog.AppendEmailLog(ctx, e)
}

func TestNotifySubmissionTimedOutSendStillLogs(t *testing.T) {
	log := &ctxEmailLog{}
	svc := &NotificationService{
		Sender: &stubSender{sendFunc: func(ctx context.Context, _ email.Message) error {
			<-ctx.Done()
			return ctx.Err()
		}},
		Log:     log,
		To:      "marketing@meridian.example",
		Timeout: 10 * time.Millisecond,
	}

	svc.NotifySubmission(domain.Submission{Type: domain.TypeLead, ID: "lead_1"})

	if len(log.entries) != 1 || log.entries[0].Status != domain.EmailFailed {
		t.Fatalf("expected one failed entry, got %+v", log.entries)
	}
	if log.appendCtxErr != nil {
		t.Fatalf("log append must not inherit the expired send context: %v", log.appendCtxErr)
	}
}

func TestNotifySubmissionDisabledWithoutSender(t *testing.T) {
	log := &memEmailLog{}
	svc := &NotificationService{Log: log, To: "x@example.com"}
	svc.NotifySubmission(domain.Submission{Type: domain.TypeLead, ID: "lead_1"})
	if len(log.entries) != 0 {
		t.Fatalf("disabled notifier must not log")
	}
}

func TestListEmailLogsFilterAndLimit(t *testing.T) {
	log := &memEmailLog{}
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		status := domain.EmailSent
		if i%2 == 1 {
			status = domain.EmailFailed
		}
		log.entries = append(log.entries, domain.EmailLogEntry{
			ID:     string(rune('a' + i)),
			Status: status,
			SentAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	svc := &NotificationService{Log: log}

	failed, err := svc.ListEmailLogs(context.Background(), domain.EmailFailed, 0)
	if err != nil {
		t.Fatalf("ListEmailLogs: %v", err)
	}
	if len(failed) != 2 {
		t.Fatalf("failed entries = %d, want 2", len(failed))
	}
	if !failed[0].SentAt.After(failed[1].SentAt) {
		t.Fatalf("expected newest first")
	}

	all, err := svc.ListEmailLogs(context.Background(), "", 3)
	if err != nil {
		t.Fatalf("ListEmailLogs: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("limited entries = %d, want 3", len(all))
	}
}
