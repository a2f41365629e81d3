package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"MeridianWebserver/internal/domain"
	"MeridianWebserver/internal/email"

	"github.com/google/uuid"
)

type EmailSender interface {
	Send(ctx context.Context, msg email.Message) error
}

type EmailLogStore interface {
	AppendEmailLog(ctx context.Context, entry domain.EmailLogEntry) error
	ListEmailLogs(ctx context.Context) ([]domain.EmailLogEntry, error)
}

const defaultNotifyTimeout = 10 * time.Second

// NotificationService emails the marketing team about new submissions.
// Dispatch is fire-and-forget: handlers call NotifySubmission in a
// goroutine after responding, every outcome lands in the email log, and a
// failure never changes the response the submitter already got.
type NotificationService struct {
	Sender    EmailSender // nil disables sending
	Log       EmailLogStore
	Logger    *slog.Logger
	To        string
	FromName  string
	FromEmail string
	Timeout   time.Duration
	Now       func() time.Time
}

func (s *NotificationService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *NotificationService) NotifySubmission(sub domain.Submission) {
	if s.Sender == nil || s.To == "" {
		return
	}

	subject := fmt.Sprintf("New %s submission (%s)", sub.Type, sub.ID)
	lines := []string{
		fmt.Sprintf("A new %s submission arrived.", sub.Type),
		"",
		"ID:    " + sub.ID,
		"Email: " + sub.Email,
		"Time:  " + sub.Timestamp.Format(time.RFC3339),
	}
	s.send(subject, strings.Join(lines, "\n"))
}

func (s *NotificationService) send(subject, body string) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	// Detached from the originating request: client disconnects do not
	// cancel an in-flight notification.
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := s.Sender.Send(ctx, email.Message{
		FromName:  s.FromName,
		FromEmail: s.FromEmail,
		ToEmail:   s.To,
		Subject:   subject,
		TextBody:  body,
	})

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	entry := domain.EmailLogEntry{
		ID:      uuid.NewString(),
		To:      s.To,
		Subject: subject,
		Status:  domain.EmailSent,
		SentAt:  now.UTC(),
	}
	if err != nil {
		s.logger().Error("notification send failed", "err", err, "subject", subject)
		entry.Status = domain.EmailFailed
		entry.Error = err.Error()
	}

	if s.Log != nil {
		// A send that timed out leaves ctx expired; the outcome still has
		// to be recorded, so the append gets its own deadline.
		logCtx, logCancel := context.WithTimeout(context.Background(), timeout)
		defer logCancel()
		if logErr := s.Log.AppendEmailLog(logCtx, entry); logErr != nil {
			s.logger().Error("email log append failed", "err", logErr)
		}
	}
}

// ListEmailLogs returns log entries newest first, optionally filtered by
// status, capped at limit (default 100).
func (s *NotificationService) ListEmailLogs(ctx context.Context, status domain.EmailLogStatus, limit int) ([]domain.EmailLogEntry, error) {
	if s.Log == nil {
		return nil, nil
	}
	entries, err := s.Log.ListEmailLogs(ctx)
	if err != nil {
		return nil, err
	}

	if status != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Status == status {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SentAt.After(entries[j].SentAt)
	})

	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
