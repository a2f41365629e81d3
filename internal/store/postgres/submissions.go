// Package postgres is the optional durable submissions store, enabled when
// APP_DB_DSN is set. Records keep the same JSON shape as the flat-file
// store; the table adds the envelope columns the admin views query on.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"MeridianWebserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubmissionsStore persists every submission category in one table; the
// schema lives in db.go and is applied by Open.
type SubmissionsStore struct {
	pool *pgxpool.Pool
}

func NewSubmissionsStore(pool *pgxpool.Pool) *SubmissionsStore {
	return &SubmissionsStore{pool: pool}
}

func (s *SubmissionsStore) insert(ctx context.Context, id string, category domain.SubmissionType, email, eventID string, status domain.SubmissionStatus, submittedAt time.Time, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", category, err)
	}

	const q = `
		INSERT INTO submissions (id, category, email, event_id, status, submitted_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	var eventIDArg any
	if eventID != "" {
		eventIDArg = eventID
	}
	if _, err := s.pool.Exec(ctx, q, id, string(category), strings.ToLower(email), eventIDArg, string(status), submittedAt, payload); err != nil {
		return fmt.Errorf("insert %s: %w", category, err)
	}
	return nil
}

func (s *SubmissionsStore) AppendLead(ctx context.Context, l domain.Lead) error {
	return s.insert(ctx, l.ID, domain.TypeLead, l.Email, "", l.Status, l.CreatedAt, l)
}

func (s *SubmissionsStore) LeadByEmail(ctx context.Context, email string) (domain.Lead, bool, error) {
	const q = `
		SELECT payload FROM submissions
		WHERE category = 'lead' AND email = $1
		ORDER BY submitted_at
		LIMIT 1
	`
	var payload []byte
	err := s.pool.QueryRow(ctx, q, strings.ToLower(strings.TrimSpace(email))).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, false, nil
		}
		return domain.Lead{}, false, fmt.Errorf("lead by email: %w", err)
	}

	var l domain.Lead
	if err := json.Unmarshal(payload, &l); err != nil {
		return domain.Lead{}, false, fmt.Errorf("decode lead: %w", err)
	}
	return l, true, nil
}

func (s *SubmissionsStore) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	return listPayloads[domain.Lead](ctx, s.pool, domain.TypeLead)
}

func (s *SubmissionsStore) AppendContact(ctx context.Context, c domain.ContactSubmission) error {
	return s.insert(ctx, c.ID, domain.TypeContact, c.Email, "", c.Status, c.SubmittedAt, c)
}

func (s *SubmissionsStore) ListContacts(ctx context.Context) ([]domain.ContactSubmission, error) {
	return listPayloads[domain.ContactSubmission](ctx, s.pool, domain.TypeContact)
}

func (s *SubmissionsStore) AppendCareer(ctx context.Context, a domain.CareerApplication) error {
	return s.insert(ctx, a.ID, domain.TypeCareer, a.Email, "", a.Status, a.SubmittedAt, a)
}

func (s *SubmissionsStore) ListCareers(ctx context.Context) ([]domain.CareerApplication, error) {
	return listPayloads[domain.CareerApplication](ctx, s.pool, domain.TypeCareer)
}

func (s *SubmissionsStore) AppendRegistration(ctx context.Context, r domain.EventRegistration) error {
	return s.insert(ctx, r.ID, domain.TypeEvent, r.Email, r.EventID, r.Status, r.RegisteredAt, r)
}

func (s *SubmissionsStore) RegistrationExists(ctx context.Context, eventID, email string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM submissions
			WHERE category = 'event' AND event_id = $1 AND email = $2
		)
	`
	var exists bool
	if err := s.pool.QueryRow(ctx, q, eventID, strings.ToLower(strings.TrimSpace(email))).Scan(&exists); err != nil {
		return false, fmt.Errorf("registration exists: %w", err)
	}
	return exists, nil
}

func (s *SubmissionsStore) ListRegistrations(ctx context.Context) ([]domain.EventRegistration, error) {
	return listPayloads[domain.EventRegistration](ctx, s.pool, domain.TypeEvent)
}

// UpdateStatus matches the flat-file scan semantics: only lead, contact and
// career records are updatable; event registrations keep their own
// lifecycle.
func (s *SubmissionsStore) UpdateStatus(ctx context.Context, id string, status domain.SubmissionStatus) (domain.Submission, error) {
	const q = `
		UPDATE submissions
		SET status = $2,
		    payload = jsonb_set(payload, '{status}', to_jsonb($2::text))
		WHERE id = $1 AND category IN ('lead', 'contact', 'career')
		RETURNING category, payload
	`
	var (
		category string
		payload  []byte
	)
	err := s.pool.QueryRow(ctx, q, id, string(status)).Scan(&category, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Submission{}, domain.ErrNotFound
		}
		return domain.Submission{}, fmt.Errorf("update status: %w", err)
	}

	switch domain.SubmissionType(category) {
	case domain.TypeLead:
		var l domain.Lead
		if err := json.Unmarshal(payload, &l); err != nil {
			return domain.Submission{}, fmt.Errorf("decode lead: %w", err)
		}
		return domain.SubmissionFromLead(l), nil
	case domain.TypeContact:
		var c domain.ContactSubmission
		if err := json.Unmarshal(payload, &c); err != nil {
			return domain.Submission{}, fmt.Errorf("decode contact: %w", err)
		}
		return domain.SubmissionFromContact(c), nil
	default:
		var a domain.CareerApplication
		if err := json.Unmarshal(payload, &a); err != nil {
			return domain.Submission{}, fmt.Errorf("decode career application: %w", err)
		}
		return domain.SubmissionFromCareer(a), nil
	}
}

func listPayloads[T any](ctx context.Context, pool *pgxpool.Pool, category domain.SubmissionType) ([]T, error) {
	const q = `
		SELECT payload FROM submissions
		WHERE category = $1
		ORDER BY submitted_at
	`
	rows, err := pool.Query(ctx, q, string(category))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", category, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan %s: %w", category, err)
		}
		var rec T
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", category, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", category, err)
	}
	return out, nil
}
