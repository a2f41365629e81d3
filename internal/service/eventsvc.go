package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"MeridianWebserver/internal/domain"
)

type EventsCatalog interface {
	GetEvent(id string) (domain.Event, bool)
}

type RegistrationsStore interface {
	AppendRegistration(ctx context.Context, r domain.EventRegistration) error
	RegistrationExists(ctx context.Context, eventID, email string) (bool, error)
}

type EventsService struct {
	Catalog EventsCatalog
	Store   RegistrationsStore
	Logger  *slog.Logger
	Now     func() time.Time
}

type NewRegistration struct {
	EventID   string
	Email     string
	Name      string
	Company   string
	Phone     string
	Source    string
	IPAddress string
}

// RSVP registers for an event. Registrations are idempotent per
// (eventId, lowercased email): a repeat returns alreadyRegistered=true and
// writes nothing.
func (s *EventsService) RSVP(ctx context.Context, in NewRegistration) (reg domain.EventRegistration, alreadyRegistered bool, err error) {
	event, ok := s.Catalog.GetEvent(in.EventID)
	if !ok {
		return domain.EventRegistration{}, false, domain.ErrEventNotFound
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	if event.Date.Before(now) {
		return domain.EventRegistration{}, false, domain.ErrEventPast
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	exists, err := s.Store.RegistrationExists(ctx, in.EventID, email)
	if err != nil {
		return domain.EventRegistration{}, false, err
	}
	if exists {
		return domain.EventRegistration{}, true, nil
	}

	reg = domain.EventRegistration{
		ID:           newID("reg", now.UTC()),
		EventID:      in.EventID,
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Company:      strings.TrimSpace(in.Company),
		Phone:        strings.TrimSpace(in.Phone),
		Source:       strings.TrimSpace(in.Source),
		Status:       domain.StatusConfirmed,
		RegisteredAt: now.UTC(),
		IPAddress:    in.IPAddress,
	}
	if err := s.Store.AppendRegistration(ctx, reg); err != nil {
		logger := s.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("registration persist failed", "err", err, "registration_id", reg.ID)
	}
	return reg, false, nil
}

// StaticCatalog serves the event catalog loaded once at startup. Catalog
// content is marketing data maintained outside this service.
type StaticCatalog struct {
	events map[string]domain.Event
}

func NewStaticCatalog(events []domain.Event) *StaticCatalog {
	m := make(map[string]domain.Event, len(events))
	for _, e := range events {
		m[e.ID] = e
	}
	return &StaticCatalog{events: m}
}

// LoadStaticCatalog reads a JSON array of events. An empty path yields an
// empty catalog (every RSVP 404s).
func LoadStaticCatalog(path string) (*StaticCatalog, error) {
	if path == "" {
		return NewStaticCatalog(nil), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events file: %w", err)
	}
	var events []domain.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("parse events file: %w", err)
	}
	return NewStaticCatalog(events), nil
}

func (c *StaticCatalog) GetEvent(id string) (domain.Event, bool) {
	e, ok := c.events[id]
	return e, ok
}
