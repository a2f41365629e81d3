// Package flatfile persists site data as one JSON array file per category
// under the data directory. It is the default store; deployments that set
// APP_DB_DSN use the postgres store for submissions instead.
package flatfile

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"MeridianWebserver/internal/domain"
)

// WebVitalsCap bounds web-vitals.json to the most recent entries.
const WebVitalsCap = 10000

type Store struct {
	leads         *Collection[domain.Lead]
	contacts      *Collection[domain.ContactSubmission]
	careers       *Collection[domain.CareerApplication]
	registrations *Collection[domain.EventRegistration]
	features      *Collection[domain.Feature]
	emailLogs     *Collection[domain.EmailLogEntry]
	vitals        *Collection[domain.WebVital]
}

func New(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		leads:         NewCollection[domain.Lead](filepath.Join(dir, "leads.json"), logger),
		contacts:      NewCollection[domain.ContactSubmission](filepath.Join(dir, "contact-submissions.json"), logger),
		careers:       NewCollection[domain.CareerApplication](filepath.Join(dir, "career-applications.json"), logger),
		registrations: NewCollection[domain.EventRegistration](filepath.Join(dir, "event-registrations.json"), logger),
		features:      NewCollection[domain.Feature](filepath.Join(dir, "features.json"), logger),
		emailLogs:     NewCollection[domain.EmailLogEntry](filepath.Join(dir, "email-logs.json"), logger),
		vitals:        NewCollection[domain.WebVital](filepath.Join(dir, "web-vitals.json"), logger),
	}
}

func (s *Store) AppendLead(ctx context.Context, l domain.Lead) error {
	return s.leads.Append(ctx, l)
}

func (s *Store) LeadByEmail(ctx context.Context, email string) (domain.Lead, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	leads, err := s.leads.ReadAll(ctx)
	if err != nil {
		return domain.Lead{}, false, err
	}
	for _, l := range leads {
		if strings.ToLower(l.Email) == email {
			return l, true, nil
		}
	}
	return domain.Lead{}, false, nil
}

func (s *Store) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	return s.leads.ReadAll(ctx)
}

func (s *Store) AppendContact(ctx context.Context, c domain.ContactSubmission) error {
	return s.contacts.Append(ctx, c)
}

func (s *Store) ListContacts(ctx context.Context) ([]domain.ContactSubmission, error) {
	return s.contacts.ReadAll(ctx)
}

func (s *Store) AppendCareer(ctx context.Context, a domain.CareerApplication) error {
	return s.careers.Append(ctx, a)
}

func (s *Store) ListCareers(ctx context.Context) ([]domain.CareerApplication, error) {
	return s.careers.ReadAll(ctx)
}

func (s *Store) AppendRegistration(ctx context.Context, r domain.EventRegistration) error {
	return s.registrations.Append(ctx, r)
}

func (s *Store) RegistrationExists(ctx context.Context, eventID, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	regs, err := s.registrations.ReadAll(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range regs {
		if r.EventID == eventID && strings.ToLower(r.Email) == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListRegistrations(ctx context.Context) ([]domain.EventRegistration, error) {
	return s.registrations.ReadAll(ctx)
}

// UpdateStatus scans leads, then contacts, then career applications, and
// rewrites only the file owning the first record whose id matches. Category
// id prefixes keep ids from colliding across files.
func (s *Store) UpdateStatus(ctx context.Context, id string, status domain.SubmissionStatus) (domain.Submission, error) {
	var updatedLead domain.Lead
	changed, err := s.leads.Update(ctx, func(leads []domain.Lead) ([]domain.Lead, bool) {
		for i := range leads {
			if leads[i].ID == id {
				leads[i].Status = status
				updatedLead = leads[i]
				return leads, true
			}
		}
		return leads, false
	})
	if err != nil {
		return domain.Submission{}, err
	}
	if changed {
		return domain.SubmissionFromLead(updatedLead), nil
	}

	var updatedContact domain.ContactSubmission
	changed, err = s.contacts.Update(ctx, func(contacts []domain.ContactSubmission) ([]domain.ContactSubmission, bool) {
		for i := range contacts {
			if contacts[i].ID == id {
				contacts[i].Status = status
				updatedContact = contacts[i]
				return contacts, true
			}
		}
		return contacts, false
	})
	if err != nil {
		return domain.Submission{}, err
	}
	if changed {
		return domain.SubmissionFromContact(updatedContact), nil
	}

	var updatedCareer domain.CareerApplication
	changed, err = s.careers.Update(ctx, func(apps []domain.CareerApplication) ([]domain.CareerApplication, bool) {
		for i := range apps {
			if apps[i].ID == id {
				apps[i].Status = status
				updatedCareer = apps[i]
				return apps, true
			}
		}
		return apps, false
	})
	if err != nil {
		return domain.Submission{}, err
	}
	if changed {
		return domain.SubmissionFromCareer(updatedCareer), nil
	}

	return domain.Submission{}, domain.ErrNotFound
}

func (s *Store) ListFeatures(ctx context.Context) ([]domain.Feature, error) {
	return s.features.ReadAll(ctx)
}

func (s *Store) GetFeature(ctx context.Context, id string) (domain.Feature, error) {
	features, err := s.features.ReadAll(ctx)
	if err != nil {
		return domain.Feature{}, err
	}
	for _, f := range features {
		if f.ID == id {
			return f, nil
		}
	}
	return domain.Feature{}, domain.ErrNotFound
}

func (s *Store) CreateFeature(ctx context.Context, f domain.Feature) error {
	return s.features.Append(ctx, f)
}

func (s *Store) UpdateFeature(ctx context.Context, f domain.Feature) error {
	changed, err := s.features.Update(ctx, func(features []domain.Feature) ([]domain.Feature, bool) {
		for i := range features {
			if features[i].ID == f.ID {
				features[i] = f
				return features, true
			}
		}
		return features, false
	})
	if err != nil {
		return err
	}
	if !changed {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteFeature(ctx context.Context, id string) error {
	changed, err := s.features.Update(ctx, func(features []domain.Feature) ([]domain.Feature, bool) {
		for i := range features {
			if features[i].ID == id {
				return append(features[:i], features[i+1:]...), true
			}
		}
		return features, false
	})
	if err != nil {
		return err
	}
	if !changed {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) AppendEmailLog(ctx context.Context, entry domain.EmailLogEntry) error {
	return s.emailLogs.Append(ctx, entry)
}

func (s *Store) ListEmailLogs(ctx context.Context) ([]domain.EmailLogEntry, error) {
	return s.emailLogs.ReadAll(ctx)
}

// AppendWebVital keeps only the most recent WebVitalsCap entries.
func (s *Store) AppendWebVital(ctx context.Context, v domain.WebVital) error {
	_, err := s.vitals.Update(ctx, func(vitals []domain.WebVital) ([]domain.WebVital, bool) {
		vitals = append(vitals, v)
		if len(vitals) > WebVitalsCap {
			vitals = vitals[len(vitals)-WebVitalsCap:]
		}
		return vitals, true
	})
	return err
}

func (s *Store) ListWebVitals(ctx context.Context) ([]domain.WebVital, error) {
	return s.vitals.ReadAll(ctx)
}
