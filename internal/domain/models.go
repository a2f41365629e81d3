package domain

import "time"

type SubmissionStatus string

const (
	StatusNew       SubmissionStatus = "new"
	StatusProcessed SubmissionStatus = "processed"
	StatusArchived  SubmissionStatus = "archived"
	// StatusConfirmed is only used by event registrations.
	StatusConfirmed SubmissionStatus = "confirmed"
)

// ValidStatusUpdate reports whether s is acceptable for the admin
// status-update endpoint. Confirmed is set by the RSVP flow itself and is
// not reachable through updates.
func ValidStatusUpdate(s SubmissionStatus) bool {
	switch s {
	case StatusNew, StatusProcessed, StatusArchived:
		return true
	}
	return false
}

type Lead struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Name      string           `json:"name,omitempty"`
	Company   string           `json:"company,omitempty"`
	Phone     string           `json:"phone,omitempty"`
	Source    string           `json:"source,omitempty"`
	Interest  string           `json:"interest,omitempty"`
	Status    SubmissionStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	IPAddress string           `json:"ipAddress,omitempty"`
	PageURL   string           `json:"pageUrl,omitempty"`
}

type ContactSubmission struct {
	ID          string           `json:"id"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Email       string           `json:"email"`
	Company     string           `json:"company"`
	Phone       string           `json:"phone,omitempty"`
	Subject     string           `json:"subject"`
	Message     string           `json:"message"`
	Status      SubmissionStatus `json:"status"`
	SubmittedAt time.Time        `json:"submittedAt"`
	IPAddress   string           `json:"ipAddress,omitempty"`
	PageURL     string           `json:"pageUrl,omitempty"`
}

type CareerApplication struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone,omitempty"`
	Position    string           `json:"position"`
	CoverLetter string           `json:"coverLetter,omitempty"`
	ResumeURL   string           `json:"resumeUrl,omitempty"`
	Status      SubmissionStatus `json:"status"`
	SubmittedAt time.Time        `json:"submittedAt"`
	IPAddress   string           `json:"ipAddress,omitempty"`
}

type EventRegistration struct {
	ID           string           `json:"id"`
	EventID      string           `json:"eventId"`
	Email        string           `json:"email"`
	Name         string           `json:"name,omitempty"`
	Company      string           `json:"company,omitempty"`
	Phone        string           `json:"phone,omitempty"`
	Source       string           `json:"source,omitempty"`
	Status       SubmissionStatus `json:"status"`
	RegisteredAt time.Time        `json:"registeredAt"`
	IPAddress    string           `json:"ipAddress,omitempty"`
}

type SubmissionType string

const (
	TypeLead    SubmissionType = "lead"
	TypeContact SubmissionType = "contact"
	TypeCareer  SubmissionType = "career"
	TypeEvent   SubmissionType = "event"
)

// Submission is the shared envelope for the merged admin view. Record holds
// the full category-specific record.
type Submission struct {
	Type      SubmissionType   `json:"type"`
	ID        string           `json:"id"`
	Email     string           `json:"email,omitempty"`
	Status    SubmissionStatus `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Record    any              `json:"record"`
}

func SubmissionFromLead(l Lead) Submission {
	return Submission{Type: TypeLead, ID: l.ID, Email: l.Email, Status: l.Status, Timestamp: l.CreatedAt, Record: l}
}

func SubmissionFromContact(c ContactSubmission) Submission {
	return Submission{Type: TypeContact, ID: c.ID, Email: c.Email, Status: c.Status, Timestamp: c.SubmittedAt, Record: c}
}

func SubmissionFromCareer(a CareerApplication) Submission {
	return Submission{Type: TypeCareer, ID: a.ID, Email: a.Email, Status: a.Status, Timestamp: a.SubmittedAt, Record: a}
}

func SubmissionFromRegistration(r EventRegistration) Submission {
	return Submission{Type: TypeEvent, ID: r.ID, Email: r.Email, Status: r.Status, Timestamp: r.RegisteredAt, Record: r}
}

// Event is a catalog entry the RSVP flow validates against.
type Event struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Location string    `json:"location,omitempty"`
}

type Feature struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type EmailLogStatus string

const (
	EmailSent   EmailLogStatus = "sent"
	EmailFailed EmailLogStatus = "failed"
)

type EmailLogEntry struct {
	ID      string         `json:"id"`
	To      string         `json:"to"`
	Subject string         `json:"subject"`
	Status  EmailLogStatus `json:"status"`
	Error   string         `json:"error,omitempty"`
	SentAt  time.Time      `json:"sentAt"`
}

// WebVital is one browser performance beacon (LCP, CLS, INP, ...).
type WebVital struct {
	Name       string    `json:"name"`
	Value      float64   `json:"value"`
	Rating     string    `json:"rating,omitempty"`
	Page       string    `json:"page,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}
