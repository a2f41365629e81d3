package httpapi

import (
	"net/http"

	"MeridianWebserver/internal/domain"
	"MeridianWebserver/internal/ratelimit"
	"MeridianWebserver/internal/service"
)

type contactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	PageURL   string `json:"pageUrl"`
}

type submissionCreatedResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

func (a *api) handleContact(w http.ResponseWriter, r *http.Request) {
	if !a.admit(w, r, "contact", ratelimit.ContactPolicy) {
		return
	}

	var req contactRequest
	if err := decodeJSONAllowUnknownFields(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	fields := map[string]string{}
	requireNonEmpty(fields, "firstName", req.FirstName)
	requireNonEmpty(fields, "lastName", req.LastName)
	requireEmail(fields, "email", req.Email)
	requireNonEmpty(fields, "company", req.Company)
	requireNonEmpty(fields, "subject", req.Subject)
	requireMinLength(fields, "message", req.Message, 10)
	if len(fields) > 0 {
		WriteDomainError(w, domain.NewValidationError(fields))
		return
	}

	c, err := a.submissionsSvc.CreateContact(r.Context(), service.NewContact{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Company:   req.Company,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		IPAddress: clientIdentifier(r),
		PageURL:   req.PageURL,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	a.notifyAsync(domain.SubmissionFromContact(c))
	WriteJSON(w, http.StatusOK, submissionCreatedResponse{Success: true, ID: c.ID})
}

type leadRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Company  string `json:"company"`
	Phone    string `json:"phone"`
	Source   string `json:"source"`
	Interest string `json:"interest"`
	PageURL  string `json:"pageUrl"`
}

type leadCreatedResponse struct {
	Success    bool   `json:"success"`
	ID         string `json:"id"`
	IsExisting bool   `json:"isExisting,omitempty"`
}

func (a *api) handleLead(w http.ResponseWriter, r *http.Request) {
	if !a.admit(w, r, "lead", ratelimit.LeadPolicy) {
		return
	}

	var req leadRequest
	if err := decodeJSONAllowUnknownFields(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	fields := map[string]string{}
	requireEmail(fields, "email", req.Email)
	if len(fields) > 0 {
		WriteDomainError(w, domain.NewValidationError(fields))
		return
	}

	lead, isExisting, err := a.submissionsSvc.CreateLead(r.Context(), service.NewLead{
		Email:     req.Email,
		Name:      req.Name,
		Company:   req.Company,
		Phone:     req.Phone,
		Source:    req.Source,
		Interest:  req.Interest,
		IPAddress: clientIdentifier(r),
		PageURL:   req.PageURL,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	if !isExisting {
		a.notifyAsync(domain.SubmissionFromLead(lead))
	}
	WriteJSON(w, http.StatusOK, leadCreatedResponse{Success: true, ID: lead.ID, IsExisting: isExisting})
}

type careerApplyRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Position    string `json:"position"`
	CoverLetter string `json:"coverLetter"`
	ResumeURL   string `json:"resumeUrl"`
}

func (a *api) handleCareerApply(w http.ResponseWriter, r *http.Request) {
	if !a.admit(w, r, "career", ratelimit.ContactPolicy) {
		return
	}

	var req careerApplyRequest
	if err := decodeJSONAllowUnknownFields(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	fields := map[string]string{}
	requireNonEmpty(fields, "name", req.Name)
	requireEmail(fields, "email", req.Email)
	requireNonEmpty(fields, "position", req.Position)
	if len(fields) > 0 {
		WriteDomainError(w, domain.NewValidationError(fields))
		return
	}

	app, err := a.submissionsSvc.CreateCareerApplication(r.Context(), service.NewCareerApplication{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Position:    req.Position,
		CoverLetter: req.CoverLetter,
		ResumeURL:   req.ResumeURL,
		IPAddress:   clientIdentifier(r),
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	a.notifyAsync(domain.SubmissionFromCareer(app))
	WriteJSON(w, http.StatusOK, submissionCreatedResponse{Success: true, ID: app.ID})
}

// notifyAsync fires the email side effect after the response is already
// decided; its outcome never reaches the submitter.
func (a *api) notifyAsync(sub domain.Submission) {
	if a.notifier == nil {
		return
	}
	go a.notifier.NotifySubmission(sub)
}
