package httpapi

import (
	"net/http"

	"MeridianWebserver/internal/domain"
	"MeridianWebserver/internal/ratelimit"
	"MeridianWebserver/internal/service"
)

type rsvpRequest struct {
	EventID string `json:"eventId"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Source  string `json:"source"`
}

type rsvpResponse struct {
	Success           bool   `json:"success"`
	RegistrationID    string `json:"registrationId,omitempty"`
	AlreadyRegistered bool   `json:"alreadyRegistered,omitempty"`
}

func (a *api) handleEventRSVP(w http.ResponseWriter, r *http.Request) {
	if !a.admit(w, r, "rsvp", ratelimit.RSVPPolicy) {
		return
	}

	var req rsvpRequest
	if err := decodeJSONAllowUnknownFields(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	fields := map[string]string{}
	requireNonEmpty(fields, "eventId", req.EventID)
	requireEmail(fields, "email", req.Email)
	if len(fields) > 0 {
		WriteDomainError(w, domain.NewValidationError(fields))
		return
	}

	reg, alreadyRegistered, err := a.eventsSvc.RSVP(r.Context(), service.NewRegistration{
		EventID:   req.EventID,
		Email:     req.Email,
		Name:      req.Name,
		Company:   req.Company,
		Phone:     req.Phone,
		Source:    req.Source,
		IPAddress: clientIdentifier(r),
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if alreadyRegistered {
		WriteJSON(w, http.StatusOK, rsvpResponse{Success: true, AlreadyRegistered: true})
		return
	}

	a.notifyAsync(domain.SubmissionFromRegistration(reg))
	WriteJSON(w, http.StatusOK, rsvpResponse{Success: true, RegistrationID: reg.ID})
}
