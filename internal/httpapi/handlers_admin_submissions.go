package httpapi

import (
	"net/http"

	"MeridianWebserver/internal/domain"
)

func (a *api) handleSubmissionsList(w http.ResponseWriter, r *http.Request) {
	submissions, err := a.submissionsSvc.ListAll(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if submissions == nil {
		submissions = []domain.Submission{}
	}
	WriteJSON(w, http.StatusOK, submissions)
}

func (a *api) handleSubmissionsGet(w http.ResponseWriter, r *http.Request) {
	sub, err := a.submissionsSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sub)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (a *api) handleSubmissionStatusUpdate(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	sub, err := a.submissionsSvc.UpdateStatus(r.Context(), r.PathValue("id"), domain.SubmissionStatus(req.Status))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sub)
}
