package httpapi

import (
	"net/http"
	"strconv"

	"MeridianWebserver/internal/domain"
)

func (a *api) handleEmailLogsList(w http.ResponseWriter, r *http.Request) {
	status := domain.EmailLogStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.EmailSent, domain.EmailFailed:
	default:
		WriteDomainError(w, domain.NewValidationError(map[string]string{"status": "must be sent or failed"}))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			WriteDomainError(w, domain.NewValidationError(map[string]string{"limit": "must be a positive integer"}))
			return
		}
		limit = n
	}

	// Notifications are optional wiring; without them there is no log.
	if a.notifier == nil {
		WriteJSON(w, http.StatusOK, []domain.EmailLogEntry{})
		return
	}

	entries, err := a.notifier.ListEmailLogs(r.Context(), status, limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.EmailLogEntry{}
	}
	WriteJSON(w, http.StatusOK, entries)
}
