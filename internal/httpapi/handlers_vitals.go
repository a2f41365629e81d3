package httpapi

import (
	"net/http"

	"MeridianWebserver/internal/ratelimit"
	"MeridianWebserver/internal/service"
)

type webVitalRequest struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Rating string  `json:"rating"`
	Page   string  `json:"page"`
}

func (a *api) handleWebVitals(w http.ResponseWriter, r *http.Request) {
	if !a.admit(w, r, "vitals", ratelimit.VitalsPolicy) {
		return
	}

	var req webVitalRequest
	if err := decodeJSONAllowUnknownFields(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	err := a.vitalsSvc.Record(r.Context(), service.NewWebVital{
		Name:   req.Name,
		Value:  req.Value,
		Rating: req.Rating,
		Page:   req.Page,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
