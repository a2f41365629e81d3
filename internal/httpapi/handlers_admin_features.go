package httpapi

import (
	"net/http"

	"MeridianWebserver/internal/domain"
	"MeridianWebserver/internal/service"
)

func (a *api) handleFeaturesList(w http.ResponseWriter, r *http.Request) {
	features, err := a.featuresSvc.List(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if features == nil {
		features = []domain.Feature{}
	}
	WriteJSON(w, http.StatusOK, features)
}

func (a *api) handleFeaturesGet(w http.ResponseWriter, r *http.Request) {
	f, err := a.featuresSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, f)
}

type featureCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

func (a *api) handleFeaturesCreate(w http.ResponseWriter, r *http.Request) {
	var req featureCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	f, err := a.featuresSvc.Create(r.Context(), req.Name, req.Description, req.Enabled)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, f)
}

type featurePatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Enabled     *bool   `json:"enabled"`
}

func (a *api) handleFeaturesUpdate(w http.ResponseWriter, r *http.Request) {
	var req featurePatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	f, err := a.featuresSvc.Update(r.Context(), r.PathValue("id"), service.FeaturePatch{
		Name:        req.Name,
		Description: req.Description,
		Enabled:     req.Enabled,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, f)
}

func (a *api) handleFeaturesDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.featuresSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
