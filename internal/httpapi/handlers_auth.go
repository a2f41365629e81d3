package httpapi

import (
	"net/http"

	"MeridianWebserver/internal/auth"
)

type adminLoginRequest struct {
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

func (a *api) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	token, err := a.authSvc.Login(req.Password)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	// The token goes out both ways: response body for clients that keep it
	// themselves, cookie for browser sessions.
	auth.SetSessionCookie(w, token, a.authSvc.Codec.TTL(), a.cookieSecure)
	WriteJSON(w, http.StatusOK, adminLoginResponse{Success: true, Token: token})
}

type authCheckResponse struct {
	Authenticated bool `json:"authenticated"`
}

func (a *api) handleAdminAuthCheck(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)
	if token == "" || !a.authSvc.Verify(token) {
		WriteJSON(w, http.StatusUnauthorized, authCheckResponse{Authenticated: false})
		return
	}
	WriteJSON(w, http.StatusOK, authCheckResponse{Authenticated: true})
}

func (a *api) handleAdminLogout(w http.ResponseWriter, _ *http.Request) {
	// Client-side only: a still-unexpired token presented as a bearer
	// header keeps working until it ages out.
	auth.ClearSessionCookie(w, a.cookieSecure)
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
