package httpapi

import (
	"net/http"

	"MeridianWebserver/internal/auth"
	"MeridianWebserver/internal/domain"
)

// requireAdmin guards the admin console endpoints. Token lookup prefers the
// bearer header over the session cookie; any verification problem is a 401,
// never a 500.
func (a *api) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromRequest(r)
		if token == "" || a.authSvc == nil || !a.authSvc.Verify(token) {
			WriteDomainError(w, domain.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
}
