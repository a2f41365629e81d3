package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"MeridianWebserver/internal/ratelimit"
)

// unknownClient is the shared bucket for requests with no forwarding
// headers. Direct, un-proxied clients all land here; that tradeoff is
// intentional, the limiter is advisory.
const unknownClient = "unknown"

// clientIdentifier derives the rate-limit key from forwarding headers set
// by the CDN or reverse proxy in front of this service.
func clientIdentifier(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	return unknownClient
}

type rateLimitedResponse struct {
	Success           bool   `json:"success"`
	Error             string `json:"error"`
	RetryAfterSeconds int    `json:"retryAfterSeconds"`
}

// admit runs the rate check for one endpoint scope and writes the 429 when
// the client is over quota. Returns false when the request was already
// answered.
func (a *api) admit(w http.ResponseWriter, r *http.Request, scope string, policy ratelimit.Policy) bool {
	d := a.limiter.Check(scope+":"+clientIdentifier(r), policy)

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetTime.UnixMilli(), 10))

	if d.Allowed {
		return true
	}

	retrySecs := int(d.RetryAfter.Seconds())
	w.Header().Set("Retry-After", strconv.Itoa(retrySecs))
	WriteJSON(w, http.StatusTooManyRequests, rateLimitedResponse{
		Error:             "too many requests",
		RetryAfterSeconds: retrySecs,
	})
	return false
}
