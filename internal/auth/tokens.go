package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const SessionCookieName = "meridian_admin_session"

// TokenTTL is the default validity window for issued admin tokens. There is
// no server-side revocation; logout only clears the client's cookie.
const TokenTTL = 24 * time.Hour

// TokenCodec issues and verifies admin session tokens of the form
// "<epochMillis>.<base64url hmac-sha256(epochMillis)>". The issue timestamp
// is the claim; the signature binds it to the server secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec builds a codec with the given validity window; a
// non-positive ttl falls back to TokenTTL.
func NewTokenCodec(secret []byte, ttl time.Duration) TokenCodec {
	if ttl <= 0 {
		ttl = TokenTTL
	}
	secretCopy := make([]byte, len(secret))
	copy(secretCopy, secret)
	return TokenCodec{secret: secretCopy, ttl: ttl}
}

// TTL reports the codec's validity window, for callers that must keep the
// cookie lifetime in step with token verification.
func (c TokenCodec) TTL() time.Duration {
	return c.ttl
}

func (c TokenCodec) Issue(now time.Time) string {
	claim := strconv.FormatInt(now.UnixMilli(), 10)
	if len(c.secret) == 0 {
		return claim
	}
	return claim + "." + base64.RawURLEncoding.EncodeToString(c.sign(claim))
}

// Verify reports whether token carries a valid signature and was issued
// within the codec's validity window. Malformed tokens fail closed.
func (c TokenCodec) Verify(token string, now time.Time) bool {
	claim := token
	if len(c.secret) > 0 {
		var sigB64 string
		var ok bool
		claim, sigB64, ok = strings.Cut(token, ".")
		if !ok || claim == "" || sigB64 == "" {
			return false
		}
		sig, err := base64.RawURLEncoding.DecodeString(sigB64)
		if err != nil || len(sig) != sha256.Size {
			return false
		}
		if subtle.ConstantTimeCompare(sig, c.sign(claim)) != 1 {
			return false
		}
	}

	millis, err := strconv.ParseInt(claim, 10, 64)
	if err != nil || millis <= 0 {
		return false
	}
	age := now.Sub(time.UnixMilli(millis))
	return age >= 0 && age < c.ttl
}

func (c TokenCodec) sign(claim string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	_, _ = mac.Write([]byte(claim))
	return mac.Sum(nil)
}

// TokenFromRequest extracts the admin token, preferring the Authorization
// bearer header over the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// SetSessionCookie scopes the cookie to the root path so it survives
// base-path prefixing in fronting proxies. The cookie lifetime must match
// the issuing codec's window; a non-positive ttl falls back to TokenTTL.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	if ttl <= 0 {
		ttl = TokenTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
