package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTokenCodec_IssueAndVerify(t *testing.T) {
	codec := NewTokenCodec([]byte(strings.Repeat("x", 32)), 0)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	token := codec.Issue(issued)
	if !strings.Contains(token, ".") {
		t.Fatalf("expected signed token, got %q", token)
	}

	if !codec.Verify(token, issued.Add(23*time.Hour+59*time.Minute)) {
		t.Fatalf("token should verify just before expiry")
	}
	if codec.Verify(token, issued.Add(24*time.Hour+time.Minute)) {
		t.Fatalf("token should fail after expiry")
	}
}

func TestTokenCodec_ConfiguredTTL(t *testing.T) {
	codec := NewTokenCodec([]byte(strings.Repeat("x", 32)), time.Hour)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := codec.Issue(issued)

	if codec.TTL() != time.Hour {
		t.Fatalf("ttl: got %s", codec.TTL())
	}
	if !codec.Verify(token, issued.Add(59*time.Minute)) {
		t.Fatalf("token should verify within the configured window")
	}
	if codec.Verify(token, issued.Add(61*time.Minute)) {
		t.Fatalf("token should expire by the configured window, not the default")
	}

	// The cookie lifetime follows the same window.
	rr := httptest.NewRecorder()
	SetSessionCookie(rr, token, time.Hour, false)
	if c := rr.Result().Cookies()[0]; c.MaxAge != int(time.Hour.Seconds()) {
		t.Fatalf("cookie max age: got %d", c.MaxAge)
	}
}

func TestTokenCodec_Tampering(t *testing.T) {
	codec := NewTokenCodec([]byte(strings.Repeat("x", 32)), 0)
	now := time.Now()
	token := codec.Issue(now)

	if codec.Verify(token+"x", now) {
		t.Fatalf("tampered signature should fail")
	}

	// Fresh timestamp with a bogus signature must not pass.
	claim, _, _ := strings.Cut(token, ".")
	forged := claim + "." + strings.Repeat("A", 43)
	if codec.Verify(forged, now) {
		t.Fatalf("forged token should fail")
	}
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := NewTokenCodec([]byte("secret-secret-secret-secret-1234"), 0)
	now := time.Now()

	for _, token := range []string{"", "garbage", "abc.def", "123", "-5.sig", "999999999999999999999999.sig"} {
		if codec.Verify(token, now) {
			t.Errorf("token %q should fail verification", token)
		}
	}
}

func TestTokenCodec_UnsignedDevMode(t *testing.T) {
	codec := NewTokenCodec(nil, 0)
	now := time.Now()

	token := codec.Issue(now)
	if strings.Contains(token, ".") {
		t.Fatalf("expected bare claim without secret, got %q", token)
	}
	if !codec.Verify(token, now.Add(time.Hour)) {
		t.Fatalf("unsigned token should verify within ttl")
	}
	if codec.Verify("not-a-number", now) {
		t.Fatalf("malformed unsigned token should fail")
	}
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/admin/auth", nil)
	r.Header.Set("Authorization", "Bearer abc")
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})

	if got := TokenFromRequest(r); got != "abc" {
		t.Fatalf("bearer should win: got %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/admin/auth", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})
	if got := TokenFromRequest(r); got != "from-cookie" {
		t.Fatalf("cookie fallback: got %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/admin/auth", nil)
	if got := TokenFromRequest(r); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}

func TestSessionCookieHelpers(t *testing.T) {
	rr := httptest.NewRecorder()
	SetSessionCookie(rr, "v", 0, false)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != SessionCookieName || c.Path != "/" {
		t.Fatalf("unexpected cookie name/path: %s %s", c.Name, c.Path)
	}
	if !c.HttpOnly || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes")
	}
	if c.MaxAge != int(TokenTTL.Seconds()) {
		t.Fatalf("unexpected max age: %d", c.MaxAge)
	}

	rr = httptest.NewRecorder()
	ClearSessionCookie(rr, false)
	cookies = rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected clearing cookie with MaxAge=-1")
	}
}

func TestVerifyPlaintext(t *testing.T) {
	if !VerifyPlaintext("hunter2", "hunter2") {
		t.Fatalf("matching password rejected")
	}
	if VerifyPlaintext("hunter2", "hunter3") {
		t.Fatalf("wrong password accepted")
	}
	if VerifyPlaintext("", "") {
		t.Fatalf("empty configured password must never match")
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil || !ok {
		t.Fatalf("expected verify ok, got ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword(hash, "wrong")
	if err != nil || ok {
		t.Fatalf("expected verify false, got ok=%v err=%v", ok, err)
	}

	if _, err := VerifyPassword("not-a-hash", "x"); err == nil {
		t.Fatalf("expected parse error for malformed hash")
	}
}
