package service

import (
	"log/slog"
	"time"

	"MeridianWebserver/internal/auth"
	"MeridianWebserver/internal/domain"
)

// AuthService guards the admin console with a single configured credential
// and time-bound signed tokens. Logout is client-side only: an unexpired
// token stays valid until its natural expiry.
type AuthService struct {
	// Exactly one of AdminPassword (plaintext, dev) or AdminPasswordHash
	// (argon2id PHC string, prod) is expected to be set.
	AdminPassword     string
	AdminPasswordHash string

	Codec  auth.TokenCodec
	Logger *slog.Logger
	Now    func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *AuthService) Login(password string) (string, error) {
	if !s.checkPassword(password) {
		return "", domain.ErrInvalidCredentials
	}
	return s.Codec.Issue(s.now()), nil
}

// Verify fails closed: any decode or parse problem is "unauthenticated",
// never an error.
func (s *AuthService) Verify(token string) bool {
	if token == "" {
		return false
	}
	return s.Codec.Verify(token, s.now())
}

func (s *AuthService) checkPassword(password string) bool {
	if s.AdminPasswordHash != "" {
		ok, err := auth.VerifyPassword(s.AdminPasswordHash, password)
		if err != nil {
			logger := s.Logger
			if logger == nil {
				logger = slog.Default()
			}
			logger.Error("admin password hash unusable", "err", err)
			return false
		}
		return ok
	}
	return auth.VerifyPlaintext(s.AdminPassword, password)
}
