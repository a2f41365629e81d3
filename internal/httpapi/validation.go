package httpapi

import (
	"net/mail"
	"strings"
)

func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// requireEmail records a field error when s is absent or malformed.
func requireEmail(fields map[string]string, key, s string) {
	if strings.TrimSpace(s) == "" {
		fields[key] = "required"
		return
	}
	if !validEmail(s) {
		fields[key] = "must be a valid email address"
	}
}

func requireNonEmpty(fields map[string]string, key, s string) {
	if strings.TrimSpace(s) == "" {
		fields[key] = "required"
	}
}

func requireMinLength(fields map[string]string, key, s string, min int) {
	if len(strings.TrimSpace(s)) < min {
		fields[key] = "too short"
	}
}
