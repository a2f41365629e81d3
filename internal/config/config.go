package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DevAdminPassword is the fallback admin console password outside prod.
// Prod refuses to start without APP_ADMIN_PASSWORD_HASH.
const DevAdminPassword = "meridian-dev-admin"

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	TLSMode   string
}

func (s SMTPConfig) Configured() bool { return s.Host != "" }

type Config struct {
	Env       string
	Addr      string
	PublicURL *url.URL
	BasePath  string
	DataDir   string
	DBDSN     string
	LogLevel  string

	AdminPassword     string
	AdminPasswordHash string
	SessionSecret     string
	SessionTTL        time.Duration

	EventsFile  string
	NotifyEmail string
	SMTP        SMTPConfig
}

func Load() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := loadDotEnvFile(".env", os.Setenv, os.Getenv); err != nil {
			return Config{}, err
		}
	}
	return LoadFromEnv(os.Getenv)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:               getenv("APP_ENV"),
		Addr:              getenv("APP_ADDR"),
		BasePath:          strings.TrimSpace(getenv("APP_BASE_PATH")),
		DataDir:           getenv("APP_DATA_DIR"),
		DBDSN:             getenv("APP_DB_DSN"),
		LogLevel:          getenv("APP_LOG_LEVEL"),
		AdminPassword:     getenv("APP_ADMIN_PASSWORD"),
		AdminPasswordHash: getenv("APP_ADMIN_PASSWORD_HASH"),
		SessionSecret:     getenv("APP_SESSION_SECRET"),
		EventsFile:        getenv("APP_EVENTS_FILE"),
		NotifyEmail:       strings.TrimSpace(strings.ToLower(getenv("APP_NOTIFY_EMAIL"))),
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.BasePath != "" && !strings.HasPrefix(cfg.BasePath, "/") {
		return Config{}, errors.New("APP_BASE_PATH: must start with /")
	}
	cfg.BasePath = strings.TrimSuffix(cfg.BasePath, "/")

	publicURLRaw := getenv("APP_PUBLIC_URL")
	if publicURLRaw != "" {
		parsed, err := url.Parse(publicURLRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_PUBLIC_URL: %w", err)
		}
		if !parsed.IsAbs() || parsed.Host == "" {
			return Config{}, errors.New("APP_PUBLIC_URL: must be an absolute URL")
		}
		switch parsed.Scheme {
		case "http", "https":
		default:
			return Config{}, errors.New("APP_PUBLIC_URL: scheme must be http or https")
		}
		cfg.PublicURL = parsed
	}

	ttlRaw := getenv("APP_SESSION_TTL")
	if ttlRaw == "" {
		cfg.SessionTTL = 24 * time.Hour
	} else {
		ttl, err := time.ParseDuration(ttlRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_SESSION_TTL: %w", err)
		}
		if ttl <= 0 {
			return Config{}, errors.New("APP_SESSION_TTL: must be > 0")
		}
		cfg.SessionTTL = ttl
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	smtp, err := loadSMTP(getenv)
	if err != nil {
		return Config{}, err
	}
	cfg.SMTP = smtp

	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" && !cfg.IsProd() {
		cfg.AdminPassword = DevAdminPassword
	}

	if cfg.IsProd() {
		if cfg.AdminPasswordHash == "" {
			return Config{}, errors.New("APP_ADMIN_PASSWORD_HASH: required in prod")
		}
		if cfg.AdminPassword != "" {
			return Config{}, errors.New("APP_ADMIN_PASSWORD: plaintext admin password not allowed in prod")
		}
		if len(cfg.SessionSecret) < 32 {
			return Config{}, errors.New("APP_SESSION_SECRET: must be at least 32 bytes in prod")
		}
	}

	return cfg, nil
}

func loadSMTP(getenv func(string) string) (SMTPConfig, error) {
	smtp := SMTPConfig{
		Host:      getenv("APP_SMTP_HOST"),
		Username:  getenv("APP_SMTP_USERNAME"),
		Password:  getenv("APP_SMTP_PASSWORD"),
		FromName:  getenv("APP_SMTP_FROM_NAME"),
		FromEmail: getenv("APP_SMTP_FROM_EMAIL"),
		TLSMode:   getenv("APP_SMTP_TLS_MODE"),
	}
	if smtp.Host == "" {
		return smtp, nil
	}

	portRaw := getenv("APP_SMTP_PORT")
	if portRaw == "" {
		smtp.Port = 587
	} else {
		port, err := strconv.Atoi(portRaw)
		if err != nil || port <= 0 || port > 65535 {
			return SMTPConfig{}, errors.New("APP_SMTP_PORT: must be a valid port number")
		}
		smtp.Port = port
	}
	if smtp.FromEmail == "" {
		return SMTPConfig{}, errors.New("APP_SMTP_FROM_EMAIL: required when APP_SMTP_HOST is set")
	}
	switch smtp.TLSMode {
	case "", "starttls", "tls", "none":
	default:
		return SMTPConfig{}, errors.New("APP_SMTP_TLS_MODE: must be one of starttls, tls, none")
	}
	return smtp, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }

func (c Config) CookieSecure() bool {
	if c.PublicURL != nil {
		return c.PublicURL.Scheme == "https"
	}
	return c.IsProd()
}

// loadDotEnvFile applies KEY=VALUE lines from path without overriding
// variables already present in the environment. Lines may use an optional
// `export ` prefix and single or double quotes; malformed or empty-value
// lines are skipped.
func loadDotEnvFile(path string, setenv func(string, string) error, getenv func(string) string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		if getenv(key) != "" {
			continue
		}
		if err := setenv(key, value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}
