package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"MeridianWebserver/internal/auth"
	"MeridianWebserver/internal/config"
	"MeridianWebserver/internal/email"
	"MeridianWebserver/internal/httpapi"
	"MeridianWebserver/internal/ratelimit"
	"MeridianWebserver/internal/service"
	"MeridianWebserver/internal/store/flatfile"
	"MeridianWebserver/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	files := flatfile.New(cfg.DataDir, logger)

	// The flat-file store is the default; a configured DSN moves the
	// submission categories into Postgres. Features, email logs and web
	// vitals stay on disk either way.
	var (
		submissionsStore service.SubmissionsStore = files
		registrations    service.RegistrationsStore = files
		dbPing           func(context.Context) error
	)
	if cfg.DBDSN != "" {
		pgPool, err := postgres.Open(context.Background(), cfg.DBDSN)
		if err != nil {
			logger.Error("db open failed", "err", err)
			os.Exit(1)
		}
		defer pgPool.Close()

		pgStore := postgres.NewSubmissionsStore(pgPool)
		submissionsStore = pgStore
		registrations = pgStore
		dbPing = pgPool.Ping
	}

	catalog, err := service.LoadStaticCatalog(cfg.EventsFile)
	if err != nil {
		logger.Error("events catalog load failed", "err", err)
		os.Exit(1)
	}

	var sender service.EmailSender
	if cfg.SMTP.Configured() {
		sender = &email.Sender{Settings: email.Settings{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			TLSMode:  cfg.SMTP.TLSMode,
		}}
		logger.Info("submission notifications enabled", "to", cfg.NotifyEmail)
	} else {
		logger.Info("submission notifications disabled: APP_SMTP_HOST not set")
	}

	notifier := &service.NotificationService{
		Sender:    sender,
		Log:       files,
		Logger:    logger,
		To:        cfg.NotifyEmail,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	}

	router := httpapi.NewRouter(httpapi.RouterOpts{
		Logger: logger,
		IsProd: cfg.IsProd(),
		DBPing: dbPing,
		Auth: &service.AuthService{
			AdminPassword:     cfg.AdminPassword,
			AdminPasswordHash: cfg.AdminPasswordHash,
			Codec:             auth.NewTokenCodec([]byte(cfg.SessionSecret), cfg.SessionTTL),
			Logger:            logger,
		},
		Submissions: &service.SubmissionsService{Store: submissionsStore, Logger: logger},
		Events:      &service.EventsService{Catalog: catalog, Store: registrations, Logger: logger},
		Features:    &service.FeaturesService{Store: files},
		Notifier:    notifier,
		Vitals:      &service.VitalsService{Store: files, Logger: logger},

		CookieSecure: cfg.CookieSecure(),
		Limiter:      ratelimit.New(),
	})

	root := http.Handler(router)
	if cfg.BasePath != "" {
		root = http.StripPrefix(cfg.BasePath, router)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
