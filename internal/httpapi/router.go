package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"MeridianWebserver/internal/ratelimit"
	"MeridianWebserver/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Auth        *service.AuthService
	Submissions *service.SubmissionsService
	Events      *service.EventsService
	Features    *service.FeaturesService
	Notifier    *service.NotificationService
	Vitals      *service.VitalsService

	CookieSecure bool
	Limiter      *ratelimit.Limiter
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.New()
	}

	a := &api{
		logger:         logger,
		isProd:         opts.IsProd,
		dbPing:         opts.DBPing,
		authSvc:        opts.Auth,
		submissionsSvc: opts.Submissions,
		eventsSvc:      opts.Events,
		featuresSvc:    opts.Features,
		notifier:       opts.Notifier,
		vitalsSvc:      opts.Vitals,
		cookieSecure:   opts.CookieSecure,
		limiter:        limiter,
	}

	publicMux := http.NewServeMux()
	apiMux := http.NewServeMux()

	publicMux.HandleFunc("GET /", a.handleHome)
	publicMux.HandleFunc("GET /healthz", a.handleHealthz)

	apiMux.HandleFunc("POST /api/admin/auth", a.handleAdminLogin)
	apiMux.HandleFunc("GET /api/admin/auth", a.handleAdminAuthCheck)
	apiMux.HandleFunc("DELETE /api/admin/auth", a.handleAdminLogout)

	apiMux.HandleFunc("POST /api/contact", a.handleContact)
	apiMux.HandleFunc("POST /api/lead", a.handleLead)
	apiMux.HandleFunc("POST /api/events/rsvp", a.handleEventRSVP)
	apiMux.HandleFunc("POST /api/careers/apply", a.handleCareerApply)
	apiMux.HandleFunc("POST /api/web-vitals", a.handleWebVitals)

	apiMux.HandleFunc("GET /api/admin/submissions", a.requireAdmin(a.handleSubmissionsList))
	apiMux.HandleFunc("GET /api/admin/submissions/{id}", a.requireAdmin(a.handleSubmissionsGet))
	apiMux.HandleFunc("PUT /api/admin/submissions/{id}/status", a.requireAdmin(a.handleSubmissionStatusUpdate))

	apiMux.HandleFunc("GET /api/admin/features", a.requireAdmin(a.handleFeaturesList))
	apiMux.HandleFunc("POST /api/admin/features", a.requireAdmin(a.handleFeaturesCreate))
	apiMux.HandleFunc("GET /api/admin/features/{id}", a.requireAdmin(a.handleFeaturesGet))
	apiMux.HandleFunc("PATCH /api/admin/features/{id}", a.requireAdmin(a.handleFeaturesUpdate))
	apiMux.HandleFunc("DELETE /api/admin/features/{id}", a.requireAdmin(a.handleFeaturesDelete))

	apiMux.HandleFunc("GET /api/admin/email-logs", a.requireAdmin(a.handleEmailLogsList))

	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := apiMux.Handler(r)
		if pattern == "" {
			WriteError(w, http.StatusNotFound, "not_found", "not found")
			return
		}
		h.ServeHTTP(w, r)
	})

	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/api" {
			apiHandler.ServeHTTP(w, r)
			return
		}
		publicMux.ServeHTTP(w, r)
	})

	var h http.Handler = root
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error

	authSvc        *service.AuthService
	submissionsSvc *service.SubmissionsService
	eventsSvc      *service.EventsService
	featuresSvc    *service.FeaturesService
	notifier       *service.NotificationService
	vitalsSvc      *service.VitalsService

	cookieSecure bool
	limiter      *ratelimit.Limiter
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}

func (a *api) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Meridian Systems</title></head>
<body><h1>Meridian Systems</h1><p>Site API backend. The marketing frontend is served separately.</p></body>
</html>
`))
}
