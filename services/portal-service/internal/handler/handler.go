// Package handler exposes the portal over HTTP/JSON.
package handler

import (
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/config"
	"github.com/raushkum4590/job-portal-sub000/services/portal-service/internal/usecase"
	"github.com/raushkum4590/job-portal-sub000/shared/cookie"
	"github.com/raushkum4590/job-portal-sub000/shared/validator"
)

// GoogleAuthorizer starts the Google authorization-code flow.
type GoogleAuthorizer interface {
	Enabled() bool
	AuthCodeURL(state, verifier string) string
	NewVerifier() string
}

// Dependencies are the collaborators of the HTTP layer.
type Dependencies struct {
	Auth          usecase.AuthUsecase
	PasswordReset usecase.PasswordResetUsecase
	Profiles      usecase.ProfileUsecase
	Jobs          usecase.JobUsecase
	Applications  usecase.ApplicationUsecase
	Google        GoogleAuthorizer
	Config        *config.PortalServiceConfig
	Logger        *zerolog.Logger
}

type Handler struct {
	auth          usecase.AuthUsecase
	passwordReset usecase.PasswordResetUsecase
	profiles      usecase.ProfileUsecase
	jobs          usecase.JobUsecase
	applications  usecase.ApplicationUsecase
	google        GoogleAuthorizer
	cookies       *cookie.Jar
	oauthStore    sessions.Store
	validator     *validator.Validator
	cfg           *config.PortalServiceConfig
	logger        *zerolog.Logger
}

// oauthStateMaxAge bounds how long a Google consent round trip may take.
const oauthStateMaxAge = 10 * time.Minute

func NewHandler(deps Dependencies) *Handler {
	production := deps.Config.Production()

	store := sessions.NewCookieStore([]byte(deps.Config.CookieSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(oauthStateMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   production,
		SameSite: http.SameSiteLaxMode,
	}

	return &Handler{
		auth:          deps.Auth,
		passwordReset: deps.PasswordReset,
		profiles:      deps.Profiles,
		jobs:          deps.Jobs,
		applications:  deps.Applications,
		google:        deps.Google,
		cookies:       cookie.NewJar(production),
		oauthStore:    store,
		validator:     validator.New(),
		cfg:           deps.Config,
		logger:        deps.Logger,
	}
}

// Routes builds the router with the full middleware stack.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(*h.logger))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	if len(h.cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   h.cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", cookie.CSRFHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}).Handler)
	}
	if h.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(h.cfg.RequestTimeout))
	}

	r.Get("/health", h.health)

	// Routes that start, replace or end a session never read the current
	// one, so a stale session cookie cannot fail them on the CSRF check.
	r.Route("/auth", func(r chi.Router) {
		r.Get("/csrf", h.csrf)
		r.Post("/signup", h.signUp)
		r.Post("/signin", h.signIn)
		r.Get("/signin/google", h.googleSignIn)
		r.Get("/callback/google", h.googleCallback)
		r.Post("/signout", h.signOut)
		r.With(h.authenticate, h.requireSession).Get("/session", h.session)

		r.Route("/password", func(r chi.Router) {
			r.Post("/forgot", h.requestPasswordReset)
			r.Get("/reset", h.validatePasswordResetToken)
			r.Post("/reset", h.resetPassword)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", h.listJobs)
			r.With(h.requireSession).Post("/", h.createJob)
			r.With(h.requireSession).Put("/", h.updateJob)
			r.With(h.requireSession).Delete("/", h.deleteJob)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getJob)
				r.With(h.requireSession).Put("/", h.updateJob)
				r.With(h.requireSession).Delete("/", h.deleteJob)

				r.Get("/apply", h.jobSummary)
				r.With(h.requireSession).Post("/apply", h.apply)

				r.With(h.requireSession).Get("/applications", h.listApplications)
				r.With(h.requireSession).Put("/applications", h.updateApplicationStatus)
			})
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(h.requireSession)

			r.Get("/me", h.me)
			r.Get("/applications", h.myApplications)
			r.Post("/select-role", h.selectRole)
			r.Post("/complete-employer-profile", h.completeEmployerProfile)
			r.Post("/complete-jobseeker-profile", h.completeJobSeekerProfile)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "portal-service"})
}
