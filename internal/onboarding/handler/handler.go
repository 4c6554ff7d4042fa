package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"neuroaccess/internal/dispatch"
	"neuroaccess/internal/onboarding/models"
	"neuroaccess/internal/platform/middleware"
	id "neuroaccess/pkg/domain"
	dErrors "neuroaccess/pkg/domain-errors"
	"neuroaccess/pkg/platform/httputil"
	"neuroaccess/pkg/platform/middleware/admin"
	"neuroaccess/pkg/platform/middleware/metadata"
	"neuroaccess/pkg/platform/middleware/requesttime"
)

const (
	maxBodyBytes       = 1 << 20
	healthCheckTimeout = 2 * time.Second
)

// Dispatcher selects and runs the authenticator for an application.
type Dispatcher interface {
	FindBest(app *models.IdentityApplication) (dispatch.Authenticator, id.Grade, error)
	Validate(ctx context.Context, app *models.IdentityApplication) (string, error)
}

// Onboarding is the authenticator surface exposed over HTTP.
type Onboarding interface {
	IsValid(ctx context.Context, claims []models.Claim, nrPhotos int) models.Result
	Reload(ctx context.Context) error
	UpdateOnboardingDomain(ctx context.Context, domain string) error
	OnboardingDomain() string
}

// RateLimiter wraps routes with a per-client limit.
type RateLimiter interface {
	PerClientIP(class string) func(http.Handler) http.Handler
}

// rateLimitClass groups the application routes under one client budget.
const rateLimitClass = "applications"

// Handler serves the application grading and validation routes plus the
// onboarding admin routes.
type Handler struct {
	dispatcher Dispatcher
	onboarding Onboarding
	logger     *slog.Logger
	latency    middleware.LatencyObserver
	adminToken string
	timeout    time.Duration
	limiter    RateLimiter
	proxies    metadata.TrustedProxies
	checks     map[string]HealthCheck
}

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Option func(*Handler)

func WithLatencyObserver(observer middleware.LatencyObserver) Option {
	return func(h *Handler) {
		h.latency = observer
	}
}

// WithAdminToken enables the admin routes behind X-Admin-Token.
func WithAdminToken(token string) Option {
	return func(h *Handler) {
		h.adminToken = token
	}
}

// WithRateLimiter limits the application routes per client IP.
func WithRateLimiter(limiter RateLimiter) Option {
	return func(h *Handler) {
		h.limiter = limiter
	}
}

// WithTrustedProxies names the peers whose X-Forwarded-For and X-Real-IP
// headers identify the client.
func WithTrustedProxies(proxies metadata.TrustedProxies) Option {
	return func(h *Handler) {
		h.proxies = proxies
	}
}

// WithHealthCheck adds a dependency to /healthz under name.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(h *Handler) {
		if h.checks == nil {
			h.checks = make(map[string]HealthCheck)
		}
		h.checks[name] = check
	}
}

func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// New creates a new onboarding Handler.
func New(dispatcher Dispatcher, onboarding Onboarding, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		dispatcher: dispatcher,
		onboarding: onboarding,
		logger:     logger,
		timeout:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(metadata.ClientMetadata(h.proxies))
		r.Use(requesttime.Middleware)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(h.timeout))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.LatencyMiddleware(h.latency))

		r.Group(func(r chi.Router) {
			if h.limiter != nil {
				r.Use(h.limiter.PerClientIP(rateLimitClass))
			}
			r.Post("/v1/applications/grade", h.handleGrade)
			r.Post("/v1/applications/validate", h.handleValidate)
			r.Post("/v1/claims/validate", h.handleValidateClaims)
		})

		if h.adminToken == "" {
			return
		}
		r.Route("/v1/admin/onboarding", func(r chi.Router) {
			r.Use(admin.RequireAdminToken(h.adminToken, h.logger))
			r.Get("/", h.handleGetDomain)
			r.Put("/domain", h.handleUpdateDomain)
			r.Post("/reload", h.handleReload)
		})
	})
}

func (h *Handler) handleGrade(w http.ResponseWriter, r *http.Request) {
	app, ok := h.decodeApplication(w, r)
	if !ok {
		return
	}

	resp := GradeResponse{ApplicationID: app.ID, Grade: id.GradeNotAtAll.String()}
	best, grade, err := h.dispatcher.FindBest(app)
	if err == nil {
		resp.Grade = grade.String()
		resp.Authenticator = best.Name()
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	app, ok := h.decodeApplication(w, r)
	if !ok {
		return
	}

	name, err := h.dispatcher.Validate(ctx, app)
	if err != nil {
		if errors.Is(err, dispatch.ErrNoAuthenticator) {
			httputil.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":             "unsupported_application",
				"error_description": "no authenticator supports the application",
			})
			return
		}
		h.logger.ErrorContext(ctx, "failed to dispatch application",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to validate application"))
		return
	}

	valid, _ := app.IsValid()
	httputil.WriteJSON(w, http.StatusOK, ValidateResponse{
		ApplicationID: app.ID,
		Authenticator: name,
		Valid:         valid,
		Validity:      app.Validity.String(),
		Errors:        nonNil(app.Errors),
	})
}

func (h *Handler) handleValidateClaims(w http.ResponseWriter, r *http.Request) {
	var req ClaimsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.NrPhotos < 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "nr_photos must not be negative"))
		return
	}

	result := h.onboarding.IsValid(r.Context(), req.Claims, req.NrPhotos)
	result.Errors = nonNil(result.Errors)
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetDomain(w http.ResponseWriter, _ *http.Request) {
	domain := h.onboarding.OnboardingDomain()
	httputil.WriteJSON(w, http.StatusOK, OnboardingDomainResponse{Domain: domain, Configured: domain != ""})
}

func (h *Handler) handleUpdateDomain(w http.ResponseWriter, r *http.Request) {
	var req OnboardingDomainRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.onboarding.UpdateOnboardingDomain(r.Context(), req.Domain); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.handleGetDomain(w, r)
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.onboarding.Reload(r.Context()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.handleGetDomain(w, r)
}

// handleHealth always answers 200. A missing onboarding domain or a failed
// dependency marks the status degraded.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	configured := h.onboarding.OnboardingDomain() != ""
	resp := HealthResponse{Status: "ok", OnboardingConfigured: configured}
	if !configured {
		resp.Status = "degraded"
	}

	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		resp.Dependencies = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			if err := check(ctx); err != nil {
				h.logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
				resp.Dependencies[name] = "unavailable"
				resp.Status = "degraded"
				continue
			}
			resp.Dependencies[name] = "ok"
		}
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) decodeApplication(w http.ResponseWriter, r *http.Request) (*models.IdentityApplication, bool) {
	var req ApplicationRequest
	if !h.decode(w, r, &req) {
		return nil, false
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	} else if _, err := uuid.Parse(req.ID); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "id must be a UUID"))
		return nil, false
	}
	return models.NewIdentityApplication(req.ID, req.Claims, req.Photos), true
}

// decode reads a JSON body. Numbers are kept as json.Number so numeric claim
// values keep their literal form when coerced to strings.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.logger.WarnContext(r.Context(), "invalid request body",
			"request_id", middleware.GetRequestID(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

func nonNil(errs []models.ValidationError) []models.ValidationError {
	if errs == nil {
		return []models.ValidationError{}
	}
	return errs
}
