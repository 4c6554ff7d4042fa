// Package service implements the Neuro-Access onboarding authenticator: it
// grades identity applications and validates them against login history and
// the trusted onboarding server, then reconciles the account record.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"neuroaccess/internal/onboarding/grader"
	"neuroaccess/internal/onboarding/metrics"
	"neuroaccess/internal/onboarding/models"
	id "neuroaccess/pkg/domain"
	dErrors "neuroaccess/pkg/domain-errors"
	"neuroaccess/pkg/platform/audit"
	"neuroaccess/pkg/requestcontext"
)

// Name identifies the authenticator to the dispatcher and in logs.
const Name = "neuro-access-onboarding"

const tracerName = "neuroaccess/onboarding/service"

type Service struct {
	settings       Settings
	domains        DomainChecker
	logins         LoginStore
	accounts       AccountStore
	verifier       Verifier
	auditPublisher AuditPublisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	requireCountry bool
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithRequireCountry makes COUNTRY mandatory for grading and validation.
func WithRequireCountry(required bool) Option {
	return func(s *Service) {
		s.requireCountry = required
	}
}

func New(
	settings Settings,
	domains DomainChecker,
	logins LoginStore,
	accounts AccountStore,
	verifier Verifier,
	opts ...Option,
) (*Service, error) {
	if settings == nil {
		return nil, errors.New("settings is required")
	}
	if domains == nil {
		return nil, errors.New("domain checker is required")
	}
	if logins == nil {
		return nil, errors.New("login store is required")
	}
	if accounts == nil {
		return nil, errors.New("account store is required")
	}
	if verifier == nil {
		return nil, errors.New("verifier is required")
	}

	svc := &Service{
		settings: settings,
		domains:  domains,
		logins:   logins,
		accounts: accounts,
		verifier: verifier,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

func (s *Service) Name() string {
	return Name
}

// Start loads the onboarding domain. The host calls it once before routing
// applications to the authenticator.
func (s *Service) Start(ctx context.Context) error {
	if err := s.settings.Load(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "load onboarding settings")
	}
	s.logger.InfoContext(ctx, "authenticator started",
		"authenticator", Name,
		"onboarding_domain", s.settings.Current(),
	)
	return nil
}

// Stop clears the cached configuration; the authenticator grades everything
// NotAtAll until started again.
func (s *Service) Stop(ctx context.Context) error {
	s.settings.Invalidate()
	s.logger.InfoContext(ctx, "authenticator stopped", "authenticator", Name)
	return nil
}

// Reload re-reads the onboarding domain from the settings store.
func (s *Service) Reload(ctx context.Context) error {
	if err := s.settings.Load(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to reload onboarding settings", "error", err)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "reload onboarding settings")
	}
	s.auditSettings(ctx, "reloaded")
	return nil
}

// UpdateOnboardingDomain stores a new onboarding domain and reloads it. An
// empty domain unconfigures the authenticator.
func (s *Service) UpdateOnboardingDomain(ctx context.Context, domain string) error {
	domain = strings.TrimSpace(domain)
	if strings.ContainsAny(domain, "/:@ \t") {
		return dErrors.New(dErrors.CodeInvalidInput, "onboarding domain must be a bare host name")
	}
	if err := s.settings.Update(ctx, domain); err != nil {
		s.logger.ErrorContext(ctx, "failed to update onboarding settings", "error", err)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "update onboarding settings")
	}
	s.auditSettings(ctx, "updated")
	return nil
}

// OnboardingDomain returns the cached onboarding domain, or "" when the
// authenticator is not configured.
func (s *Service) OnboardingDomain() string {
	return s.settings.Current()
}

// Supports grades how well this authenticator can evaluate the application.
func (s *Service) Supports(app *models.IdentityApplication) id.Grade {
	grade := grader.Supports(app, s.settings.Current(), grader.Options{RequireCountry: s.requireCountry})
	s.metrics.IncrementGrade(grade.String())
	return grade
}

// Validate evaluates the application, records the verdict on it and appends
// the validation errors. Safe for concurrent use on distinct applications.
func (s *Service) Validate(ctx context.Context, app *models.IdentityApplication) {
	if app == nil {
		return
	}
	result := s.evaluate(ctx, app.ID, app.Claims, app.NrPhotos())
	app.Apply(result)
}

// IsValid evaluates a claim set without an application record.
func (s *Service) IsValid(ctx context.Context, claims []models.Claim, nrPhotos int) models.Result {
	return s.evaluate(ctx, "", claims, nrPhotos)
}

func (s *Service) evaluate(ctx context.Context, applicationID string, claims []models.Claim, nrPhotos int) models.Result {
	ctx, span := s.tracer.Start(ctx, "onboarding.evaluate", trace.WithAttributes(
		attribute.String("application.id", applicationID),
		attribute.Int("application.claims", len(claims)),
		attribute.Int("application.photos", nrPhotos),
	))
	defer span.End()

	start := time.Now()
	e := &evaluation{
		domain:   s.settings.Current(),
		claims:   claims,
		nrPhotos: nrPhotos,
	}
	result := s.run(ctx, e)
	s.metrics.ObserveValidateLatency(time.Since(start))

	span.SetAttributes(attribute.Bool("application.valid", result.Valid))
	if !result.Valid {
		span.SetStatus(codes.Error, string(firstCode(result)))
	}
	s.recordVerdict(ctx, applicationID, e.userName(), result)
	return result
}

func (s *Service) recordVerdict(ctx context.Context, applicationID, userName string, result models.Result) {
	code := string(firstCode(result))
	outcome, action, decision := "accepted", audit.EventApplicationAccepted, "valid"
	if !result.Valid {
		outcome, action, decision = "rejected", audit.EventApplicationRejected, "invalid"
	}
	s.metrics.IncrementOutcome(outcome, code)

	event := audit.NewEvent(action, requestcontext.Now(ctx))
	event.ApplicationID = applicationID
	event.Subject = userName
	event.Decision = decision
	event.Reason = code
	event.RequestID = requestcontext.RequestID(ctx)
	if !result.Valid {
		event.Severity = audit.SeverityWarning
	}
	audit.Log(ctx, s.logger, s.auditPublisher, event,
		"user_name", userName,
		"errors", len(result.Errors),
	)
}

func (s *Service) auditSettings(ctx context.Context, decision string) {
	event := audit.NewEvent(audit.EventSettingsReloaded, requestcontext.Now(ctx))
	event.Decision = decision
	event.Reason = s.settings.Current()
	event.RequestID = requestcontext.RequestID(ctx)
	audit.Log(ctx, s.logger, s.auditPublisher, event, "onboarding_domain", s.settings.Current())
}

func firstCode(result models.Result) models.ErrorCode {
	if len(result.Errors) == 0 {
		return ""
	}
	return result.Errors[0].Code
}
