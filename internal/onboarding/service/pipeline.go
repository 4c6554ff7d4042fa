package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"neuroaccess/internal/onboarding/client"
	"neuroaccess/internal/onboarding/models"
	id "neuroaccess/pkg/domain"
	"neuroaccess/pkg/platform/audit"
	"neuroaccess/pkg/platform/sentinel"
	"neuroaccess/pkg/requestcontext"
)

// evaluation carries the state of one pass through the pipeline. Each gate
// reads what earlier gates extracted and fills in its own part.
type evaluation struct {
	domain   string
	claims   []models.Claim
	nrPhotos int

	personal models.PersonalInformation
	jid      id.Jid
	endpoint string
}

func (e *evaluation) userName() string {
	return e.jid.Local()
}

// gate returns the errors that stop the pipeline, or nil to continue.
type gate struct {
	name string
	run  func(ctx context.Context, e *evaluation) []models.ValidationError
}

func (s *Service) gates() []gate {
	return []gate{
		{name: "configured", run: checkConfigured},
		{name: "photos", run: checkPhotos},
		{name: "claims", run: extractClaims},
		{name: "jid", run: s.checkJid},
		{name: "presence", run: s.checkPresence},
		{name: "login", run: s.correlateLogin},
		{name: "verify", run: s.verifyRemote},
	}
}

// run applies the gates in order. The first failing gate decides the
// verdict; a clean pass ends with account reconciliation.
func (s *Service) run(ctx context.Context, e *evaluation) models.Result {
	for _, g := range s.gates() {
		if errs := g.run(ctx, e); len(errs) > 0 {
			s.logger.DebugContext(ctx, "application rejected",
				"gate", g.name,
				"code", errs[0].Code,
				"user_name", e.userName(),
			)
			return models.Rejected(errs...)
		}
	}
	return s.reconcile(ctx, e)
}

func checkConfigured(_ context.Context, e *evaluation) []models.ValidationError {
	if e.domain == "" {
		return fail(models.NewError(models.KindService, models.CodeServiceNotConfigured,
			"Service not configured properly."))
	}
	return nil
}

func checkPhotos(_ context.Context, e *evaluation) []models.ValidationError {
	if e.nrPhotos > 0 {
		return fail(models.NewError(models.KindService, models.CodePhotosNotSupported,
			"Photos not supported by this authenticator."))
	}
	return nil
}

// extractClaims rejects out-of-vocabulary keys and copies the personal claims
// into string form.
func extractClaims(_ context.Context, e *evaluation) []models.ValidationError {
	for _, c := range e.claims {
		key, ok := id.ParseClaimKey(c.Key)
		if !ok {
			return fail(models.NewClaimError(c.Key, models.KindClient, models.CodeUnsupportedClaim,
				fmt.Sprintf("Claim not supported: %s", c.Key)))
		}
		switch key {
		case id.ClaimCountry:
			e.personal.Country = c.StringValue()
		case id.ClaimPhone:
			e.personal.Phone = c.StringValue()
		case id.ClaimEMail:
			e.personal.EMail = c.StringValue()
		case id.ClaimJid:
			e.personal.Jid = c.StringValue()
		}
	}
	return nil
}

func (s *Service) checkJid(_ context.Context, e *evaluation) []models.ValidationError {
	jid, err := id.ParseJid(e.personal.Jid)
	if err != nil || !s.domains.IsDomain(jid.Domain(), true) {
		return fail(models.NewClaimError(id.ClaimJid.String(), models.KindClient, models.CodeInvalidJid,
			"Invalid JID."))
	}
	e.jid = jid
	return nil
}

func (s *Service) checkPresence(_ context.Context, e *evaluation) []models.ValidationError {
	if e.personal.EMail == "" && e.personal.Phone == "" {
		return fail(models.NewError(models.KindClient, models.CodeEMailOrPhoneRequired,
			"Either e-mail or phone number must be provided."))
	}
	if e.personal.Country != "" || s.requireCountry {
		if utf8.RuneCountInString(e.personal.Country) != 2 {
			return fail(models.NewClaimError(id.ClaimCountry.String(), models.KindClient, models.CodeCountryNotSupported,
				"Country must be a two-letter country code."))
		}
	}
	return nil
}

// correlateLogin finds the remote endpoint of the account's most recent
// login. The onboarding server matches the verified identity against it.
func (s *Service) correlateLogin(ctx context.Context, e *evaluation) []models.ValidationError {
	login, err := s.logins.LastLogin(ctx, e.jid.Local())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return fail(noLogin())
		}
		s.logger.ErrorContext(ctx, "failed to read login history",
			"user_name", e.jid.Local(),
			"error", err,
		)
		return fail(models.NewError(models.KindServer, models.CodeLoginHistoryUnavailable,
			"Login history is not available."))
	}
	endpoint, ok := login.Endpoint()
	if !ok {
		return fail(noLogin())
	}
	e.endpoint = endpoint
	return nil
}

func noLogin() models.ValidationError {
	return models.NewError(models.KindClient, models.CodeNoLogin,
		"Account has no recorded login with a remote endpoint.")
}

func (s *Service) verifyRemote(ctx context.Context, e *evaluation) []models.ValidationError {
	req := client.Request{
		RemoteEndpoint: e.endpoint,
		EMail:          e.personal.EMail,
		Phone:          e.personal.Phone,
		Country:        e.personal.Country,
	}

	start := time.Now()
	ok, err := s.verifier.Verify(ctx, e.domain, req)
	if err != nil {
		s.metrics.ObserveRemoteLatency(string(client.CategoryOf(err)), time.Since(start))
		s.logger.ErrorContext(ctx, "onboarding verification failed",
			"onboarding_domain", e.domain,
			"category", client.CategoryOf(err),
			"user_name", e.jid.Local(),
			"error", err,
		)
		if client.IsUnexpectedResponse(err) {
			return fail(models.NewError(models.KindServer, models.CodeUnexpectedOnboardingServer,
				"Unexpected response returned from onboarding server."))
		}
		s.auditUnavailable(ctx, e, err)
		return fail(models.NewError(models.KindServer, models.CodeOnboardingUnavailable, err.Error()))
	}
	s.metrics.ObserveRemoteLatency(fmt.Sprint(ok), time.Since(start))

	if ok {
		return nil
	}
	var errs []models.ValidationError
	if e.personal.EMail != "" {
		errs = append(errs, models.NewClaimError(id.ClaimEMail.String(), models.KindClient, models.CodeEMailOrPhoneInvalid,
			"E-mail address could not be verified."))
	}
	if e.personal.Phone != "" {
		errs = append(errs, models.NewClaimError(id.ClaimPhone.String(), models.KindClient, models.CodeEMailOrPhoneInvalid,
			"Phone number could not be verified."))
	}
	return errs
}

func (s *Service) auditUnavailable(ctx context.Context, e *evaluation, err error) {
	event := audit.NewEvent(audit.EventOnboardingUnavailable, requestcontext.Now(ctx))
	event.Subject = e.jid.Local()
	event.Reason = string(client.CategoryOf(err))
	event.RequestID = requestcontext.RequestID(ctx)
	event.Severity = audit.SeverityWarning
	audit.Log(ctx, s.logger, s.auditPublisher, event, "onboarding_domain", e.domain)
}

func fail(errs ...models.ValidationError) []models.ValidationError {
	return errs
}
