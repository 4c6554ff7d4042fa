package service

import (
	"context"
	"errors"

	"neuroaccess/internal/onboarding/models"
	"neuroaccess/pkg/platform/audit"
	"neuroaccess/pkg/platform/sentinel"
	"neuroaccess/pkg/requestcontext"
)

// reconcile brings the account record in line with a verified application.
// The onboarding server's answer is authoritative, so a failed write is
// reported but does not revoke the verdict.
func (s *Service) reconcile(ctx context.Context, e *evaluation) models.Result {
	userName := e.jid.Local()

	account, err := s.accounts.FindByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Rejected(models.NewError(models.KindClient, models.CodeNoAccount,
				"Account not found."))
		}
		return s.updateFailed(ctx, userName, err)
	}

	// Phone-only applications leave the account untouched.
	if e.personal.EMail == "" {
		return models.Accepted()
	}

	if err := s.accounts.UpdateEMail(ctx, account.UserName, e.personal.EMail, requestcontext.Now(ctx)); err != nil {
		return s.updateFailed(ctx, userName, err)
	}

	event := audit.NewEvent(audit.EventAccountEMailUpdated, requestcontext.Now(ctx))
	event.Subject = userName
	event.RequestID = requestcontext.RequestID(ctx)
	audit.Log(ctx, s.logger, s.auditPublisher, event,
		"email_changed", account.EMail != e.personal.EMail,
	)
	return models.Accepted()
}

func (s *Service) updateFailed(ctx context.Context, userName string, err error) models.Result {
	s.logger.ErrorContext(ctx, "unable to update account e-mail after verification",
		"user_name", userName,
		"severity", audit.SeverityCritical,
		"error", err,
	)

	event := audit.NewEvent(audit.EventAccountUpdateFailed, requestcontext.Now(ctx))
	event.Subject = userName
	event.Reason = err.Error()
	event.RequestID = requestcontext.RequestID(ctx)
	event.Severity = audit.SeverityCritical
	audit.Log(ctx, s.logger, s.auditPublisher, event)

	return models.Accepted(models.NewError(models.KindServer, models.CodeAccountUpdateFailed,
		"Verified, but the account record could not be updated."))
}
