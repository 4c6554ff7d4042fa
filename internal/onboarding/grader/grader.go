// Package grader decides how well the onboarding authenticator can evaluate
// an application. Grading is a pure function of the application and the
// cached onboarding domain so a dispatcher can run it against many
// candidates per application.
package grader

import (
	"neuroaccess/internal/onboarding/models"
	id "neuroaccess/pkg/domain"
)

// Options tunes grading.
type Options struct {
	// RequireCountry makes COUNTRY mandatory and grades complete
	// applications Perfect instead of Ok.
	RequireCountry bool
}

// Supports grades an application. onboardingDomain is the cached setting;
// an empty value means the authenticator is not configured.
func Supports(app *models.IdentityApplication, onboardingDomain string, opts Options) id.Grade {
	if app == nil || onboardingDomain == "" || app.NrPhotos() != 0 {
		return id.GradeNotAtAll
	}

	var hasEMail, hasPhone, hasJid, hasCountry bool
	for _, c := range app.Claims {
		key, ok := id.ParseClaimKey(c.Key)
		if !ok {
			return id.GradeNotAtAll
		}
		switch key {
		case id.ClaimEMail:
			hasEMail = true
		case id.ClaimPhone:
			hasPhone = true
		case id.ClaimJid:
			hasJid = true
		case id.ClaimCountry:
			hasCountry = true
		}
	}

	if !(hasEMail || hasPhone) || !hasJid {
		return id.GradeNotAtAll
	}
	if !opts.RequireCountry {
		return id.GradeOk
	}
	if !hasCountry {
		return id.GradeNotAtAll
	}
	return id.GradePerfect
}
