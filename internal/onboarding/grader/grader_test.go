package grader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"neuroaccess/internal/onboarding/models"
	id "neuroaccess/pkg/domain"
)

func claims(keys ...string) []models.Claim {
	out := make([]models.Claim, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.Claim{Key: k, Value: "v"})
	}
	return out
}

func TestSupports(t *testing.T) {
	const domain = "id.tagroot.io"

	tests := []struct {
		name   string
		claims []models.Claim
		photos []models.Photo
		domain string
		opts   Options
		want   id.Grade
	}{
		{name: "all personal claims", claims: claims("COUNTRY", "PHONE", "EMAIL", "JID"), domain: domain, want: id.GradeOk},
		{name: "email and jid", claims: claims("EMAIL", "JID"), domain: domain, want: id.GradeOk},
		{name: "phone and jid with bookkeeping", claims: claims("PHONE", "JID", "Account", "Created"), domain: domain, want: id.GradeOk},
		{name: "country missing but required", claims: claims("EMAIL", "JID"), domain: domain, opts: Options{RequireCountry: true}, want: id.GradeNotAtAll},
		{name: "country present and required", claims: claims("COUNTRY", "EMAIL", "JID"), domain: domain, opts: Options{RequireCountry: true}, want: id.GradePerfect},
		{name: "no email or phone", claims: claims("COUNTRY", "JID"), domain: domain, want: id.GradeNotAtAll},
		{name: "no jid", claims: claims("COUNTRY", "EMAIL"), domain: domain, want: id.GradeNotAtAll},
		{name: "unknown claim", claims: claims("EMAIL", "JID", "NICKNAME"), domain: domain, want: id.GradeNotAtAll},
		{name: "photos attached", claims: claims("EMAIL", "JID"), photos: []models.Photo{{ID: "p"}}, domain: domain, want: id.GradeNotAtAll},
		{name: "not configured", claims: claims("COUNTRY", "EMAIL", "JID"), domain: "", want: id.GradeNotAtAll},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := models.NewIdentityApplication("app", tt.claims, tt.photos)
			assert.Equal(t, tt.want, Supports(app, tt.domain, tt.opts))
		})
	}
}

func TestSupports_NilApplication(t *testing.T) {
	assert.Equal(t, id.GradeNotAtAll, Supports(nil, "id.tagroot.io", Options{}))
}
