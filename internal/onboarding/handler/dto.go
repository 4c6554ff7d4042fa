package handler

import (
	"neuroaccess/internal/onboarding/models"
)

// ApplicationRequest is the wire form of an identity application.
type ApplicationRequest struct {
	ID     string         `json:"id"`
	Claims []models.Claim `json:"claims"`
	Photos []models.Photo `json:"photos"`
}

// ClaimsRequest evaluates a bare claim set.
type ClaimsRequest struct {
	Claims   []models.Claim `json:"claims"`
	NrPhotos int            `json:"nr_photos"`
}

type GradeResponse struct {
	ApplicationID string `json:"application_id"`
	Grade         string `json:"grade"`
	Authenticator string `json:"authenticator,omitempty"`
}

type ValidateResponse struct {
	ApplicationID string                   `json:"application_id"`
	Authenticator string                   `json:"authenticator"`
	Valid         bool                     `json:"valid"`
	Validity      string                   `json:"validity"`
	Errors        []models.ValidationError `json:"errors"`
}

type OnboardingDomainRequest struct {
	Domain string `json:"domain"`
}

type OnboardingDomainResponse struct {
	Domain     string `json:"domain"`
	Configured bool   `json:"configured"`
}

type HealthResponse struct {
	Status               string            `json:"status"`
	OnboardingConfigured bool              `json:"onboarding_configured"`
	Dependencies         map[string]string `json:"dependencies,omitempty"`
}
