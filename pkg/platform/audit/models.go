package audit

import "time"

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers verdicts with legal significance: an accepted
	// application changes the canonical account record.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers rejected applications, throttled clients and
	// upstream failures.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers configuration reloads and routine activity.
	CategoryOperations EventCategory = "operations"
)

// AuditEvent names an auditable action.
type AuditEvent string

const (
	EventApplicationAccepted   AuditEvent = "application_accepted"
	EventApplicationRejected   AuditEvent = "application_rejected"
	EventAccountEMailUpdated   AuditEvent = "account_email_updated"
	EventAccountUpdateFailed   AuditEvent = "account_update_failed"
	EventOnboardingUnavailable AuditEvent = "onboarding_unavailable"
	EventSettingsReloaded      AuditEvent = "settings_reloaded"
	EventRateLimited           AuditEvent = "rate_limited"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventApplicationAccepted:   CategoryCompliance,
	EventAccountEMailUpdated:   CategoryCompliance,
	EventApplicationRejected:   CategorySecurity,
	EventAccountUpdateFailed:   CategorySecurity,
	EventOnboardingUnavailable: CategorySecurity,
	EventRateLimited:           CategorySecurity,
	EventSettingsReloaded:      CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Severity levels for SIEM routing.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category      EventCategory `json:"category"`
	Timestamp     time.Time     `json:"timestamp"`
	Action        string        `json:"action"`
	ApplicationID string        `json:"application_id,omitempty"`
	Subject       string        `json:"subject,omitempty"` // account user name claimed by the application
	Decision      string        `json:"decision,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	RequestID     string        `json:"request_id,omitempty"`
	Severity      Severity      `json:"severity,omitempty"`
}

// NewEvent stamps an event with its category and the given time.
func NewEvent(action AuditEvent, now time.Time) Event {
	return Event{
		Category:  action.Category(),
		Timestamp: now,
		Action:    string(action),
		Severity:  SeverityInfo,
	}
}
