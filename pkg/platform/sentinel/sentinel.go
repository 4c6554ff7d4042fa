package sentinel

import "errors"

// Sentinel errors for storage facts. Record and settings stores return these,
// possibly wrapped, and the onboarding service maps them onto validation
// outcomes:
// - ErrNotFound: no login, account or setting exists for the key
// - ErrUnavailable: the backing store could not be reached
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
