package client

import (
	"errors"
	"fmt"
)

// Category is the normalised failure taxonomy of onboarding calls.
type Category string

const (
	// CategoryTimeout indicates the onboarding server took too long to respond.
	CategoryTimeout Category = "timeout"

	// CategoryOutage indicates a transport failure or a 5xx response.
	CategoryOutage Category = "outage"

	// CategoryAuthentication indicates TLS or client-certificate rejection.
	CategoryAuthentication Category = "authentication"

	// CategoryRateLimited indicates the local or remote call budget is spent.
	CategoryRateLimited Category = "rate_limited"

	// CategoryBadData indicates a response that is not a bare JSON boolean.
	CategoryBadData Category = "bad_data"

	// CategoryRejected indicates a 4xx response other than auth or rate limiting.
	CategoryRejected Category = "rejected"

	// CategoryInternal indicates a failure building the request.
	CategoryInternal Category = "internal"
)

// Error wraps an onboarding failure with its category.
type Error struct {
	Category   Category
	Domain     string
	StatusCode int
	Message    string
	Underlying error
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("onboarding %s [%s]: %s: %v", e.Domain, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("onboarding %s [%s]: %s", e.Domain, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func newError(category Category, domain, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		Domain:     domain,
		Message:    message,
		Underlying: underlying,
	}
}

// CategoryOf extracts the category from an error, defaulting to internal.
func CategoryOf(err error) Category {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Category
	}
	return CategoryInternal
}

// IsUnexpectedResponse reports whether the server answered with something
// other than a boolean verdict.
func IsUnexpectedResponse(err error) bool {
	return CategoryOf(err) == CategoryBadData
}
