package models

import "fmt"

// ErrorKind classifies who is responsible for a validation failure.
type ErrorKind string

const (
	// KindClient marks malformed or unverifiable input.
	KindClient ErrorKind = "client"
	// KindService marks an authenticator that cannot evaluate the application.
	KindService ErrorKind = "service"
	// KindServer marks an upstream or storage failure.
	KindServer ErrorKind = "server"
)

// ErrorCode is the machine-readable reason of a validation failure.
type ErrorCode string

const (
	CodeServiceNotConfigured       ErrorCode = "ServiceNotConfigured"
	CodePhotosNotSupported         ErrorCode = "PhotosNotSupported"
	CodeUnsupportedClaim           ErrorCode = "UnsupportedClaim"
	CodeInvalidJid                 ErrorCode = "InvalidJid"
	CodeEMailOrPhoneRequired       ErrorCode = "EMailOrPhoneRequired"
	CodeCountryNotSupported        ErrorCode = "CountryNotSupported"
	CodeNoLogin                    ErrorCode = "NoLogin"
	CodeEMailOrPhoneInvalid        ErrorCode = "EMailOrPhoneInvalid"
	CodeUnexpectedOnboardingServer ErrorCode = "UnexpectedOnboardingServer"
	CodeOnboardingUnavailable      ErrorCode = "OnboardingUnavailable"
	CodeLoginHistoryUnavailable    ErrorCode = "LoginHistoryUnavailable"
	CodeNoAccount                  ErrorCode = "NoAccount"
	CodeAccountUpdateFailed        ErrorCode = "AccountUpdateFailed"
)

// DefaultLanguage tags every message produced by this module.
const DefaultLanguage = "en"

// ValidationError is one failure recorded against an application. Claim is
// empty for general errors and names the offending claim key otherwise.
type ValidationError struct {
	Kind     ErrorKind `json:"kind"`
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Language string    `json:"language"`
	Claim    string    `json:"claim,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Claim != "" {
		return fmt.Sprintf("%s [%s] %s: %s", e.Kind, e.Code, e.Claim, e.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Code, e.Message)
}

// IsClaimError reports whether the error is attached to a specific claim.
func (e ValidationError) IsClaimError() bool {
	return e.Claim != ""
}

// NewError builds a general validation error.
func NewError(kind ErrorKind, code ErrorCode, message string) ValidationError {
	return ValidationError{Kind: kind, Code: code, Message: message, Language: DefaultLanguage}
}

// NewClaimError builds a validation error attached to a claim.
func NewClaimError(claim string, kind ErrorKind, code ErrorCode, message string) ValidationError {
	return ValidationError{Kind: kind, Code: code, Message: message, Language: DefaultLanguage, Claim: claim}
}
