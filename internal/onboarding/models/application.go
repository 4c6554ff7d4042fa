package models

import (
	"fmt"

	id "neuroaccess/pkg/domain"
)

// Validity is the verdict recorded on an application.
type Validity int

const (
	ValidityUnset Validity = iota
	ValidityValid
	ValidityInvalid
)

func (v Validity) String() string {
	switch v {
	case ValidityValid:
		return "valid"
	case ValidityInvalid:
		return "invalid"
	default:
		return "unset"
	}
}

// Claim is one key/value pair asserted by an application. Keys are kept as
// raw strings so out-of-vocabulary keys survive decoding and can be rejected
// by the authenticator.
type Claim struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// StringValue returns the claim value in string form. Non-string values are
// coerced through their default formatting; nil becomes the empty string.
func (c Claim) StringValue() string {
	switch v := c.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// PersonalInformation is the denormalised view of the personal claims.
type PersonalInformation struct {
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone,omitempty"`
	EMail   string `json:"email,omitempty"`
	Jid     string `json:"jid,omitempty"`
}

// Photo is an attachment on an application. Only its presence matters here.
type Photo struct {
	ID          string `json:"id"`
	ContentType string `json:"content_type,omitempty"`
}

// IdentityApplication is an application under review. The dispatcher owns it
// for its processing lifetime; only the authenticator mutates Validity and
// Errors.
type IdentityApplication struct {
	ID                  string
	Claims              []Claim
	PersonalInformation PersonalInformation
	Photos              []Photo
	Validity            Validity
	Errors              []ValidationError
}

// NewIdentityApplication builds an application and derives its personal
// information from the claims.
func NewIdentityApplication(applicationID string, claims []Claim, photos []Photo) *IdentityApplication {
	return &IdentityApplication{
		ID:                  applicationID,
		Claims:              claims,
		PersonalInformation: PersonalInformationFromClaims(claims),
		Photos:              photos,
	}
}

// PersonalInformationFromClaims extracts the personal claims. Later claims
// with the same key win, matching extraction in the validation pipeline.
func PersonalInformationFromClaims(claims []Claim) PersonalInformation {
	var pi PersonalInformation
	for _, c := range claims {
		switch id.ClaimKey(c.Key) {
		case id.ClaimCountry:
			pi.Country = c.StringValue()
		case id.ClaimPhone:
			pi.Phone = c.StringValue()
		case id.ClaimEMail:
			pi.EMail = c.StringValue()
		case id.ClaimJid:
			pi.Jid = c.StringValue()
		}
	}
	return pi
}

// NrPhotos returns the number of attached photos.
func (a *IdentityApplication) NrPhotos() int {
	return len(a.Photos)
}

// Claim returns the value of the first claim with the given key.
func (a *IdentityApplication) Claim(key id.ClaimKey) (Claim, bool) {
	for _, c := range a.Claims {
		if c.Key == string(key) {
			return c, true
		}
	}
	return Claim{}, false
}

// IsValid returns the verdict and whether one has been recorded.
func (a *IdentityApplication) IsValid() (valid bool, set bool) {
	return a.Validity == ValidityValid, a.Validity != ValidityUnset
}

// Apply records a validation result on the application.
func (a *IdentityApplication) Apply(result Result) {
	if result.Valid {
		a.Validity = ValidityValid
	} else {
		a.Validity = ValidityInvalid
	}
	a.Errors = append(a.Errors, result.Errors...)
}
