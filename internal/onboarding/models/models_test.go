package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaim_StringValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "BR", "BR"},
		{"nil", nil, ""},
		{"integer", 155512345678, "155512345678"},
		{"json number", json.Number("155512345678"), "155512345678"},
		{"bool", true, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Claim{Key: "PHONE", Value: tt.value}.StringValue())
		})
	}
}

func TestPersonalInformationFromClaims_LastWins(t *testing.T) {
	pi := PersonalInformationFromClaims([]Claim{
		{Key: "EMAIL", Value: "first@example.com"},
		{Key: "COUNTRY", Value: "SE"},
		{Key: "EMAIL", Value: "second@example.com"},
		{Key: "Account", Value: "alice"},
	})

	assert.Equal(t, PersonalInformation{Country: "SE", EMail: "second@example.com"}, pi)
}

func TestIdentityApplication_Apply(t *testing.T) {
	app := NewIdentityApplication("app-1", []Claim{{Key: "JID", Value: "a@b"}}, nil)

	valid, set := app.IsValid()
	assert.False(t, valid)
	assert.False(t, set)
	assert.Equal(t, "unset", app.Validity.String())

	app.Apply(Rejected(NewClaimError("JID", KindClient, CodeInvalidJid, "bad")))
	valid, set = app.IsValid()
	assert.False(t, valid)
	assert.True(t, set)
	require.Len(t, app.Errors, 1)
	assert.True(t, app.Errors[0].IsClaimError())

	claim, ok := app.Claim("JID")
	assert.True(t, ok)
	assert.Equal(t, "a@b", claim.Value)
	_, ok = app.Claim("EMAIL")
	assert.False(t, ok)
}

func TestResult(t *testing.T) {
	r := Accepted(NewError(KindServer, CodeAccountUpdateFailed, "write failed"))
	assert.True(t, r.Valid)
	assert.True(t, r.HasCode(CodeAccountUpdateFailed))
	assert.False(t, r.HasCode(CodeNoAccount))

	r = Rejected(
		NewClaimError("EMAIL", KindClient, CodeEMailOrPhoneInvalid, "x"),
		NewClaimError("PHONE", KindClient, CodeEMailOrPhoneInvalid, "y"),
	)
	assert.Len(t, r.ClaimErrors("EMAIL"), 1)
	assert.Empty(t, r.ClaimErrors("COUNTRY"))
}

func TestValidationError_Error(t *testing.T) {
	general := NewError(KindServer, CodeOnboardingUnavailable, "timeout")
	assert.Equal(t, "server [OnboardingUnavailable]: timeout", general.Error())
	assert.Equal(t, DefaultLanguage, general.Language)

	claim := NewClaimError("JID", KindClient, CodeInvalidJid, "bad")
	assert.Equal(t, "client [InvalidJid] JID: bad", claim.Error())
}

func TestBrokerAccountLogin_Endpoint(t *testing.T) {
	var nilLogin *BrokerAccountLogin
	_, ok := nilLogin.Endpoint()
	assert.False(t, ok)

	empty := ""
	_, ok = (&BrokerAccountLogin{RemoteEndpoint: &empty}).Endpoint()
	assert.False(t, ok)
}
