package domain

import (
	"strings"

	dErrors "neuroaccess/pkg/domain-errors"
)

// Jid is a network identifier of the form local@domain.
// Invariant: exactly one '@', with a non-empty local part and domain.
type Jid struct {
	local  string
	domain string
}

// ParseJid validates s and splits it into local part and domain.
//
// Errors: returns CodeInvalidInput when s is empty, has no '@', more than one
// '@', or an empty local part or domain.
func ParseJid(s string) (Jid, error) {
	if s == "" {
		return Jid{}, dErrors.New(dErrors.CodeInvalidInput, "jid cannot be empty")
	}
	i := strings.IndexByte(s, '@')
	if i < 0 {
		return Jid{}, dErrors.New(dErrors.CodeInvalidInput, "jid must contain '@'")
	}
	if strings.IndexByte(s[i+1:], '@') >= 0 {
		return Jid{}, dErrors.New(dErrors.CodeInvalidInput, "jid must contain exactly one '@'")
	}
	local, domain := s[:i], s[i+1:]
	if local == "" || domain == "" {
		return Jid{}, dErrors.New(dErrors.CodeInvalidInput, "jid local part and domain are required")
	}
	return Jid{local: local, domain: domain}, nil
}

// Local returns the account part of the identifier.
func (j Jid) Local() string {
	return j.local
}

// Domain returns the host part of the identifier.
func (j Jid) Domain() string {
	return j.domain
}

// IsNil returns true for the zero Jid.
func (j Jid) IsNil() bool {
	return j.local == "" && j.domain == ""
}

func (j Jid) String() string {
	if j.IsNil() {
		return ""
	}
	return j.local + "@" + j.domain
}
