package domain

// ClaimKey names a claim an identity application may carry.
// Invariant: the value must be one of the keys in the vocabulary below; keys
// are case-sensitive.
//
// Usage: construct via ParseClaimKey at trust boundaries. An application that
// carries any key outside the vocabulary is not handled by this module.
type ClaimKey string

// Claim vocabulary. The first four carry personal information; the rest are
// bookkeeping claims the application store attaches.
const (
	ClaimCountry  ClaimKey = "COUNTRY"
	ClaimPhone    ClaimKey = "PHONE"
	ClaimEMail    ClaimKey = "EMAIL"
	ClaimJid      ClaimKey = "JID"
	ClaimID       ClaimKey = "ID"
	ClaimAccount  ClaimKey = "Account"
	ClaimProvider ClaimKey = "Provider"
	ClaimState    ClaimKey = "State"
	ClaimCreated  ClaimKey = "Created"
	ClaimUpdated  ClaimKey = "Updated"
	ClaimFrom     ClaimKey = "From"
	ClaimTo       ClaimKey = "To"
)

// knownClaimKeys is the single source of truth for the claim vocabulary.
var knownClaimKeys = map[ClaimKey]bool{
	ClaimCountry:  true,
	ClaimPhone:    true,
	ClaimEMail:    true,
	ClaimJid:      true,
	ClaimID:       true,
	ClaimAccount:  true,
	ClaimProvider: true,
	ClaimState:    true,
	ClaimCreated:  true,
	ClaimUpdated:  true,
	ClaimFrom:     true,
	ClaimTo:       true,
}

// ParseClaimKey returns the ClaimKey for s and whether it is part of the
// vocabulary.
func ParseClaimKey(s string) (ClaimKey, bool) {
	k := ClaimKey(s)
	return k, k.IsKnown()
}

// IsKnown reports whether the key belongs to the vocabulary.
func (k ClaimKey) IsKnown() bool {
	return knownClaimKeys[k]
}

// IsPersonal reports whether the key carries personal information the
// authenticator verifies, as opposed to bookkeeping.
func (k ClaimKey) IsPersonal() bool {
	switch k {
	case ClaimCountry, ClaimPhone, ClaimEMail, ClaimJid:
		return true
	default:
		return false
	}
}

// String returns the string representation of the key.
func (k ClaimKey) String() string {
	return string(k)
}
