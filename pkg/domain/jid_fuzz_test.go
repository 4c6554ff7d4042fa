//go:build go1.18

package domain

import (
	"strings"
	"testing"
)

// FuzzParseJid checks that parsing never panics and that accepted input
// always satisfies the local@domain invariant and round-trips.
func FuzzParseJid(f *testing.F) {
	f.Add("")
	f.Add("alice@example.com")
	f.Add("@example.com")
	f.Add("alice@")
	f.Add("a@b@c")
	f.Add("'; DROP TABLE broker_accounts;--@x")
	f.Add(string([]byte{0x00, '@', 0x01}))

	f.Fuzz(func(t *testing.T, input string) {
		jid, err := ParseJid(input)
		if err != nil {
			if !jid.IsNil() {
				t.Error("rejected input produced a non-zero Jid")
			}
			return
		}

		if strings.Count(input, "@") != 1 {
			t.Errorf("accepted %q without exactly one '@'", input)
		}
		if jid.Local() == "" || jid.Domain() == "" {
			t.Errorf("accepted %q with an empty part", input)
		}
		if jid.String() != input {
			t.Errorf("round trip changed %q into %q", input, jid.String())
		}
	})
}
