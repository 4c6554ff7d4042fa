package domains

import (
	"strings"

	"golang.org/x/net/idna"
)

// Static answers whether a domain is administered by this host, from a fixed
// list of main and alternative domains. Comparison happens on the IDNA ASCII
// form, case-insensitively.
type Static struct {
	main        map[string]struct{}
	alternative map[string]struct{}
}

// NewStatic builds a checker. Entries that fail IDNA conversion are skipped.
func NewStatic(main []string, alternative []string) *Static {
	return &Static{
		main:        normalizeAll(main),
		alternative: normalizeAll(alternative),
	}
}

// IsDomain reports whether domain belongs to this host. Alternative domains
// are only accepted when includeAlternative is set.
func (s *Static) IsDomain(domain string, includeAlternative bool) bool {
	d, ok := normalize(domain)
	if !ok {
		return false
	}
	if _, ok := s.main[d]; ok {
		return true
	}
	if includeAlternative {
		_, ok := s.alternative[d]
		return ok
	}
	return false
}

// Len returns the number of domains known to the checker.
func (s *Static) Len() int {
	return len(s.main) + len(s.alternative)
}

func normalizeAll(domains []string) map[string]struct{} {
	out := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		if n, ok := normalize(d); ok {
			out[n] = struct{}{}
		}
	}
	return out
}

func normalize(domain string) (string, bool) {
	domain = strings.TrimSuffix(strings.TrimSpace(domain), ".")
	if domain == "" {
		return "", false
	}
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return "", false
	}
	return strings.ToLower(ascii), true
}
