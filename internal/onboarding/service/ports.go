package service

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"neuroaccess/internal/onboarding/client"
	"neuroaccess/internal/onboarding/models"
	"neuroaccess/pkg/platform/audit"
)

// LoginStore reads login history. LastLogin returns sentinel.ErrNotFound
// when the user has never logged in.
type LoginStore interface {
	LastLogin(ctx context.Context, userName string) (*models.BrokerAccountLogin, error)
}

// AccountStore reads and updates broker accounts. FindByUserName returns
// sentinel.ErrNotFound for unknown users.
type AccountStore interface {
	FindByUserName(ctx context.Context, userName string) (*models.BrokerAccount, error)
	UpdateEMail(ctx context.Context, userName, email string, now time.Time) error
}

// Verifier asks the onboarding server to confirm a claimed email or phone.
type Verifier interface {
	Verify(ctx context.Context, domain string, req client.Request) (bool, error)
}

// DomainChecker reports whether a domain is served by this host.
type DomainChecker interface {
	IsDomain(domain string, includeAlternative bool) bool
}

// Settings holds the cached onboarding domain.
type Settings interface {
	Load(ctx context.Context) error
	Update(ctx context.Context, domain string) error
	Invalidate()
	Current() string
}

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
