package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"neuroaccess/pkg/platform/sentinel"
)

// OnboardingDomainKey is the runtime-setting key holding the onboarding
// server's host name.
const OnboardingDomainKey = "neuroaccess.onboarding_neuron"

// DefaultOnboardingDomain is used when no runtime setting has been stored.
const DefaultOnboardingDomain = "id.tagroot.io"

// Store reads and writes runtime settings. Get returns sentinel.ErrNotFound
// when the key has never been set.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Settings caches the onboarding domain for one authenticator instance.
// The cached value is read-mostly: it is only rewritten by Load and cleared
// by Invalidate, never during a validation.
type Settings struct {
	store    Store
	fallback string
	logger   *slog.Logger

	mu         sync.Mutex // orders cache writes against Invalidate
	generation uint64
	current    atomic.Pointer[string]
	loads      singleflight.Group
}

type Option func(*Settings)

// WithDefault overrides the value used when the store has no entry. An empty
// default leaves the authenticator unconfigured until a value is stored.
func WithDefault(domain string) Option {
	return func(s *Settings) {
		s.fallback = strings.TrimSpace(domain)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Settings) {
		s.logger = logger
	}
}

// New constructs an unloaded Settings; Current returns "" until Load succeeds.
func New(store Store, opts ...Option) (*Settings, error) {
	if store == nil {
		return nil, errors.New("settings store is required")
	}
	s := &Settings{
		store:    store,
		fallback: DefaultOnboardingDomain,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load reads the onboarding domain from the store and caches it. Concurrent
// calls share a single store read. A read that was in flight when Invalidate
// ran is discarded.
func (s *Settings) Load(ctx context.Context) error {
	_, err, _ := s.loads.Do(OnboardingDomainKey, func() (any, error) {
		s.mu.Lock()
		generation := s.generation
		s.mu.Unlock()

		value, err := s.store.Get(ctx, OnboardingDomainKey)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			value = s.fallback
		case err != nil:
			return nil, fmt.Errorf("load onboarding domain: %w", err)
		}
		value = strings.TrimSpace(value)

		s.mu.Lock()
		stale := generation != s.generation
		if !stale {
			s.current.Store(&value)
		}
		s.mu.Unlock()
		if stale {
			if s.logger != nil {
				s.logger.InfoContext(ctx, "onboarding domain load discarded after invalidation")
			}
			return "", nil
		}

		if s.logger != nil {
			s.logger.InfoContext(ctx, "onboarding domain loaded",
				"domain", value,
				"configured", value != "",
			)
		}
		return value, nil
	})
	return err
}

// Update stores a new onboarding domain and reloads the cache.
func (s *Settings) Update(ctx context.Context, domain string) error {
	if err := s.store.Set(ctx, OnboardingDomainKey, strings.TrimSpace(domain)); err != nil {
		return fmt.Errorf("store onboarding domain: %w", err)
	}
	return s.Load(ctx)
}

// Invalidate clears the cached value. The authenticator reports itself as
// unconfigured until the next Load.
func (s *Settings) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.current.Store(nil)
}

// Current returns the cached onboarding domain, or "" when not loaded.
func (s *Settings) Current() string {
	if v := s.current.Load(); v != nil {
		return *v
	}
	return ""
}

// Configured reports whether a non-blank onboarding domain is cached.
func (s *Settings) Configured() bool {
	return s.Current() != ""
}
