package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroaccess/internal/onboarding/client"
	"neuroaccess/internal/onboarding/domains"
	"neuroaccess/internal/onboarding/models"
	"neuroaccess/internal/onboarding/settings"
	"neuroaccess/internal/onboarding/store"
	"neuroaccess/pkg/requestcontext"
)

// verifierFunc answers onboarding calls in-process.
type verifierFunc func(ctx context.Context, domain string, req client.Request) (bool, error)

func (f verifierFunc) Verify(ctx context.Context, domain string, req client.Request) (bool, error) {
	return f(ctx, domain, req)
}

type scenario struct {
	service  *Service
	accounts *store.InMemoryAccountStore
	calls    atomic.Int32
}

func newScenario(t *testing.T, verdict bool) *scenario {
	t.Helper()
	ctx := context.Background()

	logins := store.NewInMemoryLoginStore()
	endpoint := remoteEndpoint
	require.NoError(t, logins.Record(ctx, models.BrokerAccountLogin{UserName: userName, RemoteEndpoint: &endpoint, Timestamp: fixedNow}))

	accounts := store.NewInMemoryAccountStore()
	require.NoError(t, accounts.Save(ctx, models.BrokerAccount{UserName: userName, EMail: "previous@example.com"}))

	cfg, err := settings.New(settings.NewInMemoryStore())
	require.NoError(t, err)

	sc := &scenario{accounts: accounts}
	verifier := verifierFunc(func(_ context.Context, domain string, req client.Request) (bool, error) {
		sc.calls.Add(1)
		assert.Equal(t, onboardingDomain, domain)
		assert.Equal(t, remoteEndpoint, req.RemoteEndpoint)
		return verdict, nil
	})

	sc.service, err = New(cfg, domains.NewStatic([]string{hostDomain}, nil), logins, accounts, verifier)
	require.NoError(t, err)
	require.NoError(t, sc.service.Start(ctx))
	return sc
}

func (sc *scenario) email(t *testing.T) string {
	t.Helper()
	account, err := sc.accounts.FindByUserName(context.Background(), userName)
	require.NoError(t, err)
	return account.EMail
}

func TestScenario_VerifiedApplicationUpdatesAccount(t *testing.T) {
	sc := newScenario(t, true)
	ctx := requestcontext.WithTime(context.Background(), fixedNow)

	app := models.NewIdentityApplication("app-1", fullClaims(), nil)
	sc.service.Validate(ctx, app)

	valid, set := app.IsValid()
	require.True(t, set)
	assert.True(t, valid)
	assert.Empty(t, app.Errors)
	assert.Equal(t, "test@example.com", sc.email(t))
	assert.Equal(t, 1, sc.accounts.Updates())
}

func TestScenario_RejectedApplicationLeavesAccount(t *testing.T) {
	sc := newScenario(t, false)

	app := models.NewIdentityApplication("app-1", fullClaims(), nil)
	sc.service.Validate(context.Background(), app)

	valid, _ := app.IsValid()
	assert.False(t, valid)
	require.Len(t, app.Errors, 2)
	assert.Equal(t, "EMAIL", app.Errors[0].Claim)
	assert.Equal(t, "PHONE", app.Errors[1].Claim)
	assert.Equal(t, "previous@example.com", sc.email(t))
	assert.Zero(t, sc.accounts.Updates())
}

func TestScenario_RevalidationIsIdempotent(t *testing.T) {
	sc := newScenario(t, true)
	ctx := context.Background()

	first := sc.service.IsValid(ctx, fullClaims(), 0)
	afterFirst := sc.email(t)
	second := sc.service.IsValid(ctx, fullClaims(), 0)

	assert.Equal(t, first, second)
	assert.Equal(t, afterFirst, sc.email(t))
	assert.Equal(t, "test@example.com", sc.email(t))
}

func TestScenario_CountryRejectedBeforeRemoteCall(t *testing.T) {
	sc := newScenario(t, true)

	result := sc.service.IsValid(context.Background(), withClaim(fullClaims(), "COUNTRY", "BRA"), 0)

	assert.False(t, result.Valid)
	assert.Zero(t, sc.calls.Load())
	assert.Zero(t, sc.accounts.Updates())
}

func TestScenario_ConcurrentValidations(t *testing.T) {
	sc := newScenario(t, true)

	var wg sync.WaitGroup
	results := make([]models.Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = sc.service.IsValid(context.Background(), fullClaims(), 0)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.True(t, r.Valid)
	}
	assert.Equal(t, int32(len(results)), sc.calls.Load())
	assert.Equal(t, "test@example.com", sc.email(t))
}
