package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroaccess/internal/onboarding/models"
	"neuroaccess/pkg/platform/sentinel"
)

func TestInMemoryLoginStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryLoginStore()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	first, second := "203.0.113.1", "203.0.113.2"

	require.NoError(t, s.Record(ctx, models.BrokerAccountLogin{UserName: "alice", RemoteEndpoint: &second, Timestamp: base.Add(time.Hour)}))
	require.NoError(t, s.Record(ctx, models.BrokerAccountLogin{UserName: "alice", RemoteEndpoint: &first, Timestamp: base}))

	login, err := s.LastLogin(ctx, "alice")
	require.NoError(t, err)
	endpoint, ok := login.Endpoint()
	require.True(t, ok)
	assert.Equal(t, second, endpoint)

	// returned copy does not alias the stored record
	*login.RemoteEndpoint = "mutated"
	again, err := s.LastLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, second, *again.RemoteEndpoint)

	_, err = s.LastLogin(ctx, "Alice")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryAccountStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryAccountStore()
	require.NoError(t, s.Save(ctx, models.BrokerAccount{UserName: "alice"}))

	now := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpdateEMail(ctx, "alice", " alice@example.com ", now))

	account, err := s.FindByUserName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, " alice@example.com ", account.EMail, "stored verbatim like the postgres store")
	assert.Equal(t, now, account.UpdatedAt)
	assert.Equal(t, 1, s.Updates())

	assert.ErrorIs(t, s.UpdateEMail(ctx, "bob", "x", now), sentinel.ErrNotFound)
	_, err = s.FindByUserName(ctx, "bob")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
