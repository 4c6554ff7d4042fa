package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "neuroaccess/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	for _, subject := range []string{"alice", "bob", "alice"} {
		e := audit.NewEvent(audit.EventApplicationRejected, time.Now())
		e.Subject = subject
		require.NoError(t, s.Emit(ctx, e))
	}

	alice, err := s.ListBySubject(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, alice, 2)

	recent, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "bob", recent[0].Subject)
	assert.Equal(t, audit.CategorySecurity, recent[1].Category)

	all, err := s.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	s.Clear()
	alice, err = s.ListBySubject(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, alice)
}
