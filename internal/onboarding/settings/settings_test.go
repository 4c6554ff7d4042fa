package settings

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroaccess/pkg/platform/sentinel"
)

// countingStore counts reads and can block or fail them.
type countingStore struct {
	*InMemoryStore
	gets    atomic.Int32
	release chan struct{}
	err     error
}

func (s *countingStore) Get(ctx context.Context, key string) (string, error) {
	s.gets.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return "", s.err
	}
	return s.InMemoryStore.Get(ctx, key)
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to the default when unset", func(t *testing.T) {
		s, err := New(NewInMemoryStore())
		require.NoError(t, err)
		assert.Empty(t, s.Current())

		require.NoError(t, s.Load(ctx))
		assert.Equal(t, DefaultOnboardingDomain, s.Current())
		assert.True(t, s.Configured())
	})

	t.Run("stored value wins and is trimmed", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.Set(ctx, OnboardingDomainKey, "  onboarding.example.org "))
		s, err := New(store, WithDefault("ignored.example.com"))
		require.NoError(t, err)

		require.NoError(t, s.Load(ctx))
		assert.Equal(t, "onboarding.example.org", s.Current())
	})

	t.Run("blank default leaves it unconfigured", func(t *testing.T) {
		s, err := New(NewInMemoryStore(), WithDefault(" "))
		require.NoError(t, err)

		require.NoError(t, s.Load(ctx))
		assert.False(t, s.Configured())
	})

	t.Run("store failure keeps the previous value", func(t *testing.T) {
		store := &countingStore{InMemoryStore: NewInMemoryStore()}
		s, err := New(store)
		require.NoError(t, err)
		require.NoError(t, s.Load(ctx))

		store.err = sentinel.ErrUnavailable
		err = s.Load(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
		assert.Equal(t, DefaultOnboardingDomain, s.Current())
	})
}

func TestLoad_ConcurrentCallsShareOneRead(t *testing.T) {
	store := &countingStore{InMemoryStore: NewInMemoryStore(), release: make(chan struct{})}
	s, err := New(store)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Load(context.Background()))
		}()
	}
	require.Eventually(t, func() bool { return store.gets.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(store.release)
	wg.Wait()

	assert.LessOrEqual(t, store.gets.Load(), int32(8))
	assert.Equal(t, DefaultOnboardingDomain, s.Current())
}

func TestInvalidate_DiscardsInFlightLoad(t *testing.T) {
	store := &countingStore{InMemoryStore: NewInMemoryStore(), release: make(chan struct{})}
	s, err := New(store)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background()) }()
	require.Eventually(t, func() bool { return store.gets.Load() == 1 }, time.Second, time.Millisecond)

	s.Invalidate()
	close(store.release)
	require.NoError(t, <-done)

	assert.Empty(t, s.Current())
	assert.False(t, s.Configured())

	// a fresh load after invalidation caches again
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, DefaultOnboardingDomain, s.Current())
}

func TestUpdateAndInvalidate(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	s, err := New(store)
	require.NoError(t, err)
	require.NoError(t, s.Load(ctx))

	require.NoError(t, s.Update(ctx, " onboarding.example.org "))
	assert.Equal(t, "onboarding.example.org", s.Current())
	stored, err := store.Get(ctx, OnboardingDomainKey)
	require.NoError(t, err)
	assert.Equal(t, "onboarding.example.org", stored)

	s.Invalidate()
	assert.Empty(t, s.Current())
	assert.False(t, s.Configured())

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, "onboarding.example.org", s.Current())
}
