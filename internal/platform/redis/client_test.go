package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroaccess/internal/platform/config"
)

func TestNew_Unconfigured(t *testing.T) {
	c, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestOptions(t *testing.T) {
	cfg := config.Defaults().Redis
	cfg.URL = "redis://:pw@cache.internal:6380/2"
	cfg.ReadTimeout = 750 * time.Millisecond

	opts, err := options(cfg)
	require.NoError(t, err)

	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, cfg.PoolSize, opts.PoolSize)
	assert.Equal(t, cfg.MinIdleConns, opts.MinIdleConns)
	assert.Equal(t, 750*time.Millisecond, opts.ReadTimeout)
}

func TestOptions_InvalidURL(t *testing.T) {
	_, err := options(config.RedisConfig{URL: "http://not-redis"})
	require.Error(t, err)
}
