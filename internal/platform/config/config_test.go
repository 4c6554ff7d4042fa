package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "neuroaccess/pkg/domain-errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "id.tagroot.io", cfg.Onboarding.DefaultDomain)
	assert.Equal(t, BackendMemory, cfg.Onboarding.SettingsBackend)
	assert.Equal(t, 10*time.Second, cfg.Onboarding.Timeout)
	assert.Equal(t, "broker_account_logins", cfg.Postgres.LoginTable)
	assert.False(t, cfg.KafkaEnabled())
	assert.False(t, cfg.Onboarding.TLSEnabled())
	assert.True(t, cfg.RateLimitEnabled())
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"addr": ":9090",
		"onboarding": {"default_domain": "onboarding.example.org", "require_country": true}
	}`), 0o600))

	t.Setenv("NEUROACCESS_ADDR", ":7070")
	t.Setenv("NEUROACCESS_ONBOARDING__HOST_DOMAINS", "Example.org, example.com,example.org")
	t.Setenv("NEUROACCESS_ONBOARDING__TIMEOUT", "3s")
	t.Setenv("NEUROACCESS_KAFKA__BROKERS", "localhost:9092")
	t.Setenv("NEUROACCESS_RATE_LIMIT__PER_IP", "0")
	t.Setenv("NEUROACCESS_TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.10")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "onboarding.example.org", cfg.Onboarding.DefaultDomain)
	assert.True(t, cfg.Onboarding.RequireCountry)
	assert.Equal(t, []string{"example.org", "example.com"}, cfg.Onboarding.HostDomains)
	assert.Equal(t, 3*time.Second, cfg.Onboarding.Timeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.False(t, cfg.RateLimitEnabled())
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.10"}, cfg.TrustedProxies)
}

func TestLoad_ConfigFileVariableIsNotAKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"addr": ":9191"}`), 0o600))
	t.Setenv(EnvConfigFile, path)

	cfg, err := Load(os.Getenv(EnvConfigFile))
	require.NoError(t, err)
	assert.Equal(t, ":9191", cfg.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"unknown_section": {"x": 1}}`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Server)
	}{
		{
			name:   "unknown settings backend",
			mutate: func(c *Server) { c.Onboarding.SettingsBackend = "etcd" },
		},
		{
			name: "redis backend without url",
			mutate: func(c *Server) {
				c.Onboarding.SettingsBackend = BackendRedis
				c.Redis.URL = ""
			},
		},
		{
			name: "postgres backend without dsn",
			mutate: func(c *Server) {
				c.Onboarding.SettingsBackend = BackendPostgres
			},
		},
		{
			name:   "certificate without key",
			mutate: func(c *Server) { c.Onboarding.CertFile = "client.pem" },
		},
		{
			name:   "no host domains",
			mutate: func(c *Server) { c.Onboarding.HostDomains = nil },
		},
		{
			name:   "redis rate limit without url",
			mutate: func(c *Server) { c.RateLimit.Backend = BackendRedis },
		},
		{
			name:   "zero rate limit window",
			mutate: func(c *Server) { c.RateLimit.Window = 0 },
		},
		{
			name:   "trusted proxy is a host name",
			mutate: func(c *Server) { c.TrustedProxies = []string{"proxy.internal"} },
		},
		{
			name:   "invalid log level",
			mutate: func(c *Server) { c.LogLevel = "verbose" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}
