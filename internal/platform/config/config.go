package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	dErrors "neuroaccess/pkg/domain-errors"
	strutil "neuroaccess/pkg/platform/strings"
)

// EnvPrefix is stripped from environment variables before they are mapped onto
// configuration keys. A double underscore separates nested keys, so
// NEUROACCESS_POSTGRES__DSN sets postgres.dsn.
const EnvPrefix = "NEUROACCESS_"

// Settings backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Server captures the process level configuration.
type Server struct {
	Addr       string           `json:"addr" validate:"required"`
	LogLevel   string           `json:"log_level" validate:"oneof=debug info warn error"`
	Onboarding OnboardingConfig `json:"onboarding"`
	Postgres   PostgresConfig   `json:"postgres"`
	Redis      RedisConfig      `json:"redis"`
	Kafka      KafkaConfig      `json:"kafka"`
	Admin      AdminConfig      `json:"admin"`
	RateLimit  RateLimitConfig  `json:"rate_limit"`

	// TrustedProxies are the peers, as addresses or CIDR ranges, whose
	// forwarding headers name the client. Everyone else is identified by
	// the connection's address.
	TrustedProxies []string `json:"trusted_proxies" validate:"dive,cidr|ip"`
}

// OnboardingConfig drives the authenticator and its outbound client.
type OnboardingConfig struct {
	DefaultDomain   string        `json:"default_domain" validate:"required,hostname_rfc1123"`
	SettingsBackend string        `json:"settings_backend" validate:"oneof=memory redis postgres"`
	HostDomains     []string      `json:"host_domains" validate:"required,min=1,dive,required"`
	AltDomains      []string      `json:"alt_domains" validate:"dive,required"`
	RequireCountry  bool          `json:"require_country"`
	CertFile        string        `json:"cert_file" validate:"required_with=KeyFile"`
	KeyFile         string        `json:"key_file" validate:"required_with=CertFile"`
	Timeout         time.Duration `json:"timeout" validate:"gt=0"`
	RateLimit       float64       `json:"rate_limit" validate:"gte=0"`
	RateBurst       int           `json:"rate_burst" validate:"gte=0"`
}

// PostgresConfig selects the record store. An empty DSN keeps the in-memory stores.
type PostgresConfig struct {
	DSN          string        `json:"dsn"`
	Driver       string        `json:"driver" validate:"oneof=pgx postgres"`
	LoginTable   string        `json:"login_table" validate:"required"`
	AccountTable string        `json:"account_table" validate:"required"`
	MaxOpenConns int           `json:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int           `json:"max_idle_conns" validate:"gte=0"`
	ConnMaxLife  time.Duration `json:"conn_max_life" validate:"gte=0"`
}

// RedisConfig configures the optional Redis settings store.
type RedisConfig struct {
	URL          string        `json:"url"`
	PoolSize     int           `json:"pool_size" validate:"gte=0"`
	MinIdleConns int           `json:"min_idle_conns" validate:"gte=0"`
	DialTimeout  time.Duration `json:"dial_timeout" validate:"gte=0"`
	ReadTimeout  time.Duration `json:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `json:"write_timeout" validate:"gte=0"`
}

// KafkaConfig configures the audit publisher. No brokers means audit events
// stay in memory.
type KafkaConfig struct {
	Brokers          []string      `json:"brokers"`
	Topic            string        `json:"topic" validate:"required_with=Brokers"`
	FailureThreshold int           `json:"failure_threshold" validate:"gte=0"`
	Cooldown         time.Duration `json:"cooldown" validate:"gte=0"`
}

// AdminConfig protects the admin routes. An empty token disables them.
type AdminConfig struct {
	Token string `json:"token"`
}

// RateLimitConfig limits inbound application requests per client IP. A zero
// limit disables it.
type RateLimitConfig struct {
	PerIP   int           `json:"per_ip" validate:"gte=0"`
	Window  time.Duration `json:"window" validate:"gt=0"`
	Backend string        `json:"backend" validate:"oneof=memory redis"`
}

// Defaults returns the configuration used when neither a file nor the
// environment overrides a value.
func Defaults() Server {
	return Server{
		Addr:     ":8080",
		LogLevel: "info",
		Onboarding: OnboardingConfig{
			DefaultDomain:   "id.tagroot.io",
			SettingsBackend: BackendMemory,
			HostDomains:     []string{"localhost"},
			AltDomains:      []string{},
			Timeout:         10 * time.Second,
		},
		Postgres: PostgresConfig{
			Driver:       "pgx",
			LoginTable:   "broker_account_logins",
			AccountTable: "broker_accounts",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			ConnMaxLife:  30 * time.Minute,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:          []string{},
			Topic:            "neuroaccess.audit",
			FailureThreshold: 5,
			Cooldown:         time.Minute,
		},
		RateLimit: RateLimitConfig{
			PerIP:   120,
			Window:  time.Minute,
			Backend: BackendMemory,
		},
		TrustedProxies: []string{},
	}
}

// FromEnv loads the configuration from defaults and the environment only.
func FromEnv() (Server, error) {
	return Load("")
}

// Load layers defaults, the optional JSON file at path and NEUROACCESS_
// environment variables, in increasing priority, and validates the result.
func Load(path string) (Server, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "json"), nil); err != nil {
		return Server{}, dErrors.Wrap(err, dErrors.CodeInternal, "load default configuration")
	}

	if path != "" {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Server{}, dErrors.Wrap(err, dErrors.CodeNotFound, fmt.Sprintf("configuration file not found: %s", path))
			}
			return Server{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, fmt.Sprintf("read configuration file %s", path))
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Server{}, dErrors.Wrap(err, dErrors.CodeInternal, "load environment configuration")
	}

	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	}
	var cfg Server
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return Server{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "decode configuration")
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// normalize cleans list values split from comma-separated input.
func (c *Server) normalize() {
	c.Onboarding.HostDomains = strutil.DedupeAndTrimLower(c.Onboarding.HostDomains)
	c.Onboarding.AltDomains = strutil.DedupeAndTrimLower(c.Onboarding.AltDomains)
	c.Kafka.Brokers = strutil.DedupeAndTrim(c.Kafka.Brokers)
	c.TrustedProxies = strutil.DedupeAndTrim(c.TrustedProxies)
}

// EnvConfigFile names the configuration file. It selects the file rather than
// a key, so the environment layer skips it.
const EnvConfigFile = EnvPrefix + "CONFIG_FILE"

// envKey maps NEUROACCESS_ONBOARDING__HOST_DOMAINS to onboarding.host_domains.
// An empty result tells koanf to skip the variable.
func envKey(s string) string {
	if s == EnvConfigFile {
		return ""
	}
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints and the cross-section rules that the
// struct tags cannot express.
func (c Server) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return dErrors.Wrap(err, dErrors.CodeValidation,
				fmt.Sprintf("invalid configuration %s: failed %q", fe.Namespace(), fe.Tag()))
		}
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid configuration")
	}

	switch c.Onboarding.SettingsBackend {
	case BackendRedis:
		if c.Redis.URL == "" {
			return dErrors.New(dErrors.CodeValidation, "settings backend redis requires redis.url")
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return dErrors.New(dErrors.CodeValidation, "settings backend postgres requires postgres.dsn")
		}
	}
	if c.RateLimit.Backend == BackendRedis && c.Redis.URL == "" {
		return dErrors.New(dErrors.CodeValidation, "rate limit backend redis requires redis.url")
	}
	return nil
}

// TLSEnabled reports whether a client certificate is configured for the
// onboarding call.
func (c OnboardingConfig) TLSEnabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// RateLimitEnabled reports whether inbound requests are limited per client.
func (c Server) RateLimitEnabled() bool {
	return c.RateLimit.PerIP > 0
}

// KafkaEnabled reports whether audit events are shipped to Kafka.
func (c Server) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}
