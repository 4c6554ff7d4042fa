package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"neuroaccess/internal/dispatch"
	"neuroaccess/internal/onboarding/client"
	"neuroaccess/internal/onboarding/domains"
	"neuroaccess/internal/onboarding/handler"
	"neuroaccess/internal/onboarding/metrics"
	"neuroaccess/internal/onboarding/service"
	"neuroaccess/internal/onboarding/settings"
	"neuroaccess/internal/onboarding/store"
	"neuroaccess/internal/platform/config"
	"neuroaccess/internal/platform/httpserver"
	"neuroaccess/internal/platform/logger"
	"neuroaccess/internal/platform/postgres"
	"neuroaccess/internal/platform/redis"
	ratelimitmetrics "neuroaccess/internal/ratelimit/metrics"
	ratelimit "neuroaccess/internal/ratelimit/middleware"
	"neuroaccess/internal/ratelimit/store/bucket"
	dErrors "neuroaccess/pkg/domain-errors"
	audit "neuroaccess/pkg/platform/audit"
	"neuroaccess/pkg/platform/audit/publisher"
	"neuroaccess/pkg/platform/audit/publishers/kafka"
	"neuroaccess/pkg/platform/audit/store/memory"
	auditpostgres "neuroaccess/pkg/platform/audit/store/postgres"
	"neuroaccess/pkg/platform/middleware/metadata"
)

const (
	auditBufferSize = 1024
	// requestHeadroom is added to the onboarding call timeout for the
	// lookups around it.
	requestHeadroom = 5 * time.Second
)

// main wires configuration, storage, the onboarding authenticator and the
// HTTP surface, then serves until SIGINT or SIGTERM.
func main() {
	configPath := flag.String("config", os.Getenv(config.EnvConfigFile), "path to a JSON configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

type closers []func()

func (c *closers) add(fn func()) { *c = append(*c, fn) }

func (c closers) closeAll() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	var cleanup closers
	defer cleanup.closeAll()

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if db != nil {
		cleanup.add(func() { _ = db.Close() })
		if err := postgres.Migrate(ctx, db, cfg.Postgres.LoginTable, cfg.Postgres.AccountTable); err != nil {
			return err
		}
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		cleanup.add(func() { _ = rdb.Close() })
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	settingsStore, err := newSettingsStore(cfg, db, rdb)
	if err != nil {
		return err
	}
	onboardingSettings, err := settings.New(settingsStore,
		settings.WithDefault(cfg.Onboarding.DefaultDomain),
		settings.WithLogger(log),
	)
	if err != nil {
		return err
	}

	logins, accounts := newRecordStores(cfg, db)

	auditPublisher, closeSink, err := newAuditPublisher(cfg, db, log)
	if err != nil {
		return err
	}
	cleanup.add(closeSink)
	cleanup.add(auditPublisher.Close)

	verifier, err := newClient(cfg.Onboarding, log)
	if err != nil {
		return err
	}

	svc, err := service.New(onboardingSettings,
		domains.NewStatic(cfg.Onboarding.HostDomains, cfg.Onboarding.AltDomains),
		logins,
		accounts,
		verifier,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAuditPublisher(auditPublisher),
		service.WithRequireCountry(cfg.Onboarding.RequireCountry),
	)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	cleanup.add(func() { _ = svc.Stop(context.Background()) })

	proxies, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid trusted_proxies")
	}
	handlerOpts := []handler.Option{
		handler.WithLatencyObserver(m),
		handler.WithAdminToken(cfg.Admin.Token),
		handler.WithTimeout(cfg.Onboarding.Timeout + requestHeadroom),
		handler.WithTrustedProxies(proxies),
	}
	if db != nil {
		handlerOpts = append(handlerOpts, handler.WithHealthCheck("postgres", db.PingContext))
	}
	if rdb != nil {
		handlerOpts = append(handlerOpts, handler.WithHealthCheck("redis", rdb.Health))
	}
	if cfg.RateLimitEnabled() {
		limiter, err := newRateLimiter(cfg, rdb, reg, auditPublisher, log)
		if err != nil {
			return err
		}
		handlerOpts = append(handlerOpts, handler.WithRateLimiter(limiter))
	}

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	handler.New(dispatch.New(log, svc), svc, log, handlerOpts...).Register(router)

	log.Info("starting neuro-access authenticator",
		"addr", cfg.Addr,
		"onboarding_domain", svc.OnboardingDomain(),
		"settings_backend", cfg.Onboarding.SettingsBackend,
		"postgres", db != nil,
		"kafka", cfg.KafkaEnabled(),
		"rate_limit_per_ip", cfg.RateLimit.PerIP,
		"trusted_proxies", len(proxies),
	)
	return httpserver.Run(ctx, httpserver.New(cfg.Addr, router), log)
}

func newSettingsStore(cfg config.Server, db *sql.DB, rdb *redis.Client) (settings.Store, error) {
	switch cfg.Onboarding.SettingsBackend {
	case config.BackendRedis:
		if rdb == nil {
			return nil, dErrors.New(dErrors.CodeNotConfigured, "redis settings backend requires redis.url")
		}
		return settings.NewRedisStore(rdb.Client), nil
	case config.BackendPostgres:
		if db == nil {
			return nil, dErrors.New(dErrors.CodeNotConfigured, "postgres settings backend requires postgres.dsn")
		}
		return settings.NewPostgresStore(db), nil
	default:
		return settings.NewInMemoryStore(), nil
	}
}

func newRateLimiter(cfg config.Server, rdb *redis.Client, reg prometheus.Registerer, pub audit.Publisher, log *slog.Logger) (*ratelimit.Middleware, error) {
	var buckets ratelimit.BucketStore = bucket.NewInMemoryBucketStore()
	if cfg.RateLimit.Backend == config.BackendRedis {
		if rdb == nil {
			return nil, dErrors.New(dErrors.CodeNotConfigured, "redis rate limit backend requires redis.url")
		}
		buckets = bucket.NewRedisBucketStore(rdb.Client)
	}
	return ratelimit.New(buckets, cfg.RateLimit.PerIP, cfg.RateLimit.Window, log,
		ratelimit.WithMetrics(ratelimitmetrics.New(reg)),
		ratelimit.WithAuditPublisher(pub),
	), nil
}

func newRecordStores(cfg config.Server, db *sql.DB) (service.LoginStore, service.AccountStore) {
	if db == nil {
		return store.NewInMemoryLoginStore(), store.NewInMemoryAccountStore()
	}
	return store.NewPostgresLoginStore(db, cfg.Postgres.LoginTable),
		store.NewPostgresAccountStore(db, cfg.Postgres.AccountTable)
}

// newAuditPublisher ships events to Kafka when brokers are configured, with
// Postgres or memory catching what Kafka cannot take. The returned func
// closes the Kafka producer and must run after the publisher drained.
func newAuditPublisher(cfg config.Server, db *sql.DB, log *slog.Logger) (*publisher.Publisher, func(), error) {
	var fallback audit.Publisher = memory.NewInMemoryStore()
	if db != nil {
		fallback = auditpostgres.New(db)
	}
	if !cfg.KafkaEnabled() {
		return publisher.NewPublisher(fallback,
			publisher.WithAsyncBuffer(auditBufferSize),
			publisher.WithLogger(log),
		), func() {}, nil
	}

	producer, err := kafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, kafka.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}
	return publisher.NewPublisher(producer,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithFallback(fallback),
		publisher.WithBreaker(cfg.Kafka.FailureThreshold, cfg.Kafka.Cooldown),
		publisher.WithLogger(log),
	), producer.Close, nil
}

func newClient(cfg config.OnboardingConfig, log *slog.Logger) (*client.Client, error) {
	opts := []client.Option{
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(log),
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, client.WithRateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	if !cfg.TLSEnabled() {
		return client.New(nil, opts...), nil
	}
	cert, err := client.LoadCertificate(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, err
	}
	return client.New(cert, opts...), nil
}
