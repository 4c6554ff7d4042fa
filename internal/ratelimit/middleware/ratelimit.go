package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"neuroaccess/internal/ratelimit/metrics"
	"neuroaccess/internal/ratelimit/models"
	"neuroaccess/pkg/platform/audit"
	"neuroaccess/pkg/platform/httputil"
	"neuroaccess/pkg/platform/middleware/metadata"
	"neuroaccess/pkg/requestcontext"
)

// BucketStore admits or refuses one request against a keyed window.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
}

// Middleware limits requests per client IP with a sliding window.
type Middleware struct {
	store     BucketStore
	limit     int
	window    time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher audit.Publisher
}

type Option func(*Middleware)

func WithMetrics(m *metrics.Metrics) Option {
	return func(mw *Middleware) {
		mw.metrics = m
	}
}

// WithAuditPublisher emits a security event for every rejected request.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(mw *Middleware) {
		mw.publisher = p
	}
}

// New returns a limiter admitting limit requests per window for each client.
func New(store BucketStore, limit int, window time.Duration, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		store:  store,
		limit:  limit,
		window: window,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// PerClientIP limits the wrapped routes under the given class. The client IP
// comes from the metadata middleware, or the peer address when it did not
// run. Store failures fail open.
func (m *Middleware) PerClientIP(class string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)
			if ip == "" {
				ip = metadata.RemoteIP(r)
			}

			result, err := m.store.Allow(ctx, models.Key(class, ip), m.limit, m.window)
			if err != nil {
				m.metrics.IncrementStoreErrors()
				m.logger.ErrorContext(ctx, "failed to check rate limit",
					"class", class,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if !result.Allowed {
				m.metrics.IncrementRejections(class)
				m.audit(ctx, class, ip)
				writeRateLimitExceeded(w, result)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) audit(ctx context.Context, class, ip string) {
	event := audit.NewEvent(audit.EventRateLimited, requestcontext.Now(ctx))
	event.Subject = ip
	event.Reason = class
	event.RequestID = requestcontext.RequestID(ctx)
	event.Severity = audit.SeverityWarning
	audit.Log(ctx, m.logger, m.publisher, event, "class", class)
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.ExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests from this address. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
