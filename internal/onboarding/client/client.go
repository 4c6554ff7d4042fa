package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// ValidatePath is the onboarding resource that verifies a claimed email or
// phone number against a remote endpoint.
const ValidatePath = "/ID/ValidateOnboarding.ws"

// DefaultTimeout bounds every onboarding call.
const DefaultTimeout = 10 * time.Second

const maxResponseBytes = 64 << 10

// Request carries the facts sent for verification. Empty optional fields are
// left out of the payload.
type Request struct {
	RemoteEndpoint string
	EMail          string
	Phone          string
	Country        string
}

// Payload returns the sparse wire representation of the request.
func (r Request) Payload() map[string]string {
	payload := map[string]string{"RemoteEndPoint": r.RemoteEndpoint}
	if r.EMail != "" {
		payload["EMail"] = r.EMail
	}
	if r.Phone != "" {
		payload["Nr"] = r.Phone
	}
	if r.Country != "" {
		payload["Country"] = r.Country
	}
	return payload
}

// Client calls the onboarding server over HTTPS, authenticating with this
// service's TLS client certificate. It never retries.
type Client struct {
	http    *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	tracer  trace.Tracer
	logger  *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the transport, e.g. to trust a test server. The
// client timeout is still enforced through the request context.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit caps outbound calls per second. Callers wait for a token
// within their context deadline.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New builds a client presenting certificate on every call. A nil certificate
// sends no client certificate, which onboarding servers normally reject.
func New(certificate *tls.Certificate, opts ...Option) *Client {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if certificate != nil {
		tlsConfig.Certificates = []tls.Certificate{*certificate}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	c := &Client{
		http:    &http.Client{Transport: transport},
		timeout: DefaultTimeout,
		tracer:  otel.Tracer("neuroaccess/onboarding/client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadCertificate reads a PEM certificate/key pair for client authentication.
func LoadCertificate(certFile, keyFile string) (*tls.Certificate, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load client certificate: %w", err)
	}
	return &cert, nil
}

// Endpoint returns the verification URL for an onboarding domain.
func Endpoint(domain string) string {
	u := url.URL{Scheme: "https", Host: domain, Path: ValidatePath}
	return u.String()
}

// Verify asks the onboarding server at domain whether the claimed email or
// phone belongs to whoever logged in from the remote endpoint. A true result
// is authoritative.
func (c *Client) Verify(ctx context.Context, domain string, req Request) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "onboarding.validate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("onboarding.domain", domain)),
	)
	defer span.End()

	verdict, err := c.verify(ctx, domain, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(CategoryOf(err)))
		return false, err
	}
	span.SetAttributes(attribute.Bool("onboarding.verdict", verdict))
	return verdict, nil
}

func (c *Client) verify(ctx context.Context, domain string, req Request) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return false, newError(CategoryRateLimited, domain, "outbound call budget exhausted", err)
		}
	}

	body, err := json.Marshal(req.Payload())
	if err != nil {
		return false, newError(CategoryInternal, domain, "encode request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, Endpoint(domain), bytes.NewReader(body))
	if err != nil {
		return false, newError(CategoryInternal, domain, "build request", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return false, classifyTransport(domain, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return false, classifyTransport(domain, err)
	}
	if c.logger != nil {
		c.logger.DebugContext(ctx, "onboarding call completed",
			"domain", domain,
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return parseVerdict(domain, resp.StatusCode, raw)
}

// parseVerdict accepts only a 2xx response whose body is a bare JSON boolean.
func parseVerdict(domain string, status int, body []byte) (bool, error) {
	if status < 200 || status > 299 {
		e := newError(statusCategory(status), domain, fmt.Sprintf("unexpected status %d", status), nil)
		e.StatusCode = status
		return false, e
	}
	body = bytes.TrimSpace(body)
	if !gjson.ValidBytes(body) {
		return false, newError(CategoryBadData, domain, "response is not valid JSON", nil)
	}
	switch gjson.ParseBytes(body).Type {
	case gjson.True:
		return true, nil
	case gjson.False:
		return false, nil
	default:
		return false, newError(CategoryBadData, domain, "response is not a boolean", nil)
	}
}

func statusCategory(status int) Category {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CategoryAuthentication
	case status == http.StatusTooManyRequests:
		return CategoryRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return CategoryTimeout
	case status >= 500:
		return CategoryOutage
	default:
		return CategoryRejected
	}
}

func classifyTransport(domain string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(CategoryTimeout, domain, "request timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(CategoryTimeout, domain, "request timed out", err)
	}
	var verifyErr *tls.CertificateVerificationError
	var authorityErr x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	if errors.As(err, &verifyErr) || errors.As(err, &authorityErr) || errors.As(err, &hostErr) {
		return newError(CategoryAuthentication, domain, "tls handshake failed", err)
	}
	return newError(CategoryOutage, domain, "request failed", err)
}
