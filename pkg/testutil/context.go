package testutil

import (
	"net/http"
	"time"

	"neuroaccess/pkg/requestcontext"
)

// WithClientMetadata attaches client IP and user agent the way the metadata
// middleware would.
func WithClientMetadata(req *http.Request, clientIP, userAgent string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), clientIP, userAgent))
}

// WithRequestTime pins the request time seen by handlers and services.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
