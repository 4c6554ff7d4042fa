// Package admin guards operator routes with a shared secret.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "neuroaccess/pkg/domain-errors"
	"neuroaccess/pkg/platform/httputil"
	"neuroaccess/pkg/requestcontext"
)

// HeaderAdminToken carries the shared admin secret.
const HeaderAdminToken = "X-Admin-Token"

var errUnauthorized = dErrors.New(dErrors.CodeUnauthorized, "admin token required")

// RequireAdminToken admits requests presenting expected in X-Admin-Token.
// An empty expected value locks the routes.
func RequireAdminToken(expected string, logger *slog.Logger) func(http.Handler) http.Handler {
	want := []byte(expected)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(want) > 0 && subtle.ConstantTimeCompare([]byte(r.Header.Get(HeaderAdminToken)), want) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			logger.WarnContext(ctx, "admin request rejected",
				"path", r.URL.Path,
				"request_id", requestcontext.RequestID(ctx),
				"client_ip", requestcontext.ClientIP(ctx),
			)
			httputil.WriteError(w, errUnauthorized)
		})
	}
}
