package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"dokumentporten/internal/auth"
	"dokumentporten/internal/platform/metrics"
	dErrors "dokumentporten/pkg/domain-errors"
)

// PrincipalResolver resolves a raw bearer token into a caller identity.
type PrincipalResolver interface {
	Resolve(ctx context.Context, rawToken string) (*auth.Resolution, error)
}

// RequireAuth resolves the bearer token on every request and attaches the
// principal and issuer to the context. A caller with insufficient assurance
// level is redirected to the login flow rather than rejected.
func RequireAuth(resolver PrincipalResolver, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := bearerToken(r)

			resolution, err := resolver.Resolve(ctx, token)
			if err != nil {
				m.AuthOutcomes.WithLabelValues("unknown", "denied").Inc()
				logger.WarnContext(ctx, "unauthorized request",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeAuthError(w, err)
				return
			}

			if resolution.ReauthRequired {
				m.AuthOutcomes.WithLabelValues(string(resolution.Issuer), "reauth").Inc()
				http.Redirect(w, r, "/oauth2/login?redirect="+url.QueryEscape(r.URL.Path), http.StatusFound)
				return
			}

			m.AuthOutcomes.WithLabelValues(string(resolution.Issuer), "ok").Inc()
			ctx = auth.WithPrincipal(ctx, resolution.Principal)
			ctx = auth.WithIssuer(ctx, resolution.Issuer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	message := "Unauthorized"
	if code := dErrors.CodeOf(err); code == dErrors.CodeInternal {
		status = http.StatusInternalServerError
		message = "Internal Server Error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
