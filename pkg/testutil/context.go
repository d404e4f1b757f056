package testutil

import (
	"net/http"

	"dokumentporten/internal/auth"
)

// WithPrincipal attaches a resolved principal to the request context,
// simulating what the auth middleware does for authenticated requests.
func WithPrincipal(req *http.Request, principal auth.Principal) *http.Request {
	return req.WithContext(auth.WithPrincipal(req.Context(), principal))
}

// WithIssuer attaches the classified issuer to the request context.
func WithIssuer(req *http.Request, issuer auth.Issuer) *http.Request {
	return req.WithContext(auth.WithIssuer(req.Context(), issuer))
}
