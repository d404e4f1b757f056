package auth

import (
	"context"
	"strings"

	dErrors "dokumentporten/pkg/domain-errors"
)

// Principal is the resolved caller identity. It is a closed set: every
// consumer type-switches over UserPrincipal and SystemPrincipal and treats
// anything else as a bug.
type Principal interface {
	principal()
}

// UserPrincipal is an individual citizen authenticated at the required
// assurance level.
type UserPrincipal struct {
	Ident string // national identity number
	Token string // raw bearer token, needed for OBO exchange
}

func (UserPrincipal) principal() {}

// SystemPrincipal is a delegated machine caller acting for an organization
// through a registered system user.
type SystemPrincipal struct {
	Ident        string // organization id in authority:orgnumber form
	Token        string
	SystemOwner  string // owning-system organization id, authority:orgnumber form
	SystemUserID string // system-user uuid
}

func (SystemPrincipal) principal() {}

// OrgNumber extracts the organization number from an authority:orgnumber
// identifier.
func OrgNumber(id string) (string, error) {
	parts := strings.SplitN(id, ":", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
		return "", dErrors.Newf(dErrors.CodeInternal, "malformed organization id %q", id)
	}
	return strings.TrimSpace(parts[1]), nil
}

type principalKey struct{}
type issuerKey struct{}

// WithPrincipal stores the resolved principal on the request context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom retrieves the resolved principal, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// WithIssuer stores the classified token issuer on the request context so
// downstream validation can branch on the token variant.
func WithIssuer(ctx context.Context, issuer Issuer) context.Context {
	return context.WithValue(ctx, issuerKey{}, issuer)
}

// IssuerFrom retrieves the classified issuer, defaulting to unsupported.
func IssuerFrom(ctx context.Context) Issuer {
	if issuer, ok := ctx.Value(issuerKey{}).(Issuer); ok {
		return issuer
	}
	return IssuerUnsupported
}
