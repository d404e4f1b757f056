package auth

import (
	"context"
	"log/slog"
	"strings"

	"dokumentporten/internal/texas"
	dErrors "dokumentporten/pkg/domain-errors"
)

// Scopes accepted on machine tokens.
const (
	ScopeArkivporten    = "nav:syfo/arkivporten"
	ScopeDokumentporten = "nav:syfo/dokumentporten"
)

// Assurance levels required per citizen issuer.
const (
	acrIdportenHigh = "idporten-loa-high"
	acrTokenXHigh   = "Level4"
)

// Introspector verifies a token with the identity federation and returns its
// claims.
type Introspector interface {
	Introspect(ctx context.Context, identityProvider, token string) (*texas.IntrospectionResponse, error)
}

// Resolution is the outcome of classifying and verifying a bearer token.
// Exactly one of Principal or ReauthRequired is set on success.
type Resolution struct {
	Principal      Principal
	Issuer         Issuer
	ReauthRequired bool
}

// Resolver turns a raw bearer token into a typed principal. Classification is
// done on the unverified issuer claim; verification is delegated to the
// introspection collaborator.
type Resolver struct {
	introspector Introspector
	log          *slog.Logger
}

func NewResolver(introspector Introspector, log *slog.Logger) *Resolver {
	return &Resolver{introspector: introspector, log: log}
}

func (r *Resolver) Resolve(ctx context.Context, rawToken string) (*Resolution, error) {
	if rawToken == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token")
	}

	issuer, err := IssuerFromToken(rawToken)
	if err != nil {
		return nil, err
	}
	if issuer == IssuerUnsupported {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unsupported token issuer")
	}

	claims, err := r.introspector.Introspect(ctx, issuer.IdentityProvider(), rawToken)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "token introspection failed")
	}
	if !claims.Active {
		r.log.WarnContext(ctx, "token is not active", "issuer", issuer, "error", claims.Error)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token is not active")
	}

	switch issuer {
	case IssuerMaskinporten:
		principal, err := r.resolveSystem(rawToken, claims)
		if err != nil {
			return nil, err
		}
		return &Resolution{Principal: principal, Issuer: issuer}, nil
	case IssuerIdporten:
		return r.resolveUser(ctx, issuer, acrIdportenHigh, rawToken, claims)
	case IssuerTokenX:
		return r.resolveUser(ctx, issuer, acrTokenXHigh, rawToken, claims)
	default:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unsupported token issuer")
	}
}

func (r *Resolver) resolveSystem(rawToken string, claims *texas.IntrospectionResponse) (Principal, error) {
	if claims.Consumer == nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no consumer in token claims")
	}
	if claims.Scope != ScopeArkivporten && claims.Scope != ScopeDokumentporten {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid scope from maskinporten")
	}
	systemUserOrg := claims.SystemUserOrganization()
	if systemUserOrg == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no system user organization in token claims")
	}
	systemUserID := claims.SystemUserID()
	if systemUserID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no system user id in token claims")
	}
	return SystemPrincipal{
		Ident:        systemUserOrg,
		Token:        rawToken,
		SystemOwner:  claims.Consumer.ID,
		SystemUserID: systemUserID,
	}, nil
}

func (r *Resolver) resolveUser(ctx context.Context, issuer Issuer, requiredAcr, rawToken string, claims *texas.IntrospectionResponse) (*Resolution, error) {
	if !strings.EqualFold(claims.Acr, requiredAcr) {
		// Insufficient assurance is not a failure; the caller must go
		// through the login flow again.
		r.log.WarnContext(ctx, "assurance level below threshold", "issuer", issuer, "acr", claims.Acr)
		return &Resolution{Issuer: issuer, ReauthRequired: true}, nil
	}
	if claims.Pid == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no pid in token claims")
	}
	return &Resolution{
		Principal: UserPrincipal{Ident: claims.Pid, Token: rawToken},
		Issuer:    issuer,
	}, nil
}
