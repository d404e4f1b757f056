package auth

import (
	"regexp"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"dokumentporten/internal/texas"
	dErrors "dokumentporten/pkg/domain-errors"
)

// Issuer classifies which identity provider minted an inbound token.
type Issuer string

const (
	IssuerMaskinporten Issuer = "maskinporten"
	IssuerIdporten     Issuer = "idporten"
	IssuerTokenX       Issuer = "tokenx"
	IssuerUnsupported  Issuer = "unsupported"
)

var (
	// https://maskinporten.no/.well-known/oauth-authorization-server
	// https://test.maskinporten.no/.well-known/oauth-authorization-server
	maskinportenIssuerPattern = regexp.MustCompile(`^https://(test\.)?maskinporten\.no/?$`)
	// https://idporten.no/.well-known/openid-configuration
	// https://test.idporten.no/.well-known/openid-configuration
	idportenIssuerPattern = regexp.MustCompile(`^https://(test\.)?idporten\.no/?$`)
)

// IssuerFromString classifies a raw iss claim value. The tokenx issuer URL is
// deployment-specific, so it is matched on the substring.
func IssuerFromString(iss string) Issuer {
	switch {
	case maskinportenIssuerPattern.MatchString(iss):
		return IssuerMaskinporten
	case idportenIssuerPattern.MatchString(iss):
		return IssuerIdporten
	case strings.Contains(iss, "tokenx"):
		return IssuerTokenX
	default:
		return IssuerUnsupported
	}
}

// IssuerFromToken reads the iss claim of an unverified token and classifies
// it. Verification happens later, via introspection; here only routing is
// decided.
func IssuerFromToken(raw string) (Issuer, error) {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return IssuerUnsupported, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}
	iss, err := token.Claims.GetIssuer()
	if err != nil || iss == "" {
		return IssuerUnsupported, dErrors.New(dErrors.CodeUnauthorized, "token has no issuer")
	}
	return IssuerFromString(iss), nil
}

// IdentityProvider maps an issuer to the token broker's provider name.
func (i Issuer) IdentityProvider() string {
	switch i {
	case IssuerMaskinporten:
		return texas.IdentityProviderMaskinporten
	case IssuerIdporten:
		return texas.IdentityProviderIdporten
	case IssuerTokenX:
		return texas.IdentityProviderTokenX
	default:
		return ""
	}
}
