// Package token caches short-lived Altinn platform tokens per target scope.
// Tokens are minted by exchanging a Maskinporten token at the Altinn
// authentication API and refreshed proactively before they expire.
package token

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dokumentporten/internal/texas"
	dErrors "dokumentporten/pkg/domain-errors"
)

// Target scopes used by this service.
const (
	TargetDialogporten = "digdir:dialogporten.serviceprovider"
	TargetPDP          = "altinn:authorization/authorize"
)

const (
	// Remaining validity above which a cached token is served as is.
	freshThreshold = 300 * time.Second
	// Remaining validity window in which a lightweight refresh is attempted.
	refreshThreshold = 120 * time.Second
	// Below this the token is as good as expired; go straight to exchange.
	expiredThreshold = 1 * time.Second
)

// SystemTokenSource mints upstream federation tokens.
type SystemTokenSource interface {
	SystemToken(ctx context.Context, identityProvider, target string) (*texas.TokenResponse, error)
}

// Token is a cached Altinn access token.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
	Scope       string
}

// Provider returns live Altinn tokens, minimizing exchanges. One mutex guards
// the whole decision for all targets: coarse, but it rules out duplicate
// concurrent exchanges.
type Provider struct {
	texas      SystemTokenSource
	httpClient *http.Client
	baseURL    string
	log        *slog.Logger

	mu     sync.Mutex
	tokens map[string]Token

	now func() time.Time
}

func NewProvider(texasClient SystemTokenSource, httpClient *http.Client, altinnBaseURL string, log *slog.Logger) *Provider {
	return &Provider{
		texas:      texasClient,
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(altinnBaseURL, "/"),
		log:        log,
		tokens:     make(map[string]Token),
		now:        time.Now,
	}
}

// Token returns a live access token for the target scope.
func (p *Provider) Token(ctx context.Context, target string) (Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cached, ok := p.tokens[target]; ok {
		left := cached.ExpiresAt.Sub(p.now())
		if left > freshThreshold {
			return cached, nil
		}
		if left > expiredThreshold && left <= refreshThreshold {
			refreshed, err := p.refresh(ctx, cached)
			if err == nil {
				p.tokens[target] = refreshed
				return refreshed, nil
			}
			p.log.WarnContext(ctx, "altinn token refresh failed, falling back to exchange",
				"target", target, "error", err)
		}
	}

	minted, err := p.exchange(ctx, target)
	if err != nil {
		return Token{}, err
	}
	p.tokens[target] = minted
	return minted, nil
}

// refresh extends a still-valid token via the Altinn refresh endpoint.
func (p *Provider) refresh(ctx context.Context, current Token) (Token, error) {
	raw, err := p.getQuotedToken(ctx, "altinn.refresh", p.baseURL+"/authentication/api/v1/refresh", current.AccessToken)
	if err != nil {
		return Token{}, err
	}
	return parseAltinnToken(raw)
}

// exchange mints a fresh Maskinporten token and exchanges it at Altinn.
func (p *Provider) exchange(ctx context.Context, target string) (Token, error) {
	upstream, err := p.texas.SystemToken(ctx, texas.IdentityProviderMaskinporten, target)
	if err != nil {
		return Token{}, fmt.Errorf("mint maskinporten token for %s: %w", target, err)
	}
	raw, err := p.getQuotedToken(ctx, "altinn.exchange", p.baseURL+"/authentication/api/v1/exchange/maskinporten", upstream.AccessToken)
	if err != nil {
		return Token{}, err
	}
	return parseAltinnToken(raw)
}

// getQuotedToken performs a bearer-authenticated GET against an Altinn
// authentication endpoint, which returns the token as a quoted JSON string.
func (p *Provider) getQuotedToken(ctx context.Context, op, url, bearer string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", dErrors.NewUpstream(op, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", dErrors.NewUpstream(op, resp.StatusCode, fmt.Errorf("%s", body))
	}
	return strings.Trim(strings.TrimSpace(string(body)), `"`), nil
}

// parseAltinnToken reads expiry and scope out of the token's own claims.
// The token is already trusted; it came straight from Altinn over TLS.
func parseAltinnToken(raw string) (Token, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Token{}, fmt.Errorf("parse altinn token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Token{}, fmt.Errorf("altinn token has no exp claim")
	}
	scope, _ := claims["scope"].(string)
	if scope == "" {
		return Token{}, fmt.Errorf("altinn token has no scope claim")
	}
	return Token{AccessToken: raw, ExpiresAt: exp.Time, Scope: scope}, nil
}
