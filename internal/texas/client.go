// Package texas is the client for the token broker sidecar that fronts the
// national identity providers. It handles token introspection, machine token
// minting and OBO exchange; this service never talks to the providers
// directly.
package texas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"dokumentporten/internal/platform/config"
	dErrors "dokumentporten/pkg/domain-errors"
)

// Identity providers known to the broker.
const (
	IdentityProviderMaskinporten = "maskinporten"
	IdentityProviderIdporten     = "idporten"
	IdentityProviderTokenX       = "tokenx"
	IdentityProviderAzureAD      = "azuread"
)

// TokenResponse is the broker's answer to token and exchange requests.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Client calls the token broker over its local HTTP interface.
type Client struct {
	httpClient *http.Client
	cfg        config.TexasConfig
	tracer     trace.Tracer
}

func NewClient(httpClient *http.Client, cfg config.TexasConfig) *Client {
	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		tracer:     otel.Tracer("dokumentporten/texas"),
	}
}

type introspectionRequest struct {
	IdentityProvider string `json:"identity_provider"`
	Token            string `json:"token"`
}

type tokenRequest struct {
	IdentityProvider string `json:"identity_provider"`
	Target           string `json:"target"`
}

type exchangeRequest struct {
	IdentityProvider string `json:"identity_provider"`
	Target           string `json:"target"`
	UserToken        string `json:"user_token"`
}

// Introspect verifies a bearer token with the broker and returns its claims.
func (c *Client) Introspect(ctx context.Context, identityProvider, token string) (*IntrospectionResponse, error) {
	var resp IntrospectionResponse
	err := c.postJSON(ctx, "texas.introspect", c.cfg.IntrospectionEndpoint, introspectionRequest{
		IdentityProvider: identityProvider,
		Token:            token,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SystemToken mints a machine token for the given target scope.
func (c *Client) SystemToken(ctx context.Context, identityProvider, target string) (*TokenResponse, error) {
	var resp TokenResponse
	err := c.postJSON(ctx, "texas.token", c.cfg.TokenEndpoint, tokenRequest{
		IdentityProvider: identityProvider,
		Target:           target,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Exchange performs an on-behalf-of exchange of a user token for the target.
func (c *Client) Exchange(ctx context.Context, identityProvider, target, userToken string) (*TokenResponse, error) {
	var resp TokenResponse
	err := c.postJSON(ctx, "texas.exchange", c.cfg.ExchangeEndpoint, exchangeRequest{
		IdentityProvider: identityProvider,
		Target:           target,
		UserToken:        userToken,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExchangeForTilganger exchanges a citizen token for the access-grants
// service audience.
func (c *Client) ExchangeForTilganger(ctx context.Context, userToken string) (*TokenResponse, error) {
	return c.Exchange(ctx, IdentityProviderTokenX, c.cfg.TilgangerTarget, userToken)
}

func (c *Client) postJSON(ctx context.Context, op, url string, body, out any) error {
	ctx, span := c.tracer.Start(ctx, op)
	defer span.End()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dErrors.NewUpstream(op, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return dErrors.NewUpstream(op, resp.StatusCode, fmt.Errorf("%s", slurp))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
