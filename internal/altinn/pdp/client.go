// Package pdp calls the Altinn policy decision point to answer resource
// access questions for system users and persons.
package pdp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"dokumentporten/internal/altinn/token"
	dErrors "dokumentporten/pkg/domain-errors"
)

// TokenProvider supplies Altinn platform tokens per target scope.
type TokenProvider interface {
	Token(ctx context.Context, target string) (token.Token, error)
}

// Authorizer is the decision contract consumed by services.
type Authorizer interface {
	Authorize(ctx context.Context, subject Subject, orgNumbers []string, resource string) (*Response, error)
}

// Client calls the PDP over the Altinn platform gateway.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	tokens          TokenProvider
	subscriptionKey string
	tracer          trace.Tracer
}

func NewClient(baseURL string, httpClient *http.Client, tokens TokenProvider, subscriptionKey string) *Client {
	return &Client{
		baseURL:         baseURL,
		httpClient:      httpClient,
		tokens:          tokens,
		subscriptionKey: subscriptionKey,
		tracer:          otel.Tracer("dokumentporten/pdp"),
	}
}

func (c *Client) Authorize(ctx context.Context, subject Subject, orgNumbers []string, resource string) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "pdp.authorize")
	defer span.End()

	accessToken, err := c.tokens.Token(ctx, token.TargetPDP)
	if err != nil {
		return nil, fmt.Errorf("pdp token: %w", err)
	}

	payload, err := json.Marshal(NewRequest(subject, orgNumbers, resource))
	if err != nil {
		return nil, fmt.Errorf("marshal pdp request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/authorization/api/v1/authorize", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build pdp request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, dErrors.NewUpstream("pdp.authorize", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, dErrors.NewUpstream("pdp.authorize", resp.StatusCode, fmt.Errorf("%s", slurp))
	}

	var decision Response
	if err := json.NewDecoder(resp.Body).Decode(&decision); err != nil {
		return nil, fmt.Errorf("decode pdp response: %w", err)
	}
	return &decision, nil
}
