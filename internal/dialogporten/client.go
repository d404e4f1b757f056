package dialogporten

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"dokumentporten/internal/altinn/token"
	dErrors "dokumentporten/pkg/domain-errors"
)

// TokenProvider supplies Altinn platform tokens per target scope.
type TokenProvider interface {
	Token(ctx context.Context, target string) (token.Token, error)
}

// DialogClient is the serviceowner API contract consumed by the delivery
// service.
type DialogClient interface {
	CreateDialog(ctx context.Context, req CreateDialogRequest) (uuid.UUID, error)
	AddTransmission(ctx context.Context, dialogID uuid.UUID, transmission Transmission) (uuid.UUID, error)
	// DeleteDialog returns the upstream status code so callers can tell a
	// confirmed deletion from a dialog that is already gone.
	DeleteDialog(ctx context.Context, dialogID uuid.UUID) (int, error)
}

// Client calls the dialog service's serviceowner API through the Altinn
// platform gateway.
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
		tracer:          otel.Tracer("dokumentporten/dialogporten"),
	}
}

func (c *Client) CreateDialog(ctx context.Context, req CreateDialogRequest) (uuid.UUID, error) {
	return c.postForUUID(ctx, "dialogporten.create_dialog",
		c.baseURL+"/dialogporten/api/v1/serviceowner/dialogs", req)
}

func (c *Client) AddTransmission(ctx context.Context, dialogID uuid.UUID, transmission Transmission) (uuid.UUID, error) {
	return c.postForUUID(ctx, "dialogporten.add_transmission",
		c.baseURL+"/dialogporten/api/v1/serviceowner/dialogs/"+dialogID.String()+"/transmissions", transmission)
}

func (c *Client) DeleteDialog(ctx context.Context, dialogID uuid.UUID) (int, error) {
	ctx, span := c.tracer.Start(ctx, "dialogporten.delete_dialog")
	defer span.End()

	req, err := c.newRequest(ctx, http.MethodDelete,
		c.baseURL+"/dialogporten/api/v1/serviceowner/dialogs/"+dialogID.String(), nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, dErrors.NewUpstream("dialogporten.delete_dialog", 0, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, nil
}

// postForUUID posts a JSON payload and decodes the quoted uuid string the
// serviceowner API responds with.
func (c *Client) postForUUID(ctx context.Context, op, url string, payload any) (uuid.UUID, error) {
	ctx, span := c.tracer.Start(ctx, op)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal %s payload: %w", op, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return uuid.Nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return uuid.Nil, dErrors.NewUpstream(op, 0, err)
	}
	defer resp.Body.Close()

	slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return uuid.Nil, dErrors.NewUpstream(op, resp.StatusCode, fmt.Errorf("%s", slurp))
	}

	id, err := uuid.Parse(strings.Trim(strings.TrimSpace(string(slurp)), `"`))
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse %s response: %w", op, err)
	}
	return id, nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	accessToken, err := c.tokens.Token(ctx, token.TargetDialogporten)
	if err != nil {
		return nil, fmt.Errorf("dialogporten token: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken.AccessToken)
	return req, nil
}
