// Package tilganger talks to the access-grants service that maps a citizen to
// the Altinn resources they hold per organization.
package tilganger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"dokumentporten/internal/auth"
	"dokumentporten/internal/texas"
	dErrors "dokumentporten/pkg/domain-errors"
)

// Response is the grant set for one citizen: which resources they hold for
// which organization numbers, plus the organization hierarchy they appear in.
type Response struct {
	IsError           bool                `json:"isError"`
	Hierarki          []Grant             `json:"hierarki"`
	OrgNrTilTilganger map[string][]string `json:"orgNrTilTilganger"`
	TilgangTilOrgNr   map[string][]string `json:"tilgangTilOrgNr"`
}

// Grant is one node in the citizen's organization hierarchy.
type Grant struct {
	OrgNr             string   `json:"orgnr"`
	Altinn3Tilganger  []string `json:"altinn3Tilganger"`
	Altinn2Tilganger  []string `json:"altinn2Tilganger"`
	Underenheter      []Grant  `json:"underenheter"`
	Navn              string   `json:"navn"`
	OrganisasjonsForm string   `json:"organisasjonsform"`
}

// HasResource reports whether the citizen holds the resource for the given
// organization number.
func (r *Response) HasResource(orgNumber, resource string) bool {
	for _, granted := range r.OrgNrTilTilganger[orgNumber] {
		if granted == resource {
			return true
		}
	}
	return false
}

// TokenExchanger swaps a citizen token for the access-grants audience.
type TokenExchanger interface {
	ExchangeForTilganger(ctx context.Context, userToken string) (*texas.TokenResponse, error)
}

// Fetcher is the client contract consumed by the service layer.
type Fetcher interface {
	FetchTilganger(ctx context.Context, user auth.UserPrincipal) (*Response, error)
}

// Client fetches grants on behalf of a citizen via OBO token exchange.
type Client struct {
	texas      TokenExchanger
	httpClient *http.Client
	baseURL    string
}

func NewClient(texasClient TokenExchanger, httpClient *http.Client, baseURL string) *Client {
	return &Client{texas: texasClient, httpClient: httpClient, baseURL: baseURL}
}

func (c *Client) FetchTilganger(ctx context.Context, user auth.UserPrincipal) (*Response, error) {
	oboToken, err := c.texas.ExchangeForTilganger(ctx, user.Token)
	if err != nil {
		return nil, fmt.Errorf("exchange token for tilganger: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/altinn-tilganger", nil)
	if err != nil {
		return nil, fmt.Errorf("build tilganger request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+oboToken.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, dErrors.NewUpstream("tilganger.fetch", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, dErrors.NewUpstream("tilganger.fetch", resp.StatusCode, fmt.Errorf("%s", slurp))
	}

	var grants Response
	if err := json.NewDecoder(resp.Body).Decode(&grants); err != nil {
		return nil, fmt.Errorf("decode tilganger response: %w", err)
	}
	return &grants, nil
}
