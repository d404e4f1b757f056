// Package ereg resolves organization numbers against the central organization
// registry, including the legal-unit hierarchy used for access checks.
package ereg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	dErrors "dokumentporten/pkg/domain-errors"
)

// Organisasjon is a registry record. InngaarIJuridiskEnheter lists the legal
// units the organization belongs to.
type Organisasjon struct {
	Organisasjonsnummer     string         `json:"organisasjonsnummer"`
	InngaarIJuridiskEnheter []Organisasjon `json:"inngaarIJuridiskEnheter,omitempty"`
	DriverVirksomheter      []Organisasjon `json:"driverVirksomheter,omitempty"`
}

// BelongsToLegalUnit reports whether orgNumber is one of the legal units this
// organization belongs to.
func (o *Organisasjon) BelongsToLegalUnit(orgNumber string) bool {
	for _, unit := range o.InngaarIJuridiskEnheter {
		if unit.Organisasjonsnummer == orgNumber {
			return true
		}
	}
	return false
}

// Getter is the client contract consumed by the service layer.
type Getter interface {
	GetOrganisasjon(ctx context.Context, orgNumber string) (*Organisasjon, error)
}

// Client fetches organization records over HTTP. Not-found is a valid
// outcome and returns (nil, nil).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

func (c *Client) GetOrganisasjon(ctx context.Context, orgNumber string) (*Organisasjon, error) {
	url := fmt.Sprintf("%s/ereg/api/v1/organisasjon/%s?inkluderHierarki=true", c.baseURL, orgNumber)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build ereg request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, dErrors.NewUpstream("ereg.get", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, dErrors.NewUpstream("ereg.get", resp.StatusCode, fmt.Errorf("%s", slurp))
	}

	var org Organisasjon
	if err := json.NewDecoder(resp.Body).Decode(&org); err != nil {
		return nil, fmt.Errorf("decode ereg response: %w", err)
	}
	return &org, nil
}
