package tilganger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dokumentporten/internal/auth"
	"dokumentporten/internal/document/models"
	"dokumentporten/internal/texas"
	dErrors "dokumentporten/pkg/domain-errors"
)

type fakeExchanger struct {
	userToken string
	err       error
}

func (f *fakeExchanger) ExchangeForTilganger(_ context.Context, userToken string) (*texas.TokenResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.userToken = userToken
	return &texas.TokenResponse{AccessToken: "obo-token"}, nil
}

func TestFetchTilganger(t *testing.T) {
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/altinn-tilganger", r.URL.Path)
		authHeader = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(Response{
			OrgNrTilTilganger: map[string][]string{
				"910000001": {"nav_syfo_dialogmote", "nav_syfo_oppfolgingsplan"},
			},
		})
	}))
	defer server.Close()

	exchanger := &fakeExchanger{}
	client := NewClient(exchanger, server.Client(), server.URL)

	grants, err := client.FetchTilganger(context.Background(), auth.UserPrincipal{Ident: "02019012345", Token: "citizen-token"})
	require.NoError(t, err)

	assert.Equal(t, "citizen-token", exchanger.userToken, "grants are fetched on behalf of the citizen")
	assert.Equal(t, "Bearer obo-token", authHeader)
	assert.True(t, grants.HasResource("910000001", "nav_syfo_dialogmote"))
	assert.False(t, grants.HasResource("910000001", "nav_syfo_sykmelding"))
	assert.False(t, grants.HasResource("920000002", "nav_syfo_dialogmote"))
}

func TestFetchTilganger_ExchangeFailure(t *testing.T) {
	client := NewClient(&fakeExchanger{err: errors.New("broker down")}, http.DefaultClient, "http://tilganger")

	_, err := client.FetchTilganger(context.Background(), auth.UserPrincipal{Token: "citizen-token"})
	assert.ErrorContains(t, err, "exchange token for tilganger")
}

func TestFetchTilganger_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(&fakeExchanger{}, server.Client(), server.URL)

	_, err := client.FetchTilganger(context.Background(), auth.UserPrincipal{Token: "citizen-token"})
	var upstream *dErrors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusInternalServerError, upstream.Status)
}

type fakeFetcher struct {
	grants *Response
	err    error
}

func (f *fakeFetcher) FetchTilganger(context.Context, auth.UserPrincipal) (*Response, error) {
	return f.grants, f.err
}

func TestValidateAccessToOrganization(t *testing.T) {
	grants := &Response{OrgNrTilTilganger: map[string][]string{
		"910000001": {"nav_syfo_dialogmote"},
	}}
	svc := NewService(&fakeFetcher{grants: grants}, slog.New(slog.DiscardHandler))
	user := auth.UserPrincipal{Ident: "02019012345", Token: "citizen-token"}

	t.Run("granted", func(t *testing.T) {
		err := svc.ValidateAccessToOrganization(context.Background(), user, "910000001", models.TypeDialogmote)
		assert.NoError(t, err)
	})

	t.Run("resource not held", func(t *testing.T) {
		err := svc.ValidateAccessToOrganization(context.Background(), user, "910000001", models.TypeOppfolgingsplan)
		assert.True(t, dErrors.Is(err, dErrors.CodeForbidden))
	})

	t.Run("organization not in grant set", func(t *testing.T) {
		err := svc.ValidateAccessToOrganization(context.Background(), user, "920000002", models.TypeDialogmote)
		assert.True(t, dErrors.Is(err, dErrors.CodeForbidden))
	})

	t.Run("unknown document type", func(t *testing.T) {
		err := svc.ValidateAccessToOrganization(context.Background(), user, "910000001", models.TypeUndefined)
		assert.True(t, dErrors.Is(err, dErrors.CodeInternal))
	})
}

func TestValidateAccessToOrganization_FetchFailure(t *testing.T) {
	svc := NewService(&fakeFetcher{err: errors.New("connection refused")}, slog.New(slog.DiscardHandler))

	err := svc.ValidateAccessToOrganization(context.Background(), auth.UserPrincipal{}, "910000001", models.TypeDialogmote)
	assert.True(t, dErrors.Is(err, dErrors.CodeInternal))
	assert.NotContains(t, err.Error(), "forbidden")
}
