package ereg

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "dokumentporten/pkg/domain-errors"
)

func TestGetOrganisasjon(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ereg/api/v1/organisasjon/910000001", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("inkluderHierarki"))
		json.NewEncoder(w).Encode(Organisasjon{
			Organisasjonsnummer: "910000001",
			InngaarIJuridiskEnheter: []Organisasjon{
				{Organisasjonsnummer: "920000002"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	org, err := client.GetOrganisasjon(context.Background(), "910000001")
	require.NoError(t, err)
	require.NotNil(t, org)
	assert.Equal(t, "910000001", org.Organisasjonsnummer)
	assert.True(t, org.BelongsToLegalUnit("920000002"))
	assert.False(t, org.BelongsToLegalUnit("930000003"))
}

func TestGetOrganisasjon_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	org, err := client.GetOrganisasjon(context.Background(), "999999999")
	require.NoError(t, err)
	assert.Nil(t, org)
}

func TestGetOrganisasjon_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "registry unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	_, err := client.GetOrganisasjon(context.Background(), "910000001")
	var upstream *dErrors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.Status)
}

type fakeGetter struct {
	org *Organisasjon
	err error
}

func (f *fakeGetter) GetOrganisasjon(context.Context, string) (*Organisasjon, error) {
	return f.org, f.err
}

func TestServiceGetOrganization(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := NewService(&fakeGetter{org: &Organisasjon{Organisasjonsnummer: "910000001"}})
		org, err := svc.GetOrganization(context.Background(), "910000001")
		require.NoError(t, err)
		assert.Equal(t, "910000001", org.Organisasjonsnummer)
	})

	t.Run("unknown organization is a bad request", func(t *testing.T) {
		svc := NewService(&fakeGetter{})
		_, err := svc.GetOrganization(context.Background(), "999999999")
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	})

	t.Run("registry failure stays internal", func(t *testing.T) {
		svc := NewService(&fakeGetter{err: errors.New("connection reset")})
		_, err := svc.GetOrganization(context.Background(), "910000001")
		assert.True(t, dErrors.Is(err, dErrors.CodeInternal))
	})
}
