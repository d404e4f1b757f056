package pdp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dokumentporten/internal/altinn/token"
)

func TestNewRequest(t *testing.T) {
	req := NewRequest(SystemSubject("8abc9cbb-4e3e-4d1e-a7e3-58f91e2b0a7e"),
		[]string{"910000001", "920000002", "910000001"}, "nav_syfo_dialogmote")

	inner := req.Request
	assert.True(t, inner.ReturnPolicyIDList)

	require.Len(t, inner.AccessSubject, 1)
	subject := inner.AccessSubject[0].Attribute
	require.Len(t, subject, 1)
	assert.Equal(t, "urn:altinn:systemuser:uuid", subject[0].AttributeID)
	assert.Equal(t, "8abc9cbb-4e3e-4d1e-a7e3-58f91e2b0a7e", subject[0].Value)

	require.Len(t, inner.Action, 1)
	assert.Equal(t, "access", inner.Action[0].Attribute[0].Value)

	// Duplicate org numbers collapse to one resource category.
	require.Len(t, inner.Resource, 2)
	for i, wantOrg := range []string{"910000001", "920000002"} {
		attrs := inner.Resource[i].Attribute
		require.Len(t, attrs, 2)
		assert.Equal(t, "urn:altinn:resource", attrs[0].AttributeID)
		assert.Equal(t, "nav_syfo_dialogmote", attrs[0].Value)
		assert.Equal(t, "urn:altinn:organization:identifier-no", attrs[1].AttributeID)
		assert.Equal(t, wantOrg, attrs[1].Value)
	}
}

func TestPersonSubject(t *testing.T) {
	req := NewRequest(PersonSubject("02019012345"), []string{"910000001"}, "nav_syfo_dialogmote")
	assert.Equal(t, "urn:altinn:person:identifier-no", req.Request.AccessSubject[0].Attribute[0].AttributeID)
}

func TestResponsePermitted(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want bool
	}{
		{"permit", Response{Response: []DecisionResult{{Decision: DecisionPermit}}}, true},
		{"deny", Response{Response: []DecisionResult{{Decision: DecisionDeny}}}, false},
		{"not applicable", Response{Response: []DecisionResult{{Decision: DecisionNotApplicable}}}, false},
		{"indeterminate", Response{Response: []DecisionResult{{Decision: DecisionIndeterminate}}}, false},
		{"empty", Response{}, false},
		{"first decision wins", Response{Response: []DecisionResult{{Decision: DecisionDeny}, {Decision: DecisionPermit}}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.resp.Permitted())
		})
	}
}

type pdpTokens struct{}

func (pdpTokens) Token(context.Context, string) (token.Token, error) {
	return token.Token{AccessToken: "altinn-token", ExpiresAt: time.Now().Add(time.Minute)}, nil
}

func TestClientAuthorize(t *testing.T) {
	var got Request
	var header http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/authorization/api/v1/authorize", r.URL.Path)
		header = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(Response{Response: []DecisionResult{{Decision: DecisionPermit}}})
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), pdpTokens{}, "apim-key")

	decision, err := client.Authorize(context.Background(), SystemSubject("8abc9cbb-4e3e-4d1e-a7e3-58f91e2b0a7e"),
		[]string{"910000001"}, "nav_syfo_dialogmote")
	require.NoError(t, err)

	assert.True(t, decision.Permitted())
	assert.Equal(t, "Bearer altinn-token", header.Get("Authorization"))
	assert.Equal(t, "apim-key", header.Get("Ocp-Apim-Subscription-Key"))
	assert.Equal(t, "urn:altinn:systemuser:uuid", got.Request.AccessSubject[0].Attribute[0].AttributeID)
}

type fakeAuthorizer struct {
	resp *Response
	err  error
}

func (f *fakeAuthorizer) Authorize(context.Context, Subject, []string, string) (*Response, error) {
	return f.resp, f.err
}

func TestHasAccessToResource(t *testing.T) {
	svc := NewService(&fakeAuthorizer{resp: &Response{Response: []DecisionResult{{Decision: DecisionPermit}}}})
	permitted, err := svc.HasAccessToResource(context.Background(), SystemSubject("id"), []string{"910000001"}, "nav_syfo_dialogmote")
	require.NoError(t, err)
	assert.True(t, permitted)

	svc = NewService(&fakeAuthorizer{resp: &Response{Response: []DecisionResult{{Decision: DecisionDeny}}}})
	permitted, err = svc.HasAccessToResource(context.Background(), SystemSubject("id"), []string{"910000001"}, "nav_syfo_dialogmote")
	require.NoError(t, err)
	assert.False(t, permitted)

	svc = NewService(&fakeAuthorizer{err: errors.New("gateway timeout")})
	_, err = svc.HasAccessToResource(context.Background(), SystemSubject("id"), []string{"910000001"}, "nav_syfo_dialogmote")
	assert.Error(t, err)
}
