package httptransport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"

	"dokumentporten/internal/auth"
	"dokumentporten/internal/document/handler"
	"dokumentporten/internal/document/models"
	"dokumentporten/internal/platform/metrics"
)

type denyAllResolver struct{}

func (denyAllResolver) Resolve(context.Context, string) (*auth.Resolution, error) {
	return nil, errors.New("missing bearer token")
}

type unwiredService struct{}

func (unwiredService) GetDocument(context.Context, auth.Principal, uuid.UUID) (*models.Document, error) {
	return nil, errors.New("not wired")
}

func (unwiredService) GetDocumentContent(context.Context, auth.Principal, uuid.UUID) (*models.Document, []byte, error) {
	return nil, nil, errors.New("not wired")
}

func (unwiredService) ListDocuments(context.Context, auth.Principal, string, models.DocumentType) ([]models.Document, error) {
	return nil, errors.New("not wired")
}

func (unwiredService) MarkDocumentRead(context.Context, auth.Principal, uuid.UUID) error {
	return errors.New("not wired")
}

type unwiredSubmitter struct{}

func (unwiredSubmitter) Receive(context.Context, models.Submission) (*models.Document, error) {
	return nil, errors.New("not wired")
}

func testRouter(t *testing.T, ready ReadinessCheck) http.Handler {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	return NewRouter(
		handler.New(unwiredService{}, denyAllResolver{}, log, m),
		handler.NewInternal(unwiredSubmitter{}, log),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ready,
		log,
	)
}

func TestHealthEndpoints(t *testing.T) {
	router := testRouter(t, func(context.Context) error { return nil })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/internal/is_alive", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "I'm alive!", rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/internal/is_ready", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestReadinessFailure(t *testing.T) {
	router := testRouter(t, func(context.Context) error { return errors.New("db down") })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/internal/is_ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(t, func(context.Context) error { return nil })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/internal/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "dokumentporten")
}

func TestExternalRoutesRequireAuth(t *testing.T) {
	router := testRouter(t, func(context.Context) error { return nil })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPanicRecovery(t *testing.T) {
	router := testRouter(t, func(context.Context) error { panic("boom") })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/internal/is_ready", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
