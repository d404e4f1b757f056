// Package httptransport assembles the service's HTTP surface: the external
// document API, the cluster-internal endpoints and the operability probes.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	docHandler "dokumentporten/internal/document/handler"
	"dokumentporten/internal/platform/middleware"
)

// ReadinessCheck reports whether the service can take traffic.
type ReadinessCheck func(ctx context.Context) error

// NewRouter wires all endpoints onto one router.
func NewRouter(
	external *docHandler.Handler,
	internal *docHandler.InternalHandler,
	metricsHandler http.Handler,
	ready ReadinessCheck,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))

	external.Register(r)
	internal.Register(r)

	r.Get("/internal/is_alive", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("I'm alive!"))
	})
	r.Get("/internal/is_ready", func(w http.ResponseWriter, req *http.Request) {
		if err := ready(req.Context()); err != nil {
			logger.ErrorContext(req.Context(), "readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("I'm ready!"))
	})
	r.Method(http.MethodGet, "/internal/metrics", metricsHandler)

	return r
}
