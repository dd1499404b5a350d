package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/dataset-explorer/internal/delivery/http/handler"
	"github.com/user/dataset-explorer/internal/delivery/http/middleware"
	"github.com/user/dataset-explorer/pkg/metrics"
)

// New wires the API routes. gatherer backs /metrics.
func New(h *handler.Handler, logger *zap.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(m))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(2 * time.Minute))

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get(handler.ArtifactRoute+"/{file}", h.HandleArtifact)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)
		r.Post("/search", h.HandleSearch)
		r.Get("/runs", h.HandleRuns)
	})

	return r
}
