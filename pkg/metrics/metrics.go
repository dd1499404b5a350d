package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	FetchesTotal        *prometheus.CounterVec
	FetchDuration       *prometheus.HistogramVec
	PipelineRunsTotal   *prometheus.CounterVec
	ArtifactsGenerated  *prometheus.CounterVec
}

// New registers the application metrics with reg. Pass prometheus.DefaultRegisterer
// to expose them on /metrics, or a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		FetchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_fetches_total",
				Help: "Outbound catalog calls by collaborator and outcome.",
			},
			[]string{"collaborator", "outcome"}, // outcome: success, empty, transport, status, malformed
		),
		FetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_fetch_duration_seconds",
				Help:    "Duration of outbound catalog calls.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"collaborator"},
		),
		PipelineRunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_runs_total",
				Help: "Pipeline runs by final status.",
			},
			[]string{"status"}, // completed, empty, failed
		),
		ArtifactsGenerated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visualization_artifacts_total",
				Help: "Visualization artifacts written, by chart kind.",
			},
			[]string{"kind"},
		),
	}
}

// NewNop returns metrics bound to a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) ObserveFetch(collaborator, outcome string, seconds float64) {
	m.FetchesTotal.WithLabelValues(collaborator, outcome).Inc()
	m.FetchDuration.WithLabelValues(collaborator).Observe(seconds)
}

func (m *Metrics) IncPipelineRun(status string) {
	m.PipelineRunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) IncArtifact(kind string) {
	m.ArtifactsGenerated.WithLabelValues(kind).Inc()
}
