package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects the request-level Prometheus series for the critique API.
// All series are namespaced with "design_critic_".
type Metrics struct {
	registry *prometheus.Registry

	critiques *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	inflight  prometheus.Gauge
}

// NewMetrics builds the metric set on its own registry so tests never fight
// over the global default.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return &Metrics{
		registry: reg,
		critiques: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "design_critic_critiques_total",
			Help: "Critique requests by provider and outcome kind (ok or error kind).",
		}, []string{"provider", "outcome"}),
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "design_critic_critique_duration_seconds",
			Help:    "End-to-end critique duration by provider.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"provider"}),
		inflight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "design_critic_critiques_inflight",
			Help: "Critique requests currently being processed.",
		}),
	}
}

// Registry exposes the backing registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// observe records one finished critique.
func (m *Metrics) observe(provider, outcome string, elapsed time.Duration) {
	m.critiques.WithLabelValues(provider, outcome).Inc()
	m.duration.WithLabelValues(provider).Observe(elapsed.Seconds())
}
