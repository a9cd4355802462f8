// Package metrics exposes prometheus collectors for the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors on a dedicated registry
// owned by the composition root.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal       *prometheus.CounterVec
	AuthRejectionsTotal *prometheus.CounterVec
	RateLimitedTotal    prometheus.Counter
	DemoKeys            prometheus.Gauge
}

// New creates and registers the service collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "texthub_requests_total",
			Help: "Requests handled, by path and status code.",
		}, []string{"path", "status"}),
		AuthRejectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "texthub_auth_rejections_total",
			Help: "Requests rejected by the auth gate, by reason.",
		}, []string{"reason"}),
		RateLimitedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "texthub_rate_limited_total",
			Help: "Requests rejected because the client exceeded its window budget.",
		}),
		DemoKeys: factory.NewGauge(prometheus.GaugeOpts{
			Name: "texthub_demo_keys",
			Help: "Demo keys issued since process start, expired ones included.",
		}),
	}
}

// Handler returns the exposition handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
