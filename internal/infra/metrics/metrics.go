// Package metrics exposes Prometheus counters for credential operations.
package metrics

import (
	"net/http"
	"time"

	"accounts/internal/domain/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "accounts"

// Metrics implements service.Metrics on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	registrations   *prometheus.CounterVec
	authentications *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them together with the Go and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return newWithRegistry(registry)
}

func newWithRegistry(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Total number of sign-up attempts by outcome",
			},
			[]string{"outcome"},
		),
		authentications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "authentications_total",
				Help:      "Total number of sign-in attempts by outcome",
			},
			[]string{"outcome"},
		),
		storeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_call_duration_seconds",
				Help:      "Latency of account store calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(m.registrations, m.authentications, m.storeDuration)

	return m
}

// NewMetrics adapts New to the service.Metrics interface for dependency injection.
func NewMetrics(m *Metrics) service.Metrics {
	return m
}

func (m *Metrics) RecordRegistration(outcome string) {
	m.registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordAuthentication(outcome string) {
	m.authentications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveStoreCall(operation string, elapsed time.Duration) {
	m.storeDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: false,
	})
}
