// Package metrics holds the Prometheus collectors shared by the transport,
// the avatar cache and the HTTP server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request outcomes recorded by the transport.
const (
	OutcomeSuccess     = "success"
	OutcomeFailure     = "failure"
	OutcomeCanceled    = "canceled"
	OutcomeCircuitOpen = "circuit_open"
)

// Collector holds all Prometheus metrics for the application. Every
// collector owns its registry so tests can create as many as they like.
type Collector struct {
	registry *prometheus.Registry

	// Simulated transport
	TransportRequests *prometheus.CounterVec
	TransportLatency  *prometheus.HistogramVec

	// HTTP API
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Avatar cache
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewCollector creates a collector with metric names under namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		TransportRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transport_requests_total",
				Help:      "Total number of simulated fixture requests",
			},
			[]string{"endpoint", "outcome"},
		),
		TransportLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transport_request_duration_seconds",
				Help:      "Simulated fixture request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.3, 0.4, 0.5, 0.6, 0.75, 1},
			},
			[]string{"endpoint"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "avatar_cache_hits_total",
			Help:      "Total number of avatar cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "avatar_cache_misses_total",
			Help:      "Total number of avatar cache misses",
		}),
	}

	registry.MustRegister(
		c.TransportRequests,
		c.TransportLatency,
		c.HTTPRequests,
		c.HTTPDuration,
		c.CacheHits,
		c.CacheMisses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry the collectors are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
