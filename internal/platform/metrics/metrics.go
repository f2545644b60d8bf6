// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes the Prometheus instruments for the cinema API.

All collectors are registered on an explicit registry so tests can build an
isolated instance without touching the global default registerer.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the API.
type Metrics struct {
	// GateOutcomes counts authentication gate decisions by outcome.
	GateOutcomes *prometheus.CounterVec
	// LoginResults counts login attempts by result.
	LoginResults *prometheus.CounterVec
	// IdentityCache counts identity cache lookups by result (hit, miss, error).
	IdentityCache *prometheus.CounterVec
	// HTTPDuration observes request latency per route pattern.
	HTTPDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		GateOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinema_auth_gate_outcomes_total",
				Help: "Authentication gate decisions by outcome",
			},
			[]string{"outcome"},
		),
		LoginResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinema_auth_login_results_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		IdentityCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinema_auth_identity_cache_total",
				Help: "Identity cache lookups by result",
			},
			[]string{"result"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cinema_http_request_duration_seconds",
				Help:    "HTTP request latency by method, route and status",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// NewRegistry creates a registry carrying the API metrics plus the Go and
// process collectors.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry, NewMetrics(registry)
}

// Handler returns the scrape endpoint for registry.
func Handler(registry prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// # Recorders
//
// Every recorder tolerates a nil receiver so components can run without metrics.

// RecordGate counts one authentication gate outcome.
func (m *Metrics) RecordGate(outcome string) {
	if m == nil {
		return
	}
	m.GateOutcomes.WithLabelValues(outcome).Inc()
}

// RecordLogin counts one login attempt.
func (m *Metrics) RecordLogin(result string) {
	if m == nil {
		return
	}
	m.LoginResults.WithLabelValues(result).Inc()
}

// RecordCache counts one identity cache lookup.
func (m *Metrics) RecordCache(result string) {
	if m == nil {
		return
	}
	m.IdentityCache.WithLabelValues(result).Inc()
}

// ObserveHTTP records the latency of a finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
