// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package telemetry provides the Prometheus collectors for the service.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "preslop"

// Metrics holds all Prometheus metrics for the search service.
type Metrics struct {
	// SearchesTotal counts searches by content filter.
	SearchesTotal *prometheus.CounterVec

	// ProviderCalls counts provider fan-out outcomes by provider and
	// status (ok, error).
	ProviderCalls *prometheus.CounterVec

	// SearchDuration observes end-to-end search latency.
	SearchDuration prometheus.Histogram

	// ItemsReturned observes ranked result set sizes.
	ItemsReturned prometheus.Histogram

	// CacheEvents counts cache lookups by outcome (hit, miss, error).
	CacheEvents *prometheus.CounterVec
}

// New creates and registers the service metrics. A nil registerer uses
// the default registry; tests pass their own.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total searches by content filter",
		}, []string{"filter"}),

		ProviderCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Provider fan-out outcomes by provider and status",
		}, []string{"provider", "status"}),

		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end search latency",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),

		ItemsReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "items_returned",
			Help:      "Ranked result set sizes",
			Buckets:   []float64{0, 1, 5, 10, 20, 50},
		}),

		CacheEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Provider response cache lookups by outcome",
		}, []string{"outcome"}),
	}
}
