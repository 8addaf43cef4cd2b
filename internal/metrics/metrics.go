// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider call outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
)

var (
	// ProviderRequests counts provider calls by outcome.
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civic_search_provider_requests_total",
			Help: "Content provider calls by provider and outcome (ok or fallback)",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderDuration tracks provider call latency, fallback included.
	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "civic_search_provider_duration_seconds",
			Help:    "Content provider call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// Requests counts facade calls by endpoint and status.
	Requests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "civic_search_requests_total",
			Help: "Search and suggestion requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)
)

// ObserveProvider records one provider call.
func ObserveProvider(provider, outcome string, started time.Time) {
	ProviderRequests.WithLabelValues(provider, outcome).Inc()
	ProviderDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}
