// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes the collector's Prometheus instrumentation on a
// private registry so tests and embedders never collide with the global
// default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var (
	itemsCollected = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "marketfeed_items_collected_total",
		Help: "Items produced by each source across all runs.",
	}, []string{"source"})

	runs = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "marketfeed_runs_total",
		Help: "Collection runs by source and outcome.",
	}, []string{"source", "status"})

	duplicatesDropped = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "marketfeed_duplicates_dropped_total",
		Help: "Items dropped by URL deduplication within a run.",
	}, []string{"source"})

	deliveryFailures = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "marketfeed_delivery_failures_total",
		Help: "Batches the downstream sink rejected or failed to receive.",
	})

	runDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marketfeed_run_duration_seconds",
		Help:    "Wall-clock duration of collection runs.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"source"})
)

// Registry returns the collector's private registry for scraping.
func Registry() *prometheus.Registry { return registry }

// RecordRun counts one finished run and its duration.
func RecordRun(source, status string, seconds float64) {
	runs.WithLabelValues(source, status).Inc()
	runDuration.WithLabelValues(source).Observe(seconds)
}

// RecordItems counts items produced by a source.
func RecordItems(source string, n int) {
	itemsCollected.WithLabelValues(source).Add(float64(n))
}

// RecordDuplicate counts one item dropped by URL deduplication.
func RecordDuplicate(source string) {
	duplicatesDropped.WithLabelValues(source).Inc()
}

// RecordDeliveryFailure counts one rejected or undeliverable batch.
func RecordDeliveryFailure() {
	deliveryFailures.Inc()
}
