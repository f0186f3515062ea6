// Package metrics defines the exporter interface the entity caches report
// through, with Prometheus, OpenTelemetry, and no-op implementations.
package metrics

import (
	"time"
)

// Exporter defines the interface for cache metrics exporters.
// This abstraction allows supporting multiple observability systems.
type Exporter interface {
	// ExportStats exports the current cache statistics.
	ExportStats(stats Stats, labels Labels) error

	// RecordOperation records an individual cache operation with timing.
	RecordOperation(operation Operation, duration time.Duration, labels Labels) error

	// Close shuts down the exporter and flushes any pending metrics.
	Close() error
}

// Labels represents key-value pairs for metric labels/tags.
type Labels map[string]string

// Stats defines the cache statistics that can be exported.
// This allows the metrics package to work with any stats implementation.
type Stats interface {
	Hits() int64
	Misses() int64
	Fetches() int64
	Searches() int64
	PushApplied() int64
	StaleDrops() int64
	Persists() int64
	RecordCount() int64
	HitRate() float64
}

// Operation represents different cache operations for metrics.
type Operation string

const (
	OperationFetch   Operation = "fetch"
	OperationSearch  Operation = "search"
	OperationCreate  Operation = "create"
	OperationUpdate  Operation = "update"
	OperationDelete  Operation = "delete"
	OperationPersist Operation = "persist"
	OperationHydrate Operation = "hydrate"
)

// MetricNames defines standard metric names used across exporters.
type MetricNames struct {
	// Counters
	HitsTotal        string
	MissesTotal      string
	FetchesTotal     string
	SearchesTotal    string
	PushAppliedTotal string
	StaleDropsTotal  string
	PersistsTotal    string

	// Histograms
	OperationDuration string

	// Gauges
	RecordCount string
	HitRate     string
}

// DefaultMetricNames returns the default metric names with proper namespacing.
func DefaultMetricNames() MetricNames {
	return MetricNames{
		HitsTotal:         "immosync_hits_total",
		MissesTotal:       "immosync_misses_total",
		FetchesTotal:      "immosync_fetches_total",
		SearchesTotal:     "immosync_searches_total",
		PushAppliedTotal:  "immosync_push_applied_total",
		StaleDropsTotal:   "immosync_stale_drops_total",
		PersistsTotal:     "immosync_persists_total",
		OperationDuration: "immosync_operation_duration_seconds",
		RecordCount:       "immosync_record_count",
		HitRate:           "immosync_hit_rate",
	}
}

// Config holds configuration for metrics exporters.
type Config struct {
	// Enabled determines whether metrics collection is enabled.
	Enabled bool

	// Labels are default labels applied to all metrics. For the Prometheus
	// exporter the key set also fixes the registered label names: labels
	// reported at export time under a name not declared here are dropped.
	// An empty value declares the name without a default.
	Labels Labels

	// MetricNames allows customizing metric names.
	MetricNames MetricNames

	// ReportingInterval determines how often to export stats.
	ReportingInterval time.Duration
}

// NewDefaultConfig creates a default metrics configuration. The cache_name
// label name is pre-declared because every cache attaches it at export time.
func NewDefaultConfig() *Config {
	return &Config{
		Enabled:           true,
		Labels:            Labels{"cache_name": ""},
		MetricNames:       DefaultMetricNames(),
		ReportingInterval: 30 * time.Second,
	}
}

// NoOpExporter implements Exporter with no-op operations.
// Used as the default when metrics are disabled.
type NoOpExporter struct{}

// NewNoOpExporter creates a no-op metrics exporter.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

// ExportStats does nothing.
func (n *NoOpExporter) ExportStats(Stats, Labels) error { return nil }

// RecordOperation does nothing.
func (n *NoOpExporter) RecordOperation(Operation, time.Duration, Labels) error { return nil }

// Close does nothing.
func (n *NoOpExporter) Close() error { return nil }
