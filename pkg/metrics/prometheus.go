package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusExporter implements the Exporter interface for Prometheus metrics.
type PrometheusExporter struct {
	config   *Config
	registry prometheus.Registerer

	hitsTotal        *prometheus.CounterVec
	missesTotal      *prometheus.CounterVec
	fetchesTotal     *prometheus.CounterVec
	searchesTotal    *prometheus.CounterVec
	pushAppliedTotal *prometheus.CounterVec
	staleDropsTotal  *prometheus.CounterVec
	persistsTotal    *prometheus.CounterVec

	operationDuration *prometheus.HistogramVec

	recordCount *prometheus.GaugeVec
	hitRate     *prometheus.GaugeVec

	// Last exported counter values, so cumulative stats map onto
	// monotonically increasing Prometheus counters.
	lastExported map[string]statsSnapshot
}

type statsSnapshot struct {
	hits        int64
	misses      int64
	fetches     int64
	searches    int64
	pushApplied int64
	staleDrops  int64
	persists    int64
}

// PrometheusConfig holds Prometheus-specific configuration.
type PrometheusConfig struct {
	// Registry is the Prometheus registry to use (optional, uses default if nil).
	Registry prometheus.Registerer

	// DurationBuckets for the operation duration histogram.
	DurationBuckets []float64
}

// NewPrometheusExporter creates a new Prometheus metrics exporter.
func NewPrometheusExporter(config *Config, promConfig *PrometheusConfig) (*PrometheusExporter, error) {
	if config == nil {
		config = NewDefaultConfig()
	}
	if promConfig == nil {
		promConfig = &PrometheusConfig{}
	}

	registry := promConfig.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	durationBuckets := promConfig.DurationBuckets
	if durationBuckets == nil {
		durationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	}

	labelNames := labelNamesFor(config.Labels)
	names := config.MetricNames

	e := &PrometheusExporter{
		config:       config,
		registry:     registry,
		lastExported: make(map[string]statsSnapshot),
	}

	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labelNames)
	}

	e.hitsTotal = counter(names.HitsTotal, "Total number of cache hits")
	e.missesTotal = counter(names.MissesTotal, "Total number of cache misses")
	e.fetchesTotal = counter(names.FetchesTotal, "Total number of backend fetch calls")
	e.searchesTotal = counter(names.SearchesTotal, "Total number of backend search calls")
	e.pushAppliedTotal = counter(names.PushAppliedTotal, "Total number of applied push events")
	e.staleDropsTotal = counter(names.StaleDropsTotal, "Total number of discarded stale responses")
	e.persistsTotal = counter(names.PersistsTotal, "Total number of persistence writes")

	e.operationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    names.OperationDuration,
		Help:    "Duration of cache operations in seconds",
		Buckets: durationBuckets,
	}, append([]string{"operation"}, labelNames...))

	e.recordCount = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: names.RecordCount,
		Help: "Current number of cached records",
	}, labelNames)
	e.hitRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: names.HitRate,
		Help: "Cache hit rate percentage",
	}, labelNames)

	collectors := []prometheus.Collector{
		e.hitsTotal, e.missesTotal, e.fetchesTotal, e.searchesTotal,
		e.pushAppliedTotal, e.staleDropsTotal, e.persistsTotal,
		e.operationDuration, e.recordCount, e.hitRate,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return e, nil
}

// ExportStats exports the current cache statistics.
func (e *PrometheusExporter) ExportStats(stats Stats, labels Labels) error {
	values := e.labelValues(labels)
	key := fmt.Sprint(values)

	last := e.lastExported[key]
	current := statsSnapshot{
		hits:        stats.Hits(),
		misses:      stats.Misses(),
		fetches:     stats.Fetches(),
		searches:    stats.Searches(),
		pushApplied: stats.PushApplied(),
		staleDrops:  stats.StaleDrops(),
		persists:    stats.Persists(),
	}

	addDelta := func(vec *prometheus.CounterVec, now, prev int64) {
		if delta := now - prev; delta > 0 {
			vec.WithLabelValues(values...).Add(float64(delta))
		}
	}
	addDelta(e.hitsTotal, current.hits, last.hits)
	addDelta(e.missesTotal, current.misses, last.misses)
	addDelta(e.fetchesTotal, current.fetches, last.fetches)
	addDelta(e.searchesTotal, current.searches, last.searches)
	addDelta(e.pushAppliedTotal, current.pushApplied, last.pushApplied)
	addDelta(e.staleDropsTotal, current.staleDrops, last.staleDrops)
	addDelta(e.persistsTotal, current.persists, last.persists)
	e.lastExported[key] = current

	e.recordCount.WithLabelValues(values...).Set(float64(stats.RecordCount()))
	e.hitRate.WithLabelValues(values...).Set(stats.HitRate())

	return nil
}

// RecordOperation records an individual cache operation with timing.
func (e *PrometheusExporter) RecordOperation(operation Operation, duration time.Duration, labels Labels) error {
	values := append([]string{string(operation)}, e.labelValues(labels)...)
	e.operationDuration.WithLabelValues(values...).Observe(duration.Seconds())
	return nil
}

// Close shuts down the exporter.
func (e *PrometheusExporter) Close() error {
	return nil
}

// labelValues resolves the configured label names against the provided labels,
// falling back to the exporter defaults.
func (e *PrometheusExporter) labelValues(labels Labels) []string {
	names := labelNamesFor(e.config.Labels)
	values := make([]string, len(names))
	for i, name := range names {
		if v, ok := labels[name]; ok {
			values[i] = v
		} else {
			values[i] = e.config.Labels[name]
		}
	}
	return values
}

// labelNamesFor returns the sorted label names so vector registration and
// lookup agree on ordering.
func labelNamesFor(labels Labels) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
