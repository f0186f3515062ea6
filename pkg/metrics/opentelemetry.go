package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OpenTelemetryExporter implements the Exporter interface for OpenTelemetry metrics.
type OpenTelemetryExporter struct {
	config *Config
	meter  metric.Meter
	ctx    context.Context

	hitsCounter        metric.Int64Counter
	missesCounter      metric.Int64Counter
	fetchesCounter     metric.Int64Counter
	searchesCounter    metric.Int64Counter
	pushAppliedCounter metric.Int64Counter
	staleDropsCounter  metric.Int64Counter
	persistsCounter    metric.Int64Counter

	operationDuration metric.Float64Histogram

	recordCountGauge metric.Int64Gauge
	hitRateGauge     metric.Float64Gauge

	lastExported map[string]statsSnapshot
}

// OpenTelemetryConfig holds OpenTelemetry-specific configuration.
type OpenTelemetryConfig struct {
	// Meter is the OpenTelemetry meter to use.
	Meter metric.Meter

	// Context is the context to use for metric operations.
	Context context.Context

	// DefaultAttributes are applied to all metrics.
	DefaultAttributes []attribute.KeyValue
}

// NewOpenTelemetryExporter creates a new OpenTelemetry metrics exporter.
func NewOpenTelemetryExporter(config *Config, otelConfig *OpenTelemetryConfig) (*OpenTelemetryExporter, error) {
	if config == nil {
		config = NewDefaultConfig()
	}
	if otelConfig == nil || otelConfig.Meter == nil {
		return nil, fmt.Errorf("OpenTelemetry meter is required")
	}

	ctx := otelConfig.Context
	if ctx == nil {
		ctx = context.Background()
	}

	e := &OpenTelemetryExporter{
		config:       config,
		meter:        otelConfig.Meter,
		ctx:          ctx,
		lastExported: make(map[string]statsSnapshot),
	}

	if err := e.createInstruments(); err != nil {
		return nil, fmt.Errorf("failed to create instruments: %w", err)
	}

	return e, nil
}

// createInstruments creates all the standard cache metric instruments.
func (e *OpenTelemetryExporter) createInstruments() error {
	names := e.config.MetricNames
	var err error

	counter := func(name, desc string) (metric.Int64Counter, error) {
		return e.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit("1"))
	}

	if e.hitsCounter, err = counter(names.HitsTotal, "Total number of cache hits"); err != nil {
		return err
	}
	if e.missesCounter, err = counter(names.MissesTotal, "Total number of cache misses"); err != nil {
		return err
	}
	if e.fetchesCounter, err = counter(names.FetchesTotal, "Total number of backend fetch calls"); err != nil {
		return err
	}
	if e.searchesCounter, err = counter(names.SearchesTotal, "Total number of backend search calls"); err != nil {
		return err
	}
	if e.pushAppliedCounter, err = counter(names.PushAppliedTotal, "Total number of applied push events"); err != nil {
		return err
	}
	if e.staleDropsCounter, err = counter(names.StaleDropsTotal, "Total number of discarded stale responses"); err != nil {
		return err
	}
	if e.persistsCounter, err = counter(names.PersistsTotal, "Total number of persistence writes"); err != nil {
		return err
	}

	e.operationDuration, err = e.meter.Float64Histogram(
		names.OperationDuration,
		metric.WithDescription("Duration of cache operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	e.recordCountGauge, err = e.meter.Int64Gauge(
		names.RecordCount,
		metric.WithDescription("Current number of cached records"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	e.hitRateGauge, err = e.meter.Float64Gauge(
		names.HitRate,
		metric.WithDescription("Cache hit rate percentage"),
		metric.WithUnit("%"),
	)
	return err
}

// ExportStats exports the current cache statistics.
func (e *OpenTelemetryExporter) ExportStats(stats Stats, labels Labels) error {
	attrs := e.attributes(labels)
	opts := metric.WithAttributes(attrs...)
	key := fmt.Sprint(attrs)

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

	addDelta := func(c metric.Int64Counter, now, prev int64) {
		if delta := now - prev; delta > 0 {
			c.Add(e.ctx, delta, opts)
		}
	}
	addDelta(e.hitsCounter, current.hits, last.hits)
	addDelta(e.missesCounter, current.misses, last.misses)
	addDelta(e.fetchesCounter, current.fetches, last.fetches)
	addDelta(e.searchesCounter, current.searches, last.searches)
	addDelta(e.pushAppliedCounter, current.pushApplied, last.pushApplied)
	addDelta(e.staleDropsCounter, current.staleDrops, last.staleDrops)
	addDelta(e.persistsCounter, current.persists, last.persists)
	e.lastExported[key] = current

	e.recordCountGauge.Record(e.ctx, stats.RecordCount(), opts)
	e.hitRateGauge.Record(e.ctx, stats.HitRate(), opts)

	return nil
}

// RecordOperation records an individual cache operation with timing.
func (e *OpenTelemetryExporter) RecordOperation(operation Operation, duration time.Duration, labels Labels) error {
	attrs := append(e.attributes(labels), attribute.String("operation", string(operation)))
	e.operationDuration.Record(e.ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	return nil
}

// Close shuts down the exporter. The meter provider is owned by the caller.
func (e *OpenTelemetryExporter) Close() error {
	return nil
}

func (e *OpenTelemetryExporter) attributes(labels Labels) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(e.config.Labels)+len(labels))
	for k, v := range e.config.Labels {
		if _, overridden := labels[k]; overridden {
			continue
		}
		if v == "" {
			// Declared name without a default; only emit when reported.
			continue
		}
		attrs = append(attrs, attribute.String(k, v))
	}
	for k, v := range labels {
		attrs = append(attrs, attribute.String(k, v))
	}
	return attrs
}
