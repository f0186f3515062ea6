package immosync

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/immobase/immosync-go/pkg/metrics"
)

// mockExporter captures everything the cache reports.
type mockExporter struct {
	mu sync.Mutex

	statsExported []metrics.Labels
	operations    []mockOperation
	closed        bool
}

type mockOperation struct {
	operation metrics.Operation
	duration  time.Duration
	labels    metrics.Labels
}

func (m *mockExporter) ExportStats(_ metrics.Stats, labels metrics.Labels) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsExported = append(m.statsExported, labels)
	return nil
}

func (m *mockExporter) RecordOperation(operation metrics.Operation, duration time.Duration, labels metrics.Labels) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations = append(m.operations, mockOperation{operation, duration, labels})
	return nil
}

func (m *mockExporter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockExporter) operationCount(op metrics.Operation) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, logged := range m.operations {
		if logged.operation == op {
			n++
		}
	}
	return n
}

func TestMetricsRecordsOperations(t *testing.T) {
	exporter := &mockExporter{}
	cfg := NewDefaultConfig().WithMetrics(&MetricsConfig{
		Exporter:  exporter,
		Enabled:   true,
		CacheName: "test-entities",
	})
	svc := newFakeService(testRec{ID: 1})
	seedSearch(svc, 1)
	cache := newTestCache(t, cfg, svc)

	cache.FetchOne(context.Background(), 1)
	cache.Search(context.Background(), testFilter{}, sortByID(), 1, nil)
	cache.Create(context.Background(), testRec{ID: 2})

	if got := exporter.operationCount(metrics.OperationHydrate); got != 1 {
		t.Errorf("hydrate operations = %d, want 1", got)
	}
	if got := exporter.operationCount(metrics.OperationFetch); got == 0 {
		t.Error("fetch operations should be recorded")
	}
	if got := exporter.operationCount(metrics.OperationSearch); got != 1 {
		t.Errorf("search operations = %d, want 1", got)
	}
	if got := exporter.operationCount(metrics.OperationCreate); got != 1 {
		t.Errorf("create operations = %d, want 1", got)
	}

	exporter.mu.Lock()
	labels := exporter.operations[0].labels
	exporter.mu.Unlock()
	if labels["cache_name"] != "test-entities" {
		t.Errorf("cache_name label = %q, want test-entities", labels["cache_name"])
	}
}

func TestMetricsCacheNameDefaultsToPersistKey(t *testing.T) {
	exporter := &mockExporter{}
	cfg := NewDefaultConfig().
		WithPersistKey("contract-store").
		WithMetrics(&MetricsConfig{Exporter: exporter, Enabled: true})
	cache := newTestCache(t, cfg, newFakeService())

	cache.FetchOne(context.Background(), 1)

	exporter.mu.Lock()
	defer exporter.mu.Unlock()
	if len(exporter.operations) == 0 {
		t.Fatal("no operations recorded")
	}
	if got := exporter.operations[0].labels["cache_name"]; got != "contract-store" {
		t.Errorf("cache_name label = %q, want contract-store", got)
	}
}

func TestMetricsPeriodicReporting(t *testing.T) {
	exporter := &mockExporter{}
	cfg := NewDefaultConfig().WithMetrics(&MetricsConfig{
		Exporter:          exporter,
		Enabled:           true,
		ReportingInterval: 10 * time.Millisecond,
	})
	cache := newTestCache(t, cfg, newFakeService())

	time.Sleep(50 * time.Millisecond)
	cache.Close()

	exporter.mu.Lock()
	exports := len(exporter.statsExported)
	closed := exporter.closed
	exporter.mu.Unlock()
	if exports < 2 {
		t.Errorf("stats exports = %d, want at least 2 (periodic plus final)", exports)
	}
	if !closed {
		t.Error("Close should shut down the exporter")
	}
}

func TestMetricsDisabledUsesNoOp(t *testing.T) {
	exporter := &mockExporter{}
	cfg := NewDefaultConfig().WithMetrics(&MetricsConfig{Exporter: exporter, Enabled: false})
	cache := newTestCache(t, cfg, newFakeService(testRec{ID: 1}))

	cache.FetchOne(context.Background(), 1)

	exporter.mu.Lock()
	defer exporter.mu.Unlock()
	if len(exporter.operations) != 0 || len(exporter.statsExported) != 0 {
		t.Error("disabled metrics must not reach the exporter")
	}
}
