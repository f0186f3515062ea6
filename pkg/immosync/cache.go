package immosync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/immobase/immosync-go/internal/flight"
	"github.com/immobase/immosync-go/internal/store"
	filestore "github.com/immobase/immosync-go/internal/store/file"
	"github.com/immobase/immosync-go/internal/store/memory"
	redisstore "github.com/immobase/immosync-go/internal/store/redis"
	"github.com/immobase/immosync-go/pkg/metrics"
)

// ChangeKind classifies a change notification.
type ChangeKind int

const (
	// ChangeRecord means a single record was added, replaced, or removed.
	ChangeRecord ChangeKind = iota

	// ChangeResultSet means a tracked result set's id list changed.
	ChangeResultSet
)

// Change describes one cache mutation for consumer re-rendering. Record
// changes carry the id; result set changes carry the search index.
type Change struct {
	Kind        ChangeKind
	ID          EntityID
	SearchIndex string
}

// Cache is the client-side source of truth for one entity type. It keeps an
// id-to-record map hydrated from the persistent local store and reconciled
// against the remote entity service, plus the tracked search result sets
// patched by real-time events.
type Cache[E Record, P Filter[E]] struct {
	cfg   *Config
	svc   Service[E, P]
	store store.Store
	log   Logger
	hooks *Hooks
	stats *Stats
	clock func() time.Time

	flight flight.Group[EntityID, E]

	mu          sync.RWMutex
	records     map[EntityID]E
	results     map[string]*resultSet[E, P]
	watchers    map[int]func(Change)
	nextWatcher int

	persistTimer *time.Timer
	persistDirty bool

	ready     chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
	closeErr  error

	metricsExporter metrics.Exporter
	metricsLabels   metrics.Labels
	metricsStop     chan struct{}
	metricsWg       sync.WaitGroup
}

// New creates a cache for one entity type backed by the given remote service.
// Push handlers are registered before hydration starts so early events are
// not missed; all public operations wait for hydration to finish.
func New[E Record, P Filter[E]](config *Config, svc Service[E, P]) (*Cache[E, P], error) {
	if svc == nil {
		return nil, fmt.Errorf("remote entity service is required")
	}
	if config == nil {
		config = NewDefaultConfig()
	}
	if config.PersistKey == "" {
		config.PersistKey = "entity-store"
	}

	blobStore, err := createStore(config)
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = NewDefaultLogger(LogLevelWarn)
	}
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	c := &Cache[E, P]{
		cfg:      config,
		svc:      svc,
		store:    blobStore,
		log:      logger.With(F("store", config.PersistKey)),
		hooks:    config.Hooks,
		stats:    &Stats{},
		clock:    clock,
		records:  make(map[EntityID]E),
		results:  make(map[string]*resultSet[E, P]),
		watchers: make(map[int]func(Change)),
		ready:    make(chan struct{}),
		closed:   make(chan struct{}),
	}

	if err := c.initializeMetrics(); err != nil {
		blobStore.Close()
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	// Subscribe before hydrating: events arriving during startup must not
	// be lost. Records they deliver win over persisted state.
	if err := svc.Subscribe(PushHandlers[E]{
		OnNew:     c.applyNew,
		OnUpdated: c.applyUpdated,
		OnDeleted: c.applyDeleted,
	}); err != nil {
		blobStore.Close()
		return nil, fmt.Errorf("failed to subscribe to push events: %w", err)
	}

	go c.hydrate()

	return c, nil
}

// createStore creates the persistent local store backend for the config.
func createStore(config *Config) (store.Store, error) {
	switch config.StoreType {
	case StoreTypeMemory:
		capacity := config.MaxEntries
		if capacity <= 0 {
			capacity = 16
		}
		return memory.New(capacity)
	case StoreTypeFile:
		return filestore.New(config.Dir)
	case StoreTypeRedis:
		return createRedisStore(config)
	default:
		return nil, fmt.Errorf("unsupported store type: %v", config.StoreType)
	}
}

// createRedisStore creates a Redis-backed store.
func createRedisStore(config *Config) (store.Store, error) {
	if config.Redis == nil {
		return nil, fmt.Errorf("redis configuration is required when using StoreTypeRedis")
	}

	client := config.Redis.Client
	if client == nil {
		newClient := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		if err := newClient.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		client = newClient
	}

	return redisstore.New(&redisstore.Config{
		Client:    client,
		KeyPrefix: config.Redis.KeyPrefix,
	})
}

// hydrate runs the startup protocol: read the persisted blob, drop it if
// corrupt, confirm the surviving ids with the backend's invalidation check,
// then open the gate. The cache starts empty on any startup failure; startup
// never blocks on a bad blob or an unreachable backend.
func (c *Cache[E, P]) hydrate() {
	defer close(c.ready)
	start := time.Now()
	defer func() {
		c.recordOperation(metrics.OperationHydrate, time.Since(start))
	}()

	blob, found, err := c.store.Get(c.cfg.PersistKey)
	if err != nil {
		c.log.Warn("failed to read persisted cache", F("error", err))
		return
	}
	if !found || blob == "" {
		return
	}

	var persisted map[EntityID]E
	if err := json.Unmarshal([]byte(blob), &persisted); err != nil {
		c.log.Warn("discarding corrupt persisted cache", F("error", err))
		if derr := c.store.Delete(c.cfg.PersistKey); derr != nil {
			c.log.Warn("failed to clear corrupt blob", F("error", derr))
		}
		return
	}
	if len(persisted) == 0 {
		return
	}

	ids := make([]EntityID, 0, len(persisted))
	for id := range persisted {
		ids = append(ids, id)
	}

	fresh, err := c.svc.Invalidate(context.Background(), ids, c.clock())
	if err != nil {
		// Freshness unknown: everything persisted counts as stale.
		c.log.Warn("invalidation check failed, starting empty", F("error", err))
		return
	}

	c.mu.Lock()
	for _, id := range fresh {
		rec, ok := persisted[id]
		if !ok {
			continue
		}
		if _, exists := c.records[id]; exists {
			// A push event beat hydration; its record is fresher.
			continue
		}
		c.records[id] = rec
	}
	c.stats.setRecordCount(int64(len(c.records)))
	c.mu.Unlock()

	c.log.Debug("cache hydrated",
		F("persisted", len(persisted)),
		F("fresh", len(fresh)))
}

// awaitReady blocks until hydration finished, the context ended, or the
// cache was closed.
func (c *Cache[E, P]) awaitReady(ctx context.Context) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}
	select {
	case <-c.ready:
		return nil
	case <-c.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FetchOne ensures the record with the given id is cached. Already-cached
// ids cause no network call. Absence of the id after a nil return means the
// backend has no such record.
func (c *Cache[E, P]) FetchOne(ctx context.Context, id EntityID) error {
	return c.FetchMany(ctx, []EntityID{id})
}

// FetchMany ensures the given records are cached, requesting only the
// uncached subset from the remote service. Overlapping concurrent calls
// share in-flight requests instead of duplicating them.
func (c *Cache[E, P]) FetchMany(ctx context.Context, ids []EntityID) error {
	if err := c.awaitReady(ctx); err != nil {
		return err
	}
	start := time.Now()

	c.mu.RLock()
	missing := make([]EntityID, 0, len(ids))
	seen := make(map[EntityID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := c.records[id]; ok {
			c.stats.incHits()
			if c.hooks != nil {
				c.hooks.invokeOnHit(id)
			}
			continue
		}
		c.stats.incMisses()
		if c.hooks != nil {
			c.hooks.invokeOnMiss(id)
		}
		missing = append(missing, id)
	}
	c.mu.RUnlock()

	if len(missing) == 0 {
		return nil
	}

	c.stats.incFetches()
	fetched, err, _ := c.flight.DoBatch(missing, func(owned []EntityID) (map[EntityID]E, error) {
		records, err := c.svc.Get(ctx, owned)
		if err != nil {
			return nil, err
		}
		out := make(map[EntityID]E, len(records))
		for _, rec := range records {
			out[rec.RecordID()] = rec
		}
		return out, nil
	})
	c.recordOperation(metrics.OperationFetch, time.Since(start))
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	if len(fetched) == 0 {
		return nil
	}

	changes := make([]Change, 0, len(fetched))
	c.mu.Lock()
	for id, rec := range fetched {
		c.records[id] = rec
		changes = append(changes, Change{Kind: ChangeRecord, ID: id})
	}
	c.stats.setRecordCount(int64(len(c.records)))
	c.persistLocked()
	c.mu.Unlock()

	c.notify(changes...)
	return nil
}

// Create delegates to the remote service. The cache is not populated
// optimistically; the resulting push event inserts the new record.
func (c *Cache[E, P]) Create(ctx context.Context, dto E) error {
	if err := c.awaitReady(ctx); err != nil {
		return err
	}
	start := time.Now()
	err := c.svc.Create(ctx, dto)
	c.recordOperation(metrics.OperationCreate, time.Since(start))
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}
	return nil
}

// Update delegates a partial update to the remote service. The cache is not
// patched optimistically; the resulting push event carries the new state.
func (c *Cache[E, P]) Update(ctx context.Context, id EntityID, patch map[string]any) error {
	if err := c.awaitReady(ctx); err != nil {
		return err
	}
	start := time.Now()
	err := c.svc.Update(ctx, id, patch)
	c.recordOperation(metrics.OperationUpdate, time.Since(start))
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	return nil
}

// Delete soft-deletes the record: an update setting the deleted flag and the
// audit fields. The push event performs the cache mutation.
func (c *Cache[E, P]) Delete(ctx context.Context, id, deletedBy EntityID) error {
	if err := c.awaitReady(ctx); err != nil {
		return err
	}
	start := time.Now()
	err := c.svc.Update(ctx, id, map[string]any{
		"deleted":   true,
		"updatedBy": deletedBy,
		"updatedAt": c.clock().Unix(),
	})
	c.recordOperation(metrics.OperationDelete, time.Since(start))
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

// ForceDelete removes the record from the backing store entirely.
func (c *Cache[E, P]) ForceDelete(ctx context.Context, id EntityID) error {
	if err := c.awaitReady(ctx); err != nil {
		return err
	}
	start := time.Now()
	err := c.svc.Delete(ctx, id)
	c.recordOperation(metrics.OperationDelete, time.Since(start))
	if err != nil {
		return fmt.Errorf("force delete failed: %w", err)
	}
	return nil
}

// ByID returns the cached record for id. No network call is made; absence
// means the record is unknown (or, after a resolved fetch, not found).
func (c *Cache[E, P]) ByID(id EntityID) (E, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[id]
	return rec, ok
}

// Len returns the current number of cached records.
func (c *Cache[E, P]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Stats returns the cache statistics.
func (c *Cache[E, P]) Stats() *Stats {
	return c.stats
}

// OnChange registers a consumer callback invoked after every cache mutation.
// The returned function cancels the registration.
func (c *Cache[E, P]) OnChange(fn func(Change)) (cancel func()) {
	c.mu.Lock()
	id := c.nextWatcher
	c.nextWatcher++
	c.watchers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}
}

// notify delivers changes to all registered watchers.
func (c *Cache[E, P]) notify(changes ...Change) {
	if len(changes) == 0 {
		return
	}
	c.mu.RLock()
	fns := make([]func(Change), 0, len(c.watchers))
	for _, fn := range c.watchers {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		for _, change := range changes {
			fn(change)
		}
	}
}

// persistLocked schedules or performs a write of the record map to the
// persistent local store. Callers must hold the write lock.
func (c *Cache[E, P]) persistLocked() {
	if c.cfg.PersistDebounce > 0 {
		c.persistDirty = true
		if c.persistTimer == nil {
			c.persistTimer = time.AfterFunc(c.cfg.PersistDebounce, c.persistDebounced)
		}
		return
	}
	c.writeThroughLocked()
}

// persistDebounced flushes a pending debounced write.
func (c *Cache[E, P]) persistDebounced() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.persistTimer = nil
	if !c.persistDirty {
		return
	}
	c.persistDirty = false
	c.writeThroughLocked()
}

// writeThroughLocked serializes the record map and writes it to the store.
// Persistence failures are logged, never surfaced to callers.
func (c *Cache[E, P]) writeThroughLocked() {
	start := time.Now()
	blob, err := json.Marshal(c.records)
	if err != nil {
		c.log.Error("failed to serialize cache", F("error", err))
		return
	}
	if err := c.store.Set(c.cfg.PersistKey, string(blob)); err != nil {
		c.log.Error("failed to persist cache", F("error", err))
		return
	}
	c.stats.incPersists()
	if c.hooks != nil {
		c.hooks.invokeOnPersist(c.cfg.PersistKey, len(blob))
	}
	c.recordOperation(metrics.OperationPersist, time.Since(start))
}

// Close unsubscribes from push events, flushes any pending persistence
// write, stops the metrics reporter, and releases the store.
func (c *Cache[E, P]) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.svc.Unsubscribe()

		c.mu.Lock()
		if c.persistTimer != nil {
			c.persistTimer.Stop()
			c.persistTimer = nil
		}
		if c.persistDirty {
			c.persistDirty = false
			c.writeThroughLocked()
		}
		c.mu.Unlock()

		if c.metricsStop != nil {
			close(c.metricsStop)
			c.metricsWg.Wait()
		}
		if c.metricsExporter != nil {
			c.metricsExporter.Close()
		}
		c.closeErr = c.store.Close()
	})
	return c.closeErr
}

// initializeMetrics sets up metrics collection if enabled.
func (c *Cache[E, P]) initializeMetrics() error {
	if c.cfg.Metrics == nil || !c.cfg.Metrics.Enabled || c.cfg.Metrics.Exporter == nil {
		c.metricsExporter = metrics.NewNoOpExporter()
		return nil
	}

	c.metricsExporter = c.cfg.Metrics.Exporter

	c.metricsLabels = make(metrics.Labels)
	if c.cfg.Metrics.CacheName != "" {
		c.metricsLabels["cache_name"] = c.cfg.Metrics.CacheName
	} else {
		c.metricsLabels["cache_name"] = c.cfg.PersistKey
	}
	for k, v := range c.cfg.Metrics.Labels {
		c.metricsLabels[k] = v
	}

	if c.cfg.Metrics.ReportingInterval > 0 {
		c.metricsStop = make(chan struct{})
		c.metricsWg.Add(1)
		go c.metricsReporter()
	}

	return nil
}

// metricsReporter periodically exports cache statistics.
func (c *Cache[E, P]) metricsReporter() {
	defer c.metricsWg.Done()

	ticker := time.NewTicker(c.cfg.Metrics.ReportingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.exportCurrentStats()
		case <-c.metricsStop:
			// Final stats export before shutting down.
			c.exportCurrentStats()
			return
		}
	}
}

// exportCurrentStats exports the current statistics to metrics.
func (c *Cache[E, P]) exportCurrentStats() {
	if c.metricsExporter != nil {
		_ = c.metricsExporter.ExportStats(c.stats, c.metricsLabels)
	}
}

// recordOperation records a cache operation with timing for metrics.
func (c *Cache[E, P]) recordOperation(operation metrics.Operation, duration time.Duration) {
	if c.metricsExporter != nil {
		_ = c.metricsExporter.RecordOperation(operation, duration, c.metricsLabels)
	}
}
