package immosync

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/immobase/immosync-go/pkg/metrics"
)

// StoreType defines the persistent local store backend to use.
type StoreType int

const (
	// StoreTypeMemory uses in-memory storage; the cache starts cold on
	// every process start. Default.
	StoreTypeMemory StoreType = iota

	// StoreTypeFile persists blobs to one file per key under a directory.
	StoreTypeFile

	// StoreTypeRedis persists blobs to Redis.
	StoreTypeRedis
)

// RedisConfig holds Redis-specific configuration.
type RedisConfig struct {
	// Client is a pre-configured Redis client.
	// If nil, a new client will be created using Addr, Password, DB.
	Client redis.Cmdable

	// Addr is the Redis server address (host:port).
	// Only used if Client is nil.
	Addr string

	// Password for Redis authentication.
	// Only used if Client is nil.
	Password string

	// DB is the Redis database number to use.
	// Only used if Client is nil.
	DB int

	// KeyPrefix is prepended to all store keys.
	// Default: "immosync:".
	KeyPrefix string
}

// MetricsConfig holds metrics exporter configuration.
type MetricsConfig struct {
	// Exporter is the metrics exporter to use.
	Exporter metrics.Exporter

	// Enabled determines whether metrics collection is enabled.
	Enabled bool

	// CacheName is the name label applied to all metrics for this cache
	// instance, typically the entity type.
	CacheName string

	// ReportingInterval determines how often to export stats automatically.
	// Set to 0 to disable automatic reporting.
	ReportingInterval time.Duration

	// Labels are additional labels applied to all metrics.
	Labels metrics.Labels
}

// Config defines the configuration options for a Cache instance.
type Config struct {
	// StoreType determines which persistent local store backend to use.
	// Default: StoreTypeMemory.
	StoreType StoreType

	// PersistKey is the store key the serialized cache lives under,
	// namespaced per entity type (e.g. "property-store").
	// Default: "entity-store".
	PersistKey string

	// MaxEntries bounds the memory store (number of blobs, not records).
	// Only applies to the memory store. Default: 16.
	MaxEntries int

	// Dir is the base directory for the file store.
	// Only used when StoreType is StoreTypeFile.
	Dir string

	// Redis holds Redis-specific configuration.
	// Only used when StoreType is StoreTypeRedis.
	Redis *RedisConfig

	// PersistDebounce coalesces persistence writes within the given window
	// instead of writing through on every mutation. Zero writes through.
	PersistDebounce time.Duration

	// Hooks defines event callbacks for cache operations.
	Hooks *Hooks

	// Metrics holds metrics exporter configuration.
	// If nil, no metrics will be exported.
	Metrics *MetricsConfig

	// Logger receives diagnostic output. Defaults to a stderr logger at
	// warn level.
	Logger Logger

	// Clock supplies the current time, injectable for tests.
	Clock func() time.Time
}

// NewDefaultConfig returns a Config with sensible defaults for memory storage.
func NewDefaultConfig() *Config {
	return &Config{
		StoreType:  StoreTypeMemory,
		PersistKey: "entity-store",
		MaxEntries: 16,
		Hooks:      &Hooks{},
	}
}

// NewFileConfig returns a Config persisting to one file per key under dir.
func NewFileConfig(dir string) *Config {
	cfg := NewDefaultConfig()
	cfg.StoreType = StoreTypeFile
	cfg.Dir = dir
	return cfg
}

// NewRedisConfig returns a Config persisting to the Redis server at addr.
func NewRedisConfig(addr string) *Config {
	cfg := NewDefaultConfig()
	cfg.StoreType = StoreTypeRedis
	cfg.Redis = &RedisConfig{
		Addr:      addr,
		KeyPrefix: "immosync:",
	}
	return cfg
}

// WithPersistKey sets the store key for the serialized cache.
func (c *Config) WithPersistKey(key string) *Config {
	c.PersistKey = key
	return c
}

// WithMaxEntries sets the memory store capacity.
func (c *Config) WithMaxEntries(maxEntries int) *Config {
	c.MaxEntries = maxEntries
	return c
}

// WithPersistDebounce coalesces persistence writes within the given window.
func (c *Config) WithPersistDebounce(window time.Duration) *Config {
	c.PersistDebounce = window
	return c
}

// WithHooks sets the event hooks for cache operations.
func (c *Config) WithHooks(hooks *Hooks) *Config {
	c.Hooks = hooks
	return c
}

// WithMetrics sets the metrics exporter configuration.
func (c *Config) WithMetrics(metricsConfig *MetricsConfig) *Config {
	c.Metrics = metricsConfig
	return c
}

// WithLogger sets the logger.
func (c *Config) WithLogger(logger Logger) *Config {
	c.Logger = logger
	return c
}

// WithClock sets the time source, mostly useful in tests.
func (c *Config) WithClock(clock func() time.Time) *Config {
	c.Clock = clock
	return c
}

// WithFileDir configures the cache to persist under dir.
func (c *Config) WithFileDir(dir string) *Config {
	c.StoreType = StoreTypeFile
	c.Dir = dir
	return c
}

// WithRedis configures the cache to use Redis storage.
func (c *Config) WithRedis(redisConfig *RedisConfig) *Config {
	c.StoreType = StoreTypeRedis
	c.Redis = redisConfig
	return c
}

// WithRedisClient configures the cache to use Redis with a pre-configured client.
func (c *Config) WithRedisClient(client redis.Cmdable) *Config {
	return c.WithRedis(&RedisConfig{
		Client:    client,
		KeyPrefix: "immosync:",
	})
}
