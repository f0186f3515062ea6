// Package redis implements a blob store backed by Redis, for deployments
// where the persisted entity cache is shared between processes or hosts.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis store configuration.
type Config struct {
	// Client is the Redis client to use.
	Client redis.Cmdable

	// KeyPrefix is prepended to all store keys to avoid conflicts.
	KeyPrefix string

	// TTL is applied to every stored blob. Zero means no expiration.
	TTL time.Duration

	// Context for Redis operations.
	Context context.Context
}

// Store implements store.Store on top of Redis.
type Store struct {
	client    redis.Cmdable
	keyPrefix string
	ttl       time.Duration
	ctx       context.Context
}

// New creates a Redis store with the given configuration.
func New(config *Config) (*Store, error) {
	if config == nil || config.Client == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	ctx := config.Context
	if ctx == nil {
		ctx = context.Background()
	}

	keyPrefix := config.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "immosync:"
	}

	return &Store{
		client:    config.Client,
		keyPrefix: keyPrefix,
		ttl:       config.TTL,
		ctx:       ctx,
	}, nil
}

// Get retrieves the blob stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	value, err := s.client.Get(s.ctx, s.buildKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores a blob under key.
func (s *Store) Set(key, value string) error {
	if err := s.client.Set(s.ctx, s.buildKey(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes the blob stored under key.
func (s *Store) Delete(key string) error {
	if err := s.client.Del(s.ctx, s.buildKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Close releases the store. The client is owned by the caller.
func (s *Store) Close() error {
	return nil
}

func (s *Store) buildKey(key string) string {
	return s.keyPrefix + key
}
