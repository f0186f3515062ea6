// Package memory implements an in-memory blob store bounded by an LRU cache.
// It offers no durability across processes and exists for tests and for
// deployments that accept a cold cache on every start.
package memory

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store implements store.Store on top of an LRU-bounded map.
type Store struct {
	cache *lru.Cache[string, string]
	mu    sync.RWMutex
}

// New creates a memory store holding at most capacity blobs.
func New(capacity int) (*Store, error) {
	cache, err := lru.New[string, string](capacity)
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache}, nil
}

// Get retrieves the blob stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, found := s.cache.Get(key)
	return value, found, nil
}

// Set stores a blob under key.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Add(key, value)
	return nil
}

// Delete removes the blob stored under key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Remove(key)
	return nil
}

// Len returns the number of blobs currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cache.Len()
}

// Close releases the store. The memory store has nothing to release.
func (s *Store) Close() error {
	return nil
}
