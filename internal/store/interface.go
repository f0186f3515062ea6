// Package store defines the persistent local store used to keep serialized
// entity caches between sessions.
package store

// Store is a durable key-value blob store. Values are JSON-serialized
// id-to-record maps keyed by a fixed per-entity-type string.
type Store interface {
	// Get retrieves the blob stored under key.
	// Returns the blob and true if present, "" and false if not.
	Get(key string) (string, bool, error)

	// Set stores a blob under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes the blob stored under key. Deleting a missing key
	// is not an error.
	Delete(key string) error

	// Close releases resources held by the store.
	Close() error
}
