package immosync

import (
	"context"
	"time"
)

// PushHandlers receives real-time change notifications for one entity type.
// Handlers may be invoked at any time after Subscribe returns, including
// while the cache is still hydrating.
type PushHandlers[E Record] struct {
	// OnNew is invoked when a record was created.
	OnNew func(record E)

	// OnUpdated is invoked when a record was modified, with the full
	// updated record.
	OnUpdated func(record E)

	// OnDeleted is invoked when a record was removed.
	OnDeleted func(id EntityID)
}

// Service is the remote entity service contract the cache consumes, one
// logical instance per entity type. Implementations own the transport; the
// cache treats the backend as opaque.
type Service[E Record, P Filter[E]] interface {
	// Get fetches the records for the given ids. Ids with no matching
	// record are silently absent from the result.
	Get(ctx context.Context, ids []EntityID) ([]E, error)

	// SearchIDs returns up to pageSize ids matching the filter, ordered by
	// the sort configuration, strictly after the cursor position. A nil
	// cursor starts from the beginning.
	SearchIDs(ctx context.Context, filter P, sortCfg SortConfig, pageSize int, cursor Cursor) ([]EntityID, error)

	// Count returns the total number of records matching the filter.
	Count(ctx context.Context, filter P) (int, error)

	// Create creates a new record. The caller learns about the created
	// record through the resulting push event, not the return value.
	Create(ctx context.Context, dto E) error

	// Update applies a partial update to the record with the given id.
	Update(ctx context.Context, id EntityID, patch map[string]any) error

	// Delete removes the record with the given id (hard delete).
	Delete(ctx context.Context, id EntityID) error

	// Invalidate returns the subset of ids still considered fresh as of
	// the given time, comparing against each record's last-update time
	// server-side.
	Invalidate(ctx context.Context, ids []EntityID, since time.Time) ([]EntityID, error)

	// Subscribe registers push handlers on the entity type's notification
	// channel. Subscribing while already subscribed must first unsubscribe;
	// silent double-registration is not allowed.
	Subscribe(handlers PushHandlers[E]) error

	// Unsubscribe tears down the notification channel registration.
	Unsubscribe()
}
