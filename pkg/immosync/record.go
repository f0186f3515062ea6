package immosync

// EntityID identifies an entity record. IDs are positive; zero means unset.
type EntityID int64

// Audit holds the audit fields shared by every entity record. Zero values
// mean the field was never set; Deleted distinguishes "explicitly false"
// from "never set" via the pointer.
type Audit struct {
	CreatedBy EntityID `json:"createdBy,omitempty"`
	CreatedAt int64    `json:"createdAt,omitempty"`
	UpdatedBy EntityID `json:"updatedBy,omitempty"`
	UpdatedAt int64    `json:"updatedAt,omitempty"`
	Deleted   *bool    `json:"deleted,omitempty"`
}

// Record is the minimal shape the cache requires of an entity.
type Record interface {
	// RecordID returns the entity identifier.
	RecordID() EntityID

	// AuditInfo returns the record's audit fields.
	AuditInfo() Audit

	// SortValue returns the value of the named sort column and whether the
	// column exists for this entity type. The "id" column must always
	// resolve to the record identifier.
	SortValue(column string) (any, bool)
}

// Filter is a predicate over entity records. Implementations must mirror the
// remote service's search semantics exactly: a record the server would return
// for a filter must match it locally and vice versa, otherwise push-event
// reconciliation shows or hides the wrong records.
type Filter[E any] interface {
	Match(e E) bool
}
