package realestate

import (
	"github.com/immobase/immosync-go/pkg/immosync"
)

// ContractState tracks a contract through its lifecycle.
type ContractState string

const (
	ContractDraft     ContractState = "draft"
	ContractSigned    ContractState = "signed"
	ContractCompleted ContractState = "completed"
	ContractCancelled ContractState = "cancelled"
)

// Contract binds a property, its buyer or tenant, and the brokering realtor.
type Contract struct {
	ID immosync.EntityID `json:"id"`
	immosync.Audit

	Property immosync.EntityID `json:"property,omitempty"`
	Client   immosync.EntityID `json:"client,omitempty"`
	Realtor  immosync.EntityID `json:"realtor,omitempty"`

	State ContractState `json:"state,omitempty"`

	// Price is the agreed amount in cents.
	Price int64 `json:"price,omitempty"`

	// SignedAt is a unix timestamp, zero while the contract is a draft.
	SignedAt int64 `json:"signedAt,omitempty"`
}

// RecordID returns the contract identifier.
func (c Contract) RecordID() immosync.EntityID { return c.ID }

// AuditInfo returns the contract's audit fields.
func (c Contract) AuditInfo() immosync.Audit { return c.Audit }

// SortValue resolves a sort column by name.
func (c Contract) SortValue(column string) (any, bool) {
	switch column {
	case "id":
		return c.ID, true
	case "state":
		return string(c.State), true
	case "price":
		return c.Price, true
	case "signedAt":
		return c.SignedAt, true
	case "createdAt":
		return c.CreatedAt, true
	case "updatedAt":
		return c.UpdatedAt, true
	default:
		return nil, false
	}
}

// ContractFilter selects contracts. Nil fields mean no constraint.
type ContractFilter struct {
	immosync.BaseFilter

	Property *immosync.EntityID `json:"property,omitempty"`
	Client   *immosync.EntityID `json:"client,omitempty"`
	Realtor  *immosync.EntityID `json:"realtor,omitempty"`

	State *ContractState `json:"state,omitempty"`

	SignedAfter  *int64 `json:"signedAfter,omitempty"`
	SignedBefore *int64 `json:"signedBefore,omitempty"`
}

// Match reports whether the contract satisfies every set predicate.
func (f ContractFilter) Match(c Contract) bool {
	if !f.MatchBase(c) {
		return false
	}
	if f.Property != nil && (c.Property == 0 || c.Property != *f.Property) {
		return false
	}
	if f.Client != nil && (c.Client == 0 || c.Client != *f.Client) {
		return false
	}
	if f.Realtor != nil && (c.Realtor == 0 || c.Realtor != *f.Realtor) {
		return false
	}
	if f.State != nil && (c.State == "" || c.State != *f.State) {
		return false
	}
	if f.SignedAfter != nil && (c.SignedAt == 0 || c.SignedAt < *f.SignedAfter) {
		return false
	}
	if f.SignedBefore != nil && (c.SignedAt == 0 || c.SignedAt > *f.SignedBefore) {
		return false
	}
	return true
}
