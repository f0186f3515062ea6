package realestate

import (
	"github.com/immobase/immosync-go/pkg/immosync"
)

// Realtor is an agent employed by the agency.
type Realtor struct {
	ID immosync.EntityID `json:"id"`
	immosync.Audit

	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	// Region is the sales territory the realtor covers.
	Region string `json:"region,omitempty"`

	Active *bool `json:"active,omitempty"`
}

// RecordID returns the realtor identifier.
func (r Realtor) RecordID() immosync.EntityID { return r.ID }

// AuditInfo returns the realtor's audit fields.
func (r Realtor) AuditInfo() immosync.Audit { return r.Audit }

// SortValue resolves a sort column by name.
func (r Realtor) SortValue(column string) (any, bool) {
	switch column {
	case "id":
		return r.ID, true
	case "firstName":
		return r.FirstName, true
	case "lastName":
		return r.LastName, true
	case "email":
		return r.Email, true
	case "region":
		return r.Region, true
	case "createdAt":
		return r.CreatedAt, true
	case "updatedAt":
		return r.UpdatedAt, true
	default:
		return nil, false
	}
}

// RealtorFilter selects realtors. Nil fields mean no constraint.
type RealtorFilter struct {
	immosync.BaseFilter

	// Name matches every word against first and last name combined.
	Name *string `json:"name,omitempty"`

	// Region matches every word as a case-insensitive substring.
	Region *string `json:"region,omitempty"`

	// Active matches only realtors whose flag is set to the same value.
	Active *bool `json:"active,omitempty"`
}

// Match reports whether the realtor satisfies every set predicate.
func (f RealtorFilter) Match(r Realtor) bool {
	if !f.MatchBase(r) {
		return false
	}
	if f.Name != nil {
		full := r.FirstName + " " + r.LastName
		if full == " " || !immosync.ContainsWords(*f.Name, full) {
			return false
		}
	}
	if f.Region != nil && (r.Region == "" || !immosync.ContainsWords(*f.Region, r.Region)) {
		return false
	}
	if f.Active != nil && (r.Active == nil || *r.Active != *f.Active) {
		return false
	}
	return true
}
