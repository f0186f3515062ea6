package realestate

import (
	"github.com/immobase/immosync-go/pkg/immosync"
)

// Person is a client of the agency, either a buyer or a seller.
type Person struct {
	ID immosync.EntityID `json:"id"`
	immosync.Audit

	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`

	// Realtor is the agent responsible for this client.
	Realtor immosync.EntityID `json:"realtor,omitempty"`

	// Properties references listings the person owns or is interested in.
	Properties []immosync.EntityID `json:"properties,omitempty"`
}

// RecordID returns the person identifier.
func (p Person) RecordID() immosync.EntityID { return p.ID }

// AuditInfo returns the person's audit fields.
func (p Person) AuditInfo() immosync.Audit { return p.Audit }

// SortValue resolves a sort column by name.
func (p Person) SortValue(column string) (any, bool) {
	switch column {
	case "id":
		return p.ID, true
	case "firstName":
		return p.FirstName, true
	case "lastName":
		return p.LastName, true
	case "email":
		return p.Email, true
	case "city":
		return p.City, true
	case "createdAt":
		return p.CreatedAt, true
	case "updatedAt":
		return p.UpdatedAt, true
	default:
		return nil, false
	}
}

// PersonFilter selects persons. Nil fields mean no constraint.
type PersonFilter struct {
	immosync.BaseFilter

	// Name matches every word against first and last name combined.
	Name *string `json:"name,omitempty"`

	// Email matches every word as a case-insensitive substring.
	Email *string `json:"email,omitempty"`

	// City matches every word as a case-insensitive substring.
	City *string `json:"city,omitempty"`

	Realtor *immosync.EntityID `json:"realtor,omitempty"`

	// Properties requires every listed id to appear on the person.
	Properties []immosync.EntityID `json:"properties,omitempty"`
}

// Match reports whether the person satisfies every set predicate.
func (f PersonFilter) Match(p Person) bool {
	if !f.MatchBase(p) {
		return false
	}
	if f.Name != nil {
		full := p.FirstName + " " + p.LastName
		if full == " " || !immosync.ContainsWords(*f.Name, full) {
			return false
		}
	}
	if f.Email != nil && (p.Email == "" || !immosync.ContainsWords(*f.Email, p.Email)) {
		return false
	}
	if f.City != nil && (p.City == "" || !immosync.ContainsWords(*f.City, p.City)) {
		return false
	}
	if f.Realtor != nil && (p.Realtor == 0 || p.Realtor != *f.Realtor) {
		return false
	}
	if len(f.Properties) > 0 && !immosync.ContainsAllIDs(f.Properties, p.Properties) {
		return false
	}
	return true
}
