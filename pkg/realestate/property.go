package realestate

import (
	"github.com/immobase/immosync-go/pkg/immosync"
)

// PropertyType classifies a property listing.
type PropertyType string

const (
	PropertyApartment  PropertyType = "apartment"
	PropertyHouse      PropertyType = "house"
	PropertyLand       PropertyType = "land"
	PropertyCommercial PropertyType = "commercial"
)

// PropertyState tracks where a property stands in its sales cycle.
type PropertyState string

const (
	PropertyAvailable PropertyState = "available"
	PropertyReserved  PropertyState = "reserved"
	PropertySold      PropertyState = "sold"
	PropertyRented    PropertyState = "rented"
)

// Coordinates is a WGS84 map position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Property is a real-estate listing.
type Property struct {
	ID immosync.EntityID `json:"id"`
	immosync.Audit

	Address     string              `json:"address,omitempty"`
	City        string              `json:"city,omitempty"`
	Coordinates *Coordinates        `json:"coordinates,omitempty"`
	Type        PropertyType        `json:"type,omitempty"`
	State       PropertyState       `json:"state,omitempty"`
	Rooms       float64             `json:"rooms,omitempty"`
	Area        float64             `json:"area,omitempty"`
	Price       int64               `json:"price,omitempty"`
	Owner       immosync.EntityID   `json:"owner,omitempty"`
	Realtors    []immosync.EntityID `json:"realtors,omitempty"`
}

// RecordID returns the property identifier.
func (p Property) RecordID() immosync.EntityID { return p.ID }

// AuditInfo returns the property's audit fields.
func (p Property) AuditInfo() immosync.Audit { return p.Audit }

// SortValue resolves a sort column by name.
func (p Property) SortValue(column string) (any, bool) {
	switch column {
	case "id":
		return p.ID, true
	case "address":
		return p.Address, true
	case "city":
		return p.City, true
	case "type":
		return string(p.Type), true
	case "state":
		return string(p.State), true
	case "rooms":
		return p.Rooms, true
	case "area":
		return p.Area, true
	case "price":
		return p.Price, true
	case "createdAt":
		return p.CreatedAt, true
	case "updatedAt":
		return p.UpdatedAt, true
	default:
		return nil, false
	}
}

// PropertyFilter selects properties. Nil fields mean no constraint.
type PropertyFilter struct {
	immosync.BaseFilter

	// Address matches every word as a case-insensitive substring.
	Address *string `json:"address,omitempty"`

	// City matches every word as a case-insensitive substring.
	City *string `json:"city,omitempty"`

	Type  *PropertyType  `json:"type,omitempty"`
	State *PropertyState `json:"state,omitempty"`

	Owner *immosync.EntityID `json:"owner,omitempty"`

	// Realtors requires every listed id to appear on the property.
	Realtors []immosync.EntityID `json:"realtors,omitempty"`

	// MinPrice and MaxPrice bound the price inclusively.
	MinPrice *int64 `json:"minPrice,omitempty"`
	MaxPrice *int64 `json:"maxPrice,omitempty"`
}

// Match reports whether the property satisfies every set predicate.
func (f PropertyFilter) Match(p Property) bool {
	if !f.MatchBase(p) {
		return false
	}
	if f.Address != nil && (p.Address == "" || !immosync.ContainsWords(*f.Address, p.Address)) {
		return false
	}
	if f.City != nil && (p.City == "" || !immosync.ContainsWords(*f.City, p.City)) {
		return false
	}
	if f.Type != nil && (p.Type == "" || p.Type != *f.Type) {
		return false
	}
	if f.State != nil && (p.State == "" || p.State != *f.State) {
		return false
	}
	if f.Owner != nil && (p.Owner == 0 || p.Owner != *f.Owner) {
		return false
	}
	if len(f.Realtors) > 0 && !immosync.ContainsAllIDs(f.Realtors, p.Realtors) {
		return false
	}
	if f.MinPrice != nil && (p.Price == 0 || p.Price < *f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && (p.Price == 0 || p.Price > *f.MaxPrice) {
		return false
	}
	return true
}
