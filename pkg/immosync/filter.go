package immosync

import "strings"

// BaseFilter carries the predicates every entity filter inherits. A nil
// field means no constraint. A constrained field whose record counterpart
// is unset never matches (fail-closed).
type BaseFilter struct {
	IDEq            *EntityID  `json:"idEq,omitempty"`
	IDNot           []EntityID `json:"idNot,omitempty"`
	CreatedBy       *EntityID  `json:"createdBy,omitempty"`
	CreatedAtAfter  *int64     `json:"createdAtAfter,omitempty"`
	CreatedAtBefore *int64     `json:"createdAtBefore,omitempty"`
	UpdatedBy       *EntityID  `json:"updatedBy,omitempty"`
	UpdatedAtAfter  *int64     `json:"updatedAtAfter,omitempty"`
	UpdatedAtBefore *int64     `json:"updatedAtBefore,omitempty"`
	Deleted         *bool      `json:"deleted,omitempty"`
}

// MatchBase evaluates the inherited predicates against a record.
// Range checks are inclusive on both ends.
func (f BaseFilter) MatchBase(r Record) bool {
	id := r.RecordID()
	audit := r.AuditInfo()

	if f.IDEq != nil && id != *f.IDEq {
		return false
	}
	for _, excluded := range f.IDNot {
		if id == excluded {
			return false
		}
	}
	if f.CreatedBy != nil && (audit.CreatedBy == 0 || audit.CreatedBy != *f.CreatedBy) {
		return false
	}
	if f.CreatedAtAfter != nil && (audit.CreatedAt == 0 || audit.CreatedAt < *f.CreatedAtAfter) {
		return false
	}
	if f.CreatedAtBefore != nil && (audit.CreatedAt == 0 || audit.CreatedAt > *f.CreatedAtBefore) {
		return false
	}
	if f.UpdatedBy != nil && (audit.UpdatedBy == 0 || audit.UpdatedBy != *f.UpdatedBy) {
		return false
	}
	if f.UpdatedAtAfter != nil && (audit.UpdatedAt == 0 || audit.UpdatedAt < *f.UpdatedAtAfter) {
		return false
	}
	if f.UpdatedAtBefore != nil && (audit.UpdatedAt == 0 || audit.UpdatedAt > *f.UpdatedAtBefore) {
		return false
	}
	if f.Deleted != nil && (audit.Deleted == nil || *audit.Deleted != *f.Deleted) {
		return false
	}
	return true
}

// ContainsWords reports whether every whitespace-separated word of query is a
// case-insensitive substring of target. An empty query matches everything;
// this is an AND-of-words contains match, not a phrase match.
func ContainsWords(query, target string) bool {
	lowered := strings.ToLower(target)
	for _, word := range strings.Fields(query) {
		if !strings.Contains(lowered, strings.ToLower(word)) {
			return false
		}
	}
	return true
}

// ContainsAllIDs reports whether every id in want appears in have
// (subset containment for multi-valued reference fields).
func ContainsAllIDs(want, have []EntityID) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
