package immosync

import (
	"fmt"
	"strings"
)

// Direction orders a sort column ascending or descending.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortKey pairs a column name with a direction.
type SortKey struct {
	Column string    `json:"column"`
	Dir    Direction `json:"dir"`
}

// SortConfig is an ordered, non-empty sequence of sort keys. It determines
// display order and the pagination cursor columns.
type SortConfig []SortKey

// WithIDTiebreak appends an ascending id key unless one is already present,
// guaranteeing a total order and deterministic pagination.
func (sc SortConfig) WithIDTiebreak() SortConfig {
	for _, key := range sc {
		if key.Column == "id" {
			return sc
		}
	}
	out := make(SortConfig, len(sc), len(sc)+1)
	copy(out, sc)
	return append(out, SortKey{Column: "id", Dir: Ascending})
}

// Less orders two records by the sort configuration. Columns a record does
// not expose compare as unset and sort before set values.
func (sc SortConfig) Less(a, b Record) bool {
	for _, key := range sc {
		av, _ := a.SortValue(key.Column)
		bv, _ := b.SortValue(key.Column)
		c := compareSortValues(av, bv)
		if c == 0 {
			continue
		}
		if key.Dir == Descending {
			return c > 0
		}
		return c < 0
	}
	return false
}

// Cursor holds, for every column of the active sort configuration, the field
// value of the last-seen record of a page. The remote service returns records
// strictly after this point.
type Cursor map[string]any

// CursorFor builds the pagination cursor identifying r's position under the
// given sort configuration.
func CursorFor(r Record, sc SortConfig) Cursor {
	cursor := make(Cursor, len(sc))
	for _, key := range sc {
		v, _ := r.SortValue(key.Column)
		cursor[key.Column] = v
	}
	return cursor
}

// compareSortValues compares two sort column values. Nil sorts before any
// set value; numeric kinds compare numerically, strings lexicographically
// case-insensitive, booleans false before true. Mismatched kinds fall back
// to their printed representation.
func compareSortValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	an, aNum := toFloat(a)
	bn, bNum := toFloat(b)
	if aNum && bNum {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}

	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		return strings.Compare(strings.ToLower(as), strings.ToLower(bs))
	}

	ab, aBool := a.(bool)
	bb, bBool := b.(bool)
	if aBool && bBool {
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case EntityID:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
