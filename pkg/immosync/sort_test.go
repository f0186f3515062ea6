package immosync

import (
	"reflect"
	"testing"
)

func TestSortConfigLess(t *testing.T) {
	a := testRec{ID: 1, Name: "Beta", Size: 10}
	b := testRec{ID: 2, Name: "alpha", Size: 10}

	cases := []struct {
		name string
		cfg  SortConfig
		want bool // a before b
	}{
		{"by id asc", SortConfig{{Column: "id", Dir: Ascending}}, true},
		{"by id desc", SortConfig{{Column: "id", Dir: Descending}}, false},
		{"by name case-insensitive", SortConfig{{Column: "name", Dir: Ascending}}, false},
		{"equal size falls through to id", SortConfig{{Column: "size", Dir: Ascending}, {Column: "id", Dir: Ascending}}, true},
		{"unknown column ties", SortConfig{{Column: "bogus", Dir: Ascending}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.Less(a, b); got != tc.want {
				t.Errorf("Less() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCompareSortValuesNilFirst(t *testing.T) {
	if compareSortValues(nil, "x") != -1 {
		t.Error("nil should sort before a set value")
	}
	if compareSortValues("x", nil) != 1 {
		t.Error("a set value should sort after nil")
	}
	if compareSortValues(nil, nil) != 0 {
		t.Error("two nils should compare equal")
	}
}

func TestCompareSortValuesNumericKinds(t *testing.T) {
	// Mixed numeric kinds compare by value, not representation.
	if compareSortValues(EntityID(2), int64(10)) != -1 {
		t.Error("EntityID(2) should sort before int64(10)")
	}
	if compareSortValues(float64(2.5), int(2)) != 1 {
		t.Error("2.5 should sort after 2")
	}
}

func TestWithIDTiebreak(t *testing.T) {
	cfg := SortConfig{{Column: "price", Dir: Descending}}
	got := cfg.WithIDTiebreak()
	want := SortConfig{
		{Column: "price", Dir: Descending},
		{Column: "id", Dir: Ascending},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WithIDTiebreak() = %v, want %v", got, want)
	}

	// Idempotent: an existing id key is left alone.
	if again := got.WithIDTiebreak(); !reflect.DeepEqual(again, want) {
		t.Errorf("WithIDTiebreak() twice = %v, want %v", again, want)
	}
	// The original configuration is not mutated.
	if len(cfg) != 1 {
		t.Errorf("original config mutated: %v", cfg)
	}
}

func TestCursorFor(t *testing.T) {
	rec := testRec{ID: 5, Name: "alpha", Size: 42}
	cfg := SortConfig{{Column: "size", Dir: Ascending}, {Column: "id", Dir: Ascending}}

	got := CursorFor(rec, cfg)
	want := Cursor{"size": int64(42), "id": EntityID(5)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CursorFor() = %v, want %v", got, want)
	}
}
