package immosync

import (
	"context"
	"reflect"
	"testing"
)

func sortBySize() SortConfig {
	return SortConfig{{Column: "size", Dir: Ascending}}
}

func TestPushNewInsertsSorted(t *testing.T) {
	svc := newFakeService(
		testRec{ID: 1, Name: "a", Size: 10},
		testRec{ID: 2, Name: "b", Size: 30},
	)
	seedSearch(svc, 1, 2)
	cache := newTestCache(t, nil, svc)

	index, err := cache.Search(context.Background(), testFilter{}, sortBySize(), 10, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// Size 20 sorts between the two cached records regardless of arrival
	// order.
	svc.pushNew(testRec{ID: 3, Name: "c", Size: 20})

	ids, _ := cache.ResultSet(index)
	if !reflect.DeepEqual(ids, []EntityID{1, 3, 2}) {
		t.Errorf("ResultSet() = %v, want [1 3 2]", ids)
	}
	if _, ok := cache.ByID(3); !ok {
		t.Error("pushed record should be cached")
	}
	if applied := cache.Stats().PushApplied(); applied != 1 {
		t.Errorf("PushApplied() = %d, want 1", applied)
	}
}

func TestPushNewSkipsNonMatchingSets(t *testing.T) {
	svc := newFakeService(testRec{ID: 1, Name: "alpha", Size: 10})
	seedSearch(svc, 1)
	cache := newTestCache(t, nil, svc)

	index, err := cache.Search(context.Background(), testFilter{Name: strPtr("alpha")}, sortByID(), 10, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	svc.pushNew(testRec{ID: 2, Name: "beta", Size: 10})

	ids, _ := cache.ResultSet(index)
	if !reflect.DeepEqual(ids, []EntityID{1}) {
		t.Errorf("ResultSet() = %v, want [1] untouched", ids)
	}
	// The record itself is still cached for direct lookup.
	if _, ok := cache.ByID(2); !ok {
		t.Error("non-matching pushed record should still be cached")
	}
}

func TestPushNewIncrementsTotal(t *testing.T) {
	svc := newFakeService(testRec{ID: 1, Size: 10})
	seedSearch(svc, 1)
	svc.countFn = func(testFilter) (int, error) { return 1, nil }
	cache := newTestCache(t, nil, svc)

	index, err := cache.Search(context.Background(), testFilter{}, sortByID(), 10, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	svc.pushNew(testRec{ID: 2, Size: 20})
	if total, ok := cache.ResultTotal(index); !ok || total != 2 {
		t.Errorf("ResultTotal() = %d, %v, want 2", total, ok)
	}
	svc.pushDeleted(2)
	if total, ok := cache.ResultTotal(index); !ok || total != 1 {
		t.Errorf("ResultTotal() after delete = %d, %v, want 1", total, ok)
	}
}

func TestPushUpdatedMovesBetweenResultSets(t *testing.T) {
	svc := newFakeService(
		testRec{ID: 1, Name: "small", Size: 10},
		testRec{ID: 2, Name: "large", Size: 100},
	)
	// Two tracked sets with complementary size predicates.
	smallFilter := testFilter{}
	largeFilter := testFilter{MinSize: i64Ptr(50)}

	svc.searchFn = func(filter testFilter, _ SortConfig, pageSize int, _ Cursor) ([]EntityID, error) {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		var out []EntityID
		for _, rec := range svc.records {
			if filter.Match(rec) && len(out) < pageSize {
				out = append(out, rec.ID)
			}
		}
		return out, nil
	}
	cache := newTestCache(t, nil, svc)

	allIndex, err := cache.Search(context.Background(), smallFilter, sortByID(), 10, nil)
	if err != nil {
		t.Fatalf("Search(all) error = %v", err)
	}
	largeIndex, err := cache.Search(context.Background(), largeFilter, sortByID(), 10, nil)
	if err != nil {
		t.Fatalf("Search(large) error = %v", err)
	}

	// Record 1 grows past the threshold: it must appear in the large set
	// while staying in the unconstrained one.
	svc.pushUpdated(testRec{ID: 1, Name: "small", Size: 60})

	largeIDs, _ := cache.ResultSet(largeIndex)
	if !reflect.DeepEqual(largeIDs, []EntityID{1, 2}) {
		t.Errorf("large ResultSet() = %v, want [1 2]", largeIDs)
	}
	allIDs, _ := cache.ResultSet(allIndex)
	if !reflect.DeepEqual(allIDs, []EntityID{1, 2}) {
		t.Errorf("all ResultSet() = %v, want [1 2]", allIDs)
	}

	// And back below: it leaves the large set again.
	svc.pushUpdated(testRec{ID: 1, Name: "small", Size: 5})
	largeIDs, _ = cache.ResultSet(largeIndex)
	if !reflect.DeepEqual(largeIDs, []EntityID{2}) {
		t.Errorf("large ResultSet() after shrink = %v, want [2]", largeIDs)
	}
}

func TestPushUpdatedResortsWithinSet(t *testing.T) {
	svc := newFakeService(
		testRec{ID: 1, Size: 10},
		testRec{ID: 2, Size: 20},
		testRec{ID: 3, Size: 30},
	)
	seedSearch(svc, 1, 2, 3)
	cache := newTestCache(t, nil, svc)

	index, err := cache.Search(context.Background(), testFilter{}, sortBySize(), 10, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// The update moves record 1's sort key past the others.
	svc.pushUpdated(testRec{ID: 1, Size: 99})

	ids, _ := cache.ResultSet(index)
	if !reflect.DeepEqual(ids, []EntityID{2, 3, 1}) {
		t.Errorf("ResultSet() = %v, want [2 3 1]", ids)
	}
}

func TestPushDeletedRemovesFromAllResultSets(t *testing.T) {
	svc := newFakeService(
		testRec{ID: 1, Name: "alpha", Size: 10},
		testRec{ID: 2, Name: "alpha beta", Size: 20},
	)
	seedSearch(svc, 1, 2)
	cache := newTestCache(t, nil, svc)

	index1, err := cache.Search(context.Background(), testFilter{}, sortByID(), 10, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	index2, err := cache.Search(context.Background(), testFilter{Name: strPtr("alpha")}, sortByID(), 10, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	svc.pushDeleted(1)

	if _, ok := cache.ByID(1); ok {
		t.Error("deleted record should leave the cache")
	}
	for _, index := range []string{index1, index2} {
		ids, _ := cache.ResultSet(index)
		if !reflect.DeepEqual(ids, []EntityID{2}) {
			t.Errorf("ResultSet(%q) = %v, want [2]", index, ids)
		}
	}
}

func TestPushSoftDeleteLeavesActiveSets(t *testing.T) {
	svc := newFakeService(
		testRec{ID: 1, Audit: Audit{Deleted: boolPtr(false)}, Size: 10},
		testRec{ID: 2, Audit: Audit{Deleted: boolPtr(false)}, Size: 20},
	)
	seedSearch(svc, 1, 2)
	cache := newTestCache(t, nil, svc)

	active := testFilter{BaseFilter: BaseFilter{Deleted: boolPtr(false)}}
	index, err := cache.Search(context.Background(), active, sortByID(), 10, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// The soft delete arrives as an ordinary update with the flag flipped.
	svc.pushUpdated(testRec{ID: 1, Audit: Audit{Deleted: boolPtr(true)}, Size: 10})

	ids, _ := cache.ResultSet(index)
	if !reflect.DeepEqual(ids, []EntityID{2}) {
		t.Errorf("active ResultSet() = %v, want [2]", ids)
	}
	// The record stays cached; it only fell out of the active view.
	if _, ok := cache.ByID(1); !ok {
		t.Error("soft-deleted record should remain cached")
	}
}

func TestPushEventsChangeNotifications(t *testing.T) {
	svc := newFakeService(testRec{ID: 1, Size: 10})
	seedSearch(svc, 1)
	cache := newTestCache(t, nil, svc)

	index, err := cache.Search(context.Background(), testFilter{}, sortByID(), 10, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	var changes []Change
	cancel := cache.OnChange(func(ch Change) { changes = append(changes, ch) })
	defer cancel()

	svc.pushNew(testRec{ID: 2, Size: 20})

	var gotRecord, gotResultSet bool
	for _, ch := range changes {
		switch ch.Kind {
		case ChangeRecord:
			if ch.ID == 2 {
				gotRecord = true
			}
		case ChangeResultSet:
			if ch.SearchIndex == index {
				gotResultSet = true
			}
		}
	}
	if !gotRecord || !gotResultSet {
		t.Errorf("changes = %+v, want a record change for id 2 and a result set change for %q", changes, index)
	}
}
