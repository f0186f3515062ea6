package immosync

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/immobase/immosync-go/pkg/metrics"
)

// resultSet tracks the cumulative pages fetched so far for one search index,
// patched incrementally by real-time events for the lifetime of the cache.
type resultSet[E Record, P Filter[E]] struct {
	filter P
	sort   SortConfig
	ids    []EntityID

	total    int
	hasTotal bool

	// inFlight counts searches currently against the backend for this index.
	inFlight int

	// issueSeq tags outgoing search calls; applySeq remembers the newest
	// applied response so older ones are discarded instead of clobbering
	// fresher pages.
	issueSeq uint64
	applySeq uint64
}

// Search ensures the result set for (filter, sortCfg) extends at least
// pageSize entries past the cursor position, fetching a page from the remote
// service when it does not. It returns the search index identifying the
// result set; equivalent filters always map to the same index, so switching
// between views with identical criteria reuses already-fetched pages.
//
// The returned page's ids are appended immediately after the cursor
// position; previously cached ids beyond that point are replaced, not
// merged. Records for newly returned ids are fetched into the cache.
func (c *Cache[E, P]) Search(ctx context.Context, filter P, sortCfg SortConfig, pageSize int, cursor Cursor) (string, error) {
	if pageSize <= 0 {
		return "", ErrInvalidPageSize
	}
	if err := c.awaitReady(ctx); err != nil {
		return "", err
	}
	start := time.Now()

	sortCfg = sortCfg.WithIDTiebreak()
	index := SearchIndexFor(filter, sortCfg)

	c.mu.Lock()
	rs := c.results[index]
	if rs == nil {
		rs = &resultSet[E, P]{filter: filter, sort: sortCfg}
		c.results[index] = rs
	}
	pos := c.cursorPosLocked(rs, cursor)
	if len(rs.ids) >= pos+pageSize {
		// Already satisfied from cached pages.
		c.mu.Unlock()
		return index, nil
	}
	rs.issueSeq++
	seq := rs.issueSeq
	rs.inFlight++
	c.mu.Unlock()

	c.stats.incSearches()
	ids, err := c.svc.SearchIDs(ctx, filter, sortCfg, pageSize, cursor)

	var total int
	haveTotal := false
	if err == nil && len(cursor) == 0 {
		if t, terr := c.svc.Count(ctx, filter); terr == nil {
			total = t
			haveTotal = true
		} else {
			c.log.Debug("count failed", F("index", index), F("error", terr))
		}
	}
	c.recordOperation(metrics.OperationSearch, time.Since(start))

	c.mu.Lock()
	rs.inFlight--
	if err != nil {
		c.mu.Unlock()
		return "", fmt.Errorf("search failed: %w", err)
	}
	if seq <= rs.applySeq {
		// A newer response for this index already landed; applying this
		// one would overwrite fresher pages with older data.
		c.stats.incStaleDrops()
		c.mu.Unlock()
		return index, nil
	}
	rs.applySeq = seq
	pos = c.cursorPosLocked(rs, cursor)
	rs.ids = append(rs.ids[:pos:pos], ids...)
	if haveTotal {
		rs.total = total
		rs.hasTotal = true
	}
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeResultSet, SearchIndex: index})

	if len(ids) > 0 {
		if err := c.FetchMany(ctx, ids); err != nil {
			return index, fmt.Errorf("failed to load search results: %w", err)
		}
	}
	return index, nil
}

// ResultSet returns a copy of the ordered id list for a search index.
func (c *Cache[E, P]) ResultSet(index string) ([]EntityID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rs, ok := c.results[index]
	if !ok {
		return nil, false
	}
	ids := make([]EntityID, len(rs.ids))
	copy(ids, rs.ids)
	return ids, true
}

// ResultTotal returns the backend's total row count for a search index,
// when one was reported.
func (c *Cache[E, P]) ResultTotal(index string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rs, ok := c.results[index]
	if !ok || !rs.hasTotal {
		return 0, false
	}
	return rs.total, true
}

// SearchInProgress reports whether a backend search is currently in flight
// for the given index.
func (c *Cache[E, P]) SearchInProgress(index string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rs, ok := c.results[index]
	return ok && rs.inFlight > 0
}

// cursorPosLocked finds the append position identified by a cursor: the slot
// after the record whose sort-column values equal the cursor's. No cursor
// means the start; an unknown cursor appends at the end.
func (c *Cache[E, P]) cursorPosLocked(rs *resultSet[E, P], cursor Cursor) int {
	if len(cursor) == 0 {
		return 0
	}
	for i, id := range rs.ids {
		rec, ok := c.records[id]
		if !ok {
			continue
		}
		if cursorMatches(rec, rs.sort, cursor) {
			return i + 1
		}
	}
	return len(rs.ids)
}

// cursorMatches reports whether r sits exactly at the cursor position under
// the sort configuration.
func cursorMatches(r Record, sortCfg SortConfig, cursor Cursor) bool {
	for _, key := range sortCfg {
		want, ok := cursor[key.Column]
		if !ok {
			return false
		}
		got, _ := r.SortValue(key.Column)
		if compareSortValues(got, want) != 0 {
			return false
		}
	}
	return true
}

// resortLocked re-sorts a result set's materialized id list by its sort
// configuration using currently cached records. Ids whose record is not yet
// cached keep their relative order after the sorted portion.
func (c *Cache[E, P]) resortLocked(rs *resultSet[E, P]) {
	cached := make([]EntityID, 0, len(rs.ids))
	uncached := make([]EntityID, 0)
	for _, id := range rs.ids {
		if _, ok := c.records[id]; ok {
			cached = append(cached, id)
		} else {
			uncached = append(uncached, id)
		}
	}
	sort.SliceStable(cached, func(i, j int) bool {
		return rs.sort.Less(c.records[cached[i]], c.records[cached[j]])
	})
	rs.ids = append(cached, uncached...)
}

func containsID(ids []EntityID, id EntityID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeID(ids []EntityID, id EntityID) []EntityID {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
