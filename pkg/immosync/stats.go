package immosync

import "sync/atomic"

// Stats holds cache performance statistics.
type Stats struct {
	hits        int64
	misses      int64
	fetches     int64
	searches    int64
	pushApplied int64
	staleDrops  int64
	persists    int64
	recordCount int64
}

// Hits returns the number of fetches satisfied from the cache.
func (s *Stats) Hits() int64 {
	return atomic.LoadInt64(&s.hits)
}

// Misses returns the number of fetches that had to go to the backend.
func (s *Stats) Misses() int64 {
	return atomic.LoadInt64(&s.misses)
}

// Fetches returns the number of backend get calls issued.
func (s *Stats) Fetches() int64 {
	return atomic.LoadInt64(&s.fetches)
}

// Searches returns the number of backend search calls issued.
func (s *Stats) Searches() int64 {
	return atomic.LoadInt64(&s.searches)
}

// PushApplied returns the number of real-time events applied to the cache.
func (s *Stats) PushApplied() int64 {
	return atomic.LoadInt64(&s.pushApplied)
}

// StaleDrops returns the number of out-of-order responses discarded.
func (s *Stats) StaleDrops() int64 {
	return atomic.LoadInt64(&s.staleDrops)
}

// Persists returns the number of writes to the persistent local store.
func (s *Stats) Persists() int64 {
	return atomic.LoadInt64(&s.persists)
}

// RecordCount returns the current number of cached records.
func (s *Stats) RecordCount() int64 {
	return atomic.LoadInt64(&s.recordCount)
}

// HitRate returns the cache hit rate as a percentage (0-100).
func (s *Stats) HitRate() float64 {
	hits := s.Hits()
	misses := s.Misses()
	total := hits + misses

	if total == 0 {
		return 0
	}

	return float64(hits) / float64(total) * 100
}

// Total returns the total number of record lookups (hits + misses).
func (s *Stats) Total() int64 {
	return s.Hits() + s.Misses()
}

// Reset resets all statistics to zero.
func (s *Stats) Reset() {
	atomic.StoreInt64(&s.hits, 0)
	atomic.StoreInt64(&s.misses, 0)
	atomic.StoreInt64(&s.fetches, 0)
	atomic.StoreInt64(&s.searches, 0)
	atomic.StoreInt64(&s.pushApplied, 0)
	atomic.StoreInt64(&s.staleDrops, 0)
	atomic.StoreInt64(&s.persists, 0)
	atomic.StoreInt64(&s.recordCount, 0)
}

func (s *Stats) incHits()        { atomic.AddInt64(&s.hits, 1) }
func (s *Stats) incMisses()      { atomic.AddInt64(&s.misses, 1) }
func (s *Stats) incFetches()     { atomic.AddInt64(&s.fetches, 1) }
func (s *Stats) incSearches()    { atomic.AddInt64(&s.searches, 1) }
func (s *Stats) incPushApplied() { atomic.AddInt64(&s.pushApplied, 1) }
func (s *Stats) incStaleDrops()  { atomic.AddInt64(&s.staleDrops, 1) }
func (s *Stats) incPersists()    { atomic.AddInt64(&s.persists, 1) }

func (s *Stats) setRecordCount(count int64) { atomic.StoreInt64(&s.recordCount, count) }
