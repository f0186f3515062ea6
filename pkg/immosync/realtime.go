package immosync

// Real-time reconciliation. These handlers are registered with the remote
// service's push channel at construction time and may run at any moment,
// including before hydration completes; the record map resolves such races
// last-write-wins.

// applyNew upserts a pushed record and inserts its id into every tracked
// result set whose filter it matches, re-sorting each affected set.
func (c *Cache[E, P]) applyNew(rec E) {
	id := rec.RecordID()
	changes := []Change{{Kind: ChangeRecord, ID: id}}

	c.mu.Lock()
	c.records[id] = rec
	for index, rs := range c.results {
		if !rs.filter.Match(rec) {
			continue
		}
		if !containsID(rs.ids, id) {
			rs.ids = append(rs.ids, id)
			if rs.hasTotal {
				rs.total++
			}
		}
		c.resortLocked(rs)
		changes = append(changes, Change{Kind: ChangeResultSet, SearchIndex: index})
	}
	c.stats.incPushApplied()
	c.stats.setRecordCount(int64(len(c.records)))
	c.persistLocked()
	c.mu.Unlock()

	if c.hooks != nil {
		c.hooks.invokeOnApply(PushNew, id)
	}
	c.notify(changes...)
}

// applyUpdated upserts a pushed record and reconciles every tracked result
// set: sets the record no longer matches drop its id, sets it newly matches
// gain it, and any set still containing it re-sorts, since the update may
// have moved the record's sort position.
func (c *Cache[E, P]) applyUpdated(rec E) {
	id := rec.RecordID()
	changes := []Change{{Kind: ChangeRecord, ID: id}}

	c.mu.Lock()
	c.records[id] = rec
	for index, rs := range c.results {
		matches := rs.filter.Match(rec)
		present := containsID(rs.ids, id)
		switch {
		case present && !matches:
			rs.ids = removeID(rs.ids, id)
			if rs.hasTotal {
				rs.total--
			}
		case !present && matches:
			rs.ids = append(rs.ids, id)
			if rs.hasTotal {
				rs.total++
			}
			c.resortLocked(rs)
		case present && matches:
			c.resortLocked(rs)
		default:
			continue
		}
		changes = append(changes, Change{Kind: ChangeResultSet, SearchIndex: index})
	}
	c.stats.incPushApplied()
	c.stats.setRecordCount(int64(len(c.records)))
	c.persistLocked()
	c.mu.Unlock()

	if c.hooks != nil {
		c.hooks.invokeOnApply(PushUpdated, id)
	}
	c.notify(changes...)
}

// applyDeleted removes a pushed id from the record map and from every
// tracked result set containing it.
func (c *Cache[E, P]) applyDeleted(id EntityID) {
	changes := []Change{{Kind: ChangeRecord, ID: id}}

	c.mu.Lock()
	delete(c.records, id)
	for index, rs := range c.results {
		if !containsID(rs.ids, id) {
			continue
		}
		rs.ids = removeID(rs.ids, id)
		if rs.hasTotal {
			rs.total--
		}
		changes = append(changes, Change{Kind: ChangeResultSet, SearchIndex: index})
	}
	c.stats.incPushApplied()
	c.stats.setRecordCount(int64(len(c.records)))
	c.persistLocked()
	c.mu.Unlock()

	if c.hooks != nil {
		c.hooks.invokeOnApply(PushDeleted, id)
	}
	c.notify(changes...)
}
