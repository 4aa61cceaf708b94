package bridge

// Record-presence cache.
//
// The consumer runtime keeps its own copy of records it has already
// received; this set lets the calling layer skip re-sending them. Keys
// are opaque identifiers (by convention "table#id"). Membership is
// existence-only, there is no eviction, and the set is never persisted —
// a full reset clears it along with the data it described.

// IsCached reports whether the key has been marked as materialized.
func (d *Database) IsCached(key string) bool {
	d.recordMu.RLock()
	defer d.recordMu.RUnlock()
	_, ok := d.cachedRecords[key]
	return ok
}

// MarkAsCached records that the consumer side now holds this record.
func (d *Database) MarkAsCached(key string) {
	d.recordMu.Lock()
	defer d.recordMu.Unlock()
	d.cachedRecords[key] = struct{}{}
}

// RemoveFromCache forgets a record, forcing it to be re-sent next time.
func (d *Database) RemoveFromCache(key string) {
	d.recordMu.Lock()
	defer d.recordMu.Unlock()
	delete(d.cachedRecords, key)
}

// clearRecordCache empties the set. Called during full reset: once the
// schema is wiped the consumer's copies describe records that no longer
// exist.
func (d *Database) clearRecordCache() {
	d.recordMu.Lock()
	defer d.recordMu.Unlock()
	d.cachedRecords = make(map[string]struct{})
}
