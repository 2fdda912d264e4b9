package cache

// evictOverCapacityLocked removes least-recently-accessed entries until the
// store fits MaxSize again, returning the number removed so the caller can
// emit one summary event per triggering write. Caller holds mu.
func (s *Store[V]) evictOverCapacityLocked() int {
	if s.cfg.MaxSize <= 0 {
		return 0
	}
	removed := 0
	for len(s.entries) > s.cfg.MaxSize {
		victim := s.lruLocked()
		if victim == nil {
			break
		}
		s.removeLocked(victim)
		removed++
	}
	return removed
}

// lruLocked picks the eviction candidate: minimum lastAccessedAt, with
// createdAt and then insertion order breaking ties. For a never-read entry
// lastAccessedAt equals createdAt, so untouched entries age by insertion.
// Caller holds mu.
func (s *Store[V]) lruLocked() *entry[V] {
	var victim *entry[V]
	for _, e := range s.entries {
		if victim == nil || olderThan(e, victim) {
			victim = e
		}
	}
	return victim
}

func olderThan[V any](a, b *entry[V]) bool {
	if !a.lastAccessedAt.Equal(b.lastAccessedAt) {
		return a.lastAccessedAt.Before(b.lastAccessedAt)
	}
	if !a.createdAt.Equal(b.createdAt) {
		return a.createdAt.Before(b.createdAt)
	}
	return a.seq < b.seq
}
