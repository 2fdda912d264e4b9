package cache

import (
	"encoding/json"
	"time"
)

// Size-estimate constants. The figures feed monitoring only, never eviction,
// so a representative number beats an exact one.
const (
	entryOverheadBytes = 48
	fallbackSizeBytes  = 112
)

// entry is a single cached value plus the metadata needed for TTL expiry,
// LRU selection and tag invalidation. Entries always carry an expiry: a
// resolved TTL <= 0 never creates an entry in the first place.
type entry[V any] struct {
	key            string
	value          V
	createdAt      time.Time
	expiresAt      time.Time
	lastAccessedAt time.Time
	accessCount    int64
	seq            uint64 // insertion order, breaks most-accessed and LRU ties
	tags           []string
	estSize        int64
}

// expired reports whether the entry is past its TTL at the given instant.
// Lazy (read-time) and eager (sweep-time) expiration share this predicate.
func (e *entry[V]) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// estimateSize returns a representative serialized size for a key/value
// pair. JSON length is close enough for the memory-usage metric; values the
// encoder rejects fall back to a flat figure.
func estimateSize[V any](key string, value V) int64 {
	b, err := json.Marshal(value)
	if err != nil {
		return int64(len(key)) + fallbackSizeBytes
	}
	return int64(len(key)) + int64(len(b)) + entryOverheadBytes
}

// normalizeTags drops empty and duplicate tags and copies the slice so
// callers cannot mutate indexed state afterwards.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
