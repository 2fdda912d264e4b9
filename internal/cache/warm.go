package cache

import (
	"context"

	"github.com/tagcache/internal/logging"
)

// WarmEntry is one key to preload: its fetch function plus the options the
// eventual write should honor.
type WarmEntry[V any] struct {
	Key     string
	Fetch   FetchFunc[V]
	Options []Option
}

// Warm preloads entries ahead of demand, sequentially and in order. Entries
// are independent: a failing fetch is logged and skipped while the rest
// proceed. It returns the number of entries actually written, which is also
// published in the closing cache-warming cleanup event. A zero-TTL entry
// fetches but stores nothing and does not count.
func (s *Store[V]) Warm(ctx context.Context, entries []WarmEntry[V]) (int, error) {
	added := 0
	for _, we := range entries {
		if we.Fetch == nil {
			logging.Warn("cache warm entry has no fetch function", logging.Key(we.Key))
			continue
		}
		v, err := we.Fetch(ctx)
		if err != nil {
			logging.Warn("cache warm fetch failed", logging.Key(we.Key), logging.Err(err))
			continue
		}
		stored, err := s.set(ctx, we.Key, v, applyOptions(we.Options))
		if err != nil {
			// A closed store fails every remaining write; stop here.
			return added, err
		}
		if stored {
			added++
		}
	}

	s.bus.publish(Event{Type: EventCleanup, Kind: CleanupWarming, KeysAdded: added})
	return added, nil
}
