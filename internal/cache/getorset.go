package cache

import (
	"context"

	"github.com/tagcache/internal/logging"
)

// FetchFunc loads the value for a key the cache cannot serve.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// GetOrSet is the read-through path: return the cached value when a live
// entry exists, otherwise fetch, store and return. SkipCache bypasses the
// store in both directions; RefreshCache fetches unconditionally and
// replaces the entry. Fetch errors are returned as-is and nothing is cached
// for them.
//
// With Config.SingleFlight enabled, concurrent misses on the same key share
// one fetch call and all receive its result.
func (s *Store[V]) GetOrSet(ctx context.Context, key string, fetch FetchFunc[V], opts ...Option) (V, error) {
	var zero V
	o := applyOptions(opts)

	if o.skip {
		return fetch(ctx)
	}

	if o.refresh {
		v, err := fetch(ctx)
		if err != nil {
			return zero, err
		}
		if _, err := s.set(ctx, key, v, o); err != nil {
			logging.Warn("cache refresh write failed", logging.Key(key), logging.Err(err))
		}
		return v, nil
	}

	v, ok, err := s.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	if ok {
		return v, nil
	}

	if s.group != nil {
		res, err, _ := s.group.Do(key, func() (any, error) {
			fresh, ferr := s.fetchAndStore(ctx, key, fetch, o)
			return fresh, ferr
		})
		if err != nil {
			return zero, err
		}
		return res.(V), nil
	}
	return s.fetchAndStore(ctx, key, fetch, o)
}

// fetchAndStore runs the fetch and writes the result back. Write-back
// failure is logged, not returned: the fetched value still serves the read.
func (s *Store[V]) fetchAndStore(ctx context.Context, key string, fetch FetchFunc[V], o callOptions) (V, error) {
	v, err := fetch(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	if _, err := s.set(ctx, key, v, o); err != nil {
		logging.Warn("cache write after fetch failed", logging.Key(key), logging.Err(err))
	}
	return v, nil
}
