// Package cache implements the in-process cache engine: a tag-aware,
// TTL-bounded key/value store with LRU capacity eviction, lifecycle events,
// metrics and health reporting.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrClosed is returned by store operations after Shutdown.
var ErrClosed = errors.New("cache: store is closed")

// Store is the cache engine. One Store holds values of a single type; every
// named cache (see internal/recipes) is its own Store instance.
//
// All methods are safe for concurrent use. Lifecycle events are emitted
// synchronously after the store mutex is released, in operation order.
type Store[V any] struct {
	cfg   Config
	clock Clock

	mu       sync.RWMutex
	entries  map[string]*entry[V]
	tagIndex map[string]map[string]struct{}
	memBytes int64
	seq      uint64
	closed   bool
	sweep    *sweeper

	metrics *collector
	bus     *eventBus
	group   *singleflight.Group
}

// New builds a Store from cfg and starts the background sweep when
// CleanupInterval is positive. Zero Config fields fall back to
// DefaultConfig values as documented on Config.
func New[V any](cfg Config) *Store[V] {
	cfg = normalizeConfig(cfg)
	s := &Store[V]{
		cfg:      cfg,
		clock:    cfg.Clock,
		entries:  make(map[string]*entry[V]),
		tagIndex: make(map[string]map[string]struct{}),
		metrics:  newCollector(cfg.EnableMetrics),
		bus:      newEventBus(),
	}
	if cfg.SingleFlight {
		s.group = &singleflight.Group{}
	}
	if cfg.CleanupInterval > 0 {
		s.startSweeper(cfg.CleanupInterval)
	}
	return s
}

// Set stores value under key. Without a WithTTL option the store default TTL
// applies; a resolved TTL <= 0 means "do not cache" and the call is a
// successful no-op. An existing entry is replaced wholesale: value, TTL,
// tags and access statistics all reset.
func (s *Store[V]) Set(ctx context.Context, key string, value V, opts ...Option) error {
	_, err := s.set(ctx, key, value, applyOptions(opts))
	return err
}

// set is the shared write path. It reports whether an entry was actually
// stored so Warm can count real writes, and emits the set event followed by
// an eviction event when the write pushed the store over capacity.
func (s *Store[V]) set(_ context.Context, key string, value V, o callOptions) (bool, error) {
	ttl := o.resolveTTL(s.cfg.DefaultTTL)
	if ttl <= 0 {
		return false, nil
	}

	size := estimateSize(key, value)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	now := s.clock.Now()

	if prev, ok := s.entries[key]; ok {
		s.detachTagsLocked(prev)
		s.memBytes -= prev.estSize
	}

	s.seq++
	e := &entry[V]{
		key:            key,
		value:          value,
		createdAt:      now,
		expiresAt:      now.Add(ttl),
		lastAccessedAt: now,
		seq:            s.seq,
		tags:           normalizeTags(o.tags),
		estSize:        size,
	}
	s.entries[key] = e
	s.attachTagsLocked(e)
	s.memBytes += size

	evicted := s.evictOverCapacityLocked()
	s.mu.Unlock()

	s.metrics.set()
	s.bus.publish(Event{Type: EventSet, Key: key, TTL: ttl})
	if evicted > 0 {
		s.metrics.evicted(evicted)
		s.bus.publish(Event{Type: EventEviction, KeysRemoved: evicted})
	}
	return true, nil
}

// Get returns the live value for key. An expired entry is removed on the
// spot and reported as a miss with reason "expired". While metrics are
// enabled every call contributes one response-time sample, hit or miss.
func (s *Store[V]) Get(_ context.Context, key string) (V, bool, error) {
	var zero V
	if s.metrics.sampling {
		start := time.Now()
		defer func() { s.metrics.observeGet(time.Since(start)) }()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		// The failed read still counts as a miss so hit-rate math stays
		// consistent with request volume.
		s.metrics.miss()
		return zero, false, ErrClosed
	}
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		s.metrics.miss()
		s.bus.publish(Event{Type: EventMiss, Key: key, Reason: MissNotFound})
		return zero, false, nil
	}
	now := s.clock.Now()
	if e.expired(now) {
		s.removeLocked(e)
		s.mu.Unlock()
		s.metrics.miss()
		s.bus.publish(Event{Type: EventMiss, Key: key, Reason: MissExpired})
		return zero, false, nil
	}
	e.lastAccessedAt = now
	e.accessCount++
	v := e.value
	s.mu.Unlock()

	s.metrics.hit()
	s.bus.publish(Event{Type: EventHit, Key: key})
	return v, true, nil
}

// Delete removes key if present and reports whether an entry existed.
func (s *Store[V]) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	e, ok := s.entries[key]
	if ok {
		s.removeLocked(e)
	}
	s.mu.Unlock()
	return ok, nil
}

// Clear drops every entry and emits a manual cleanup event carrying the
// count, zero included.
func (s *Store[V]) Clear() int {
	s.mu.Lock()
	n := len(s.entries)
	s.entries = make(map[string]*entry[V])
	s.tagIndex = make(map[string]map[string]struct{})
	s.memBytes = 0
	s.mu.Unlock()

	s.bus.publish(Event{Type: EventCleanup, Kind: CleanupManual, KeysRemoved: n})
	return n
}

// InvalidateByTags removes every entry carrying at least one of the given
// tags and returns how many entries went. An entry matching several tags is
// removed and counted once.
func (s *Store[V]) InvalidateByTags(_ context.Context, tags ...string) (int, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, ErrClosed
	}
	victims := make(map[string]struct{})
	for _, t := range tags {
		for key := range s.tagIndex[t] {
			victims[key] = struct{}{}
		}
	}
	for key := range victims {
		if e, ok := s.entries[key]; ok {
			s.removeLocked(e)
		}
	}
	s.mu.Unlock()
	return len(victims), nil
}

// Len returns the number of stored entries, expired-but-unswept included.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Subscribe registers h for events of type t. Cancel on the returned
// subscription removes it; Shutdown removes every subscription at once.
func (s *Store[V]) Subscribe(t EventType, h Handler) *Subscription {
	return s.bus.subscribe(t, h)
}

// Shutdown stops the background sweep, drops all entries and removes every
// event subscription. It is idempotent; operations on a shut-down store
// return ErrClosed.
func (s *Store[V]) Shutdown() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.entries = make(map[string]*entry[V])
	s.tagIndex = make(map[string]map[string]struct{})
	s.memBytes = 0
	sw := s.sweep
	s.sweep = nil
	s.mu.Unlock()

	// The sweeper takes the store mutex, so it must be stopped outside it.
	if sw != nil {
		sw.stop()
	}
	s.bus.close()
	return nil
}

// attachTagsLocked records the entry's key under each of its tags. Caller
// holds mu.
func (s *Store[V]) attachTagsLocked(e *entry[V]) {
	for _, t := range e.tags {
		keys := s.tagIndex[t]
		if keys == nil {
			keys = make(map[string]struct{})
			s.tagIndex[t] = keys
		}
		keys[e.key] = struct{}{}
	}
}

// detachTagsLocked removes the entry from the tag index, dropping tag
// buckets that become empty so the index never outlives its entries. Caller
// holds mu.
func (s *Store[V]) detachTagsLocked(e *entry[V]) {
	for _, t := range e.tags {
		keys, ok := s.tagIndex[t]
		if !ok {
			continue
		}
		delete(keys, e.key)
		if len(keys) == 0 {
			delete(s.tagIndex, t)
		}
	}
}

// removeLocked deletes an entry, its tag memberships and its memory
// contribution as one step. Caller holds mu.
func (s *Store[V]) removeLocked(e *entry[V]) {
	delete(s.entries, e.key)
	s.detachTagsLocked(e)
	s.memBytes -= e.estSize
}
