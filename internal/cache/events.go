package cache

import (
	"sync"
	"time"
)

// EventType names a lifecycle event channel.
type EventType string

const (
	EventHit      EventType = "hit"
	EventMiss     EventType = "miss"
	EventSet      EventType = "set"
	EventEviction EventType = "eviction"
	EventCleanup  EventType = "cleanup"
)

// MissReason distinguishes the two ways a read can miss.
type MissReason string

const (
	MissNotFound MissReason = "not-found"
	MissExpired  MissReason = "expired"
)

// CleanupKind labels what triggered a cleanup event.
type CleanupKind string

const (
	CleanupManual  CleanupKind = "manual"
	CleanupExpired CleanupKind = "expired"
	CleanupWarming CleanupKind = "cache-warming"
)

// Event is the payload delivered to subscribers. Fields beyond Type are
// populated per event type: Key for hit, miss and set; Reason for miss; TTL
// for set; KeysRemoved for eviction and cleanup; KeysAdded and Kind for
// cleanup.
type Event struct {
	Type        EventType
	Key         string
	Reason      MissReason
	TTL         time.Duration
	KeysRemoved int
	KeysAdded   int
	Kind        CleanupKind
}

// Handler receives events synchronously on the goroutine that produced them.
// Events fire after the store mutex is released, so handlers may call back
// into the store; they should still return quickly.
type Handler func(Event)

// Subscription identifies one registered handler.
type Subscription struct {
	bus *eventBus
	typ EventType
	id  int
}

// Cancel removes the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.remove(s.typ, s.id)
}

// eventBus fans events out to per-type subscriber sets. Publishing snapshots
// the handler list first, so handlers may subscribe or cancel from inside a
// callback without deadlocking.
type eventBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[EventType]map[int]Handler
	closed bool
}

func newEventBus() *eventBus {
	return &eventBus{subs: make(map[EventType]map[int]Handler)}
}

func (b *eventBus) subscribe(t EventType, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || h == nil {
		return &Subscription{}
	}
	b.nextID++
	id := b.nextID
	if b.subs[t] == nil {
		b.subs[t] = make(map[int]Handler)
	}
	b.subs[t][id] = h
	return &Subscription{bus: b, typ: t, id: id}
}

func (b *eventBus) remove(t EventType, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if hs, ok := b.subs[t]; ok {
		delete(hs, id)
	}
}

func (b *eventBus) publish(e Event) {
	b.mu.RLock()
	if b.closed || len(b.subs[e.Type]) == 0 {
		b.mu.RUnlock()
		return
	}
	snapshot := make([]Handler, 0, len(b.subs[e.Type]))
	for _, h := range b.subs[e.Type] {
		snapshot = append(snapshot, h)
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(e)
	}
}

// close drops every subscriber; later publishes go nowhere. Shutdown relies
// on this to guarantee no events reach old listeners.
func (b *eventBus) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = make(map[EventType]map[int]Handler)
}
