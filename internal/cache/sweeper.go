package cache

import (
	"log/slog"
	"time"

	"github.com/tagcache/internal/logging"
)

// sweeper owns the periodic expiration scan. stop closes the loop and waits
// for it to exit, so a reschedule can never leave two loops running.
type sweeper struct {
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// startSweeper launches the sweep loop. Caller holds mu or has exclusive
// access to the store (New).
func (s *Store[V]) startSweeper(interval time.Duration) {
	sw := &sweeper{
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	s.sweep = sw
	go s.runSweeper(sw)
}

func (s *Store[V]) runSweeper(sw *sweeper) {
	defer close(sw.doneCh)
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-sw.stopCh:
			return
		case <-ticker.C:
			if n := s.sweepExpired(); n > 0 {
				logging.Debug("cache sweep removed expired entries",
					slog.Int("keys_removed", n))
			}
		}
	}
}

func (sw *sweeper) stop() {
	close(sw.stopCh)
	<-sw.doneCh
}

// sweepExpired removes every expired entry in one pass and emits a cleanup
// event when anything was removed. It applies the same expiry predicate as
// Get, so eager and lazy expiration can never disagree about liveness.
func (s *Store[V]) sweepExpired() int {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0
	}
	now := s.clock.Now()
	var victims []*entry[V]
	for _, e := range s.entries {
		if e.expired(now) {
			victims = append(victims, e)
		}
	}
	for _, e := range victims {
		s.removeLocked(e)
	}
	s.mu.Unlock()

	if n := len(victims); n > 0 {
		s.bus.publish(Event{Type: EventCleanup, Kind: CleanupExpired, KeysRemoved: n})
		return n
	}
	return 0
}

// SetCleanupInterval reschedules the background sweep, stopping the previous
// sweeper first. An interval <= 0 stops sweeping entirely; lazy expiration
// on reads still applies.
func (s *Store[V]) SetCleanupInterval(interval time.Duration) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	old := s.sweep
	s.sweep = nil
	s.cfg.CleanupInterval = interval
	s.mu.Unlock()

	// Stopping waits for the loop, and the loop takes s.mu to sweep, so the
	// old sweeper must be stopped outside the lock.
	if old != nil {
		old.stop()
	}
	if interval <= 0 {
		return
	}

	s.mu.Lock()
	if !s.closed && s.sweep == nil {
		s.startSweeper(interval)
	}
	s.mu.Unlock()
}
