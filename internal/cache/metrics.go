package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// responseWindow bounds the rolling average of Get latencies.
const responseWindow = 100

// Metrics is a point-in-time snapshot of store counters and gauges.
type Metrics struct {
	HitCount            int64   `json:"hit_count"`
	MissCount           int64   `json:"miss_count"`
	SetCount            int64   `json:"set_count"`
	EvictionCount       int64   `json:"eviction_count"`
	HitRate             float64 `json:"hit_rate"`
	TotalKeys           int     `json:"total_keys"`
	TotalMemoryUsage    int64   `json:"total_memory_usage"`
	AverageResponseTime float64 `json:"average_response_time_ms"`
	MostAccessedKey     string  `json:"most_accessed_key"`
}

// collector owns the running counters behind Metrics. Counters are atomics
// so the hot paths never serialize on them; the response-time window has its
// own small mutex and is touched only when sampling is enabled.
type collector struct {
	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64

	sampling bool

	respMu    sync.Mutex
	respSum   float64
	resp      [responseWindow]float64
	respNext  int
	respCount int
}

func newCollector(sampling bool) *collector {
	return &collector{sampling: sampling}
}

func (c *collector) hit()          { c.hits.Add(1) }
func (c *collector) miss()         { c.misses.Add(1) }
func (c *collector) set()          { c.sets.Add(1) }
func (c *collector) evicted(n int) { c.evictions.Add(int64(n)) }

// observeGet records one Get duration. Every Get contributes exactly one
// sample, hit or miss, while sampling is enabled.
func (c *collector) observeGet(d time.Duration) {
	if !c.sampling {
		return
	}
	ms := float64(d) / float64(time.Millisecond)
	c.respMu.Lock()
	if c.respCount < responseWindow {
		c.respCount++
	} else {
		c.respSum -= c.resp[c.respNext]
	}
	c.resp[c.respNext] = ms
	c.respSum += ms
	c.respNext = (c.respNext + 1) % responseWindow
	c.respMu.Unlock()
}

func (c *collector) averageResponseMs() float64 {
	c.respMu.Lock()
	defer c.respMu.Unlock()
	if c.respCount == 0 {
		return 0
	}
	return c.respSum / float64(c.respCount)
}

// hitRate returns hits/(hits+misses) as a percentage, 0 before any traffic.
func (c *collector) hitRate() float64 {
	hits := c.hits.Load()
	total := hits + c.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Metrics assembles a snapshot of the counters plus the store-derived
// gauges. Counters and gauges are read at slightly different instants; the
// snapshot is monitoring data, not a transaction.
func (s *Store[V]) Metrics() Metrics {
	s.mu.RLock()
	totalKeys := len(s.entries)
	memBytes := s.memBytes
	mostKey := s.mostAccessedLocked()
	s.mu.RUnlock()

	return Metrics{
		HitCount:            s.metrics.hits.Load(),
		MissCount:           s.metrics.misses.Load(),
		SetCount:            s.metrics.sets.Load(),
		EvictionCount:       s.metrics.evictions.Load(),
		HitRate:             s.metrics.hitRate(),
		TotalKeys:           totalKeys,
		TotalMemoryUsage:    memBytes,
		AverageResponseTime: s.metrics.averageResponseMs(),
		MostAccessedKey:     mostKey,
	}
}

// mostAccessedLocked scans for the highest access count, ties going to the
// earliest-inserted entry. Caller holds mu.
func (s *Store[V]) mostAccessedLocked() string {
	var (
		bestKey   string
		bestCount int64 = -1
		bestSeq   uint64
	)
	for k, e := range s.entries {
		if e.accessCount > bestCount || (e.accessCount == bestCount && e.seq < bestSeq) {
			bestKey, bestCount, bestSeq = k, e.accessCount, e.seq
		}
	}
	return bestKey
}
