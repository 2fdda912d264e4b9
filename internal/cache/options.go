package cache

import "time"

// Clock abstracts time for TTL decisions so tests can control expiry.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config controls a Store instance.
//
// Zero-valued DefaultTTL, MaxSize and MaxMemoryMB are replaced with the
// DefaultConfig values; pass a negative DefaultTTL to disable caching for
// calls without an explicit TTL, and a negative MaxSize for an unbounded
// store. CleanupInterval <= 0 disables the background sweep (lazy expiration
// on reads still applies). MaxMemoryMB is a soft budget surfaced through
// metrics and health, never an eviction trigger.
type Config struct {
	DefaultTTL      time.Duration
	MaxSize         int
	MaxMemoryMB     int
	CleanupInterval time.Duration
	EnableMetrics   bool
	SingleFlight    bool
	Clock           Clock
}

// DefaultConfig returns the configuration New falls back to field by field.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:      5 * time.Minute,
		MaxSize:         1000,
		MaxMemoryMB:     100,
		CleanupInterval: 10 * time.Minute,
		EnableMetrics:   true,
	}
}

// normalizeConfig fills zero fields with defaults. CleanupInterval is left
// alone: zero legitimately means "no sweep".
func normalizeConfig(cfg Config) Config {
	def := DefaultConfig()
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = def.DefaultTTL
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = def.MaxSize
	}
	if cfg.MaxMemoryMB == 0 {
		cfg.MaxMemoryMB = def.MaxMemoryMB
	}
	if cfg.Clock == nil {
		cfg.Clock = realClock{}
	}
	return cfg
}

// callOptions is the resolved form of the per-call Option list.
type callOptions struct {
	ttl     time.Duration
	ttlSet  bool
	tags    []string
	skip    bool
	refresh bool
}

// Option adjusts a single cache call.
type Option func(*callOptions)

// WithTTL overrides the store default TTL for this call. An explicit TTL
// <= 0 means "do not cache": Set becomes a successful no-op and GetOrSet
// will not write back.
func WithTTL(ttl time.Duration) Option {
	return func(o *callOptions) {
		o.ttl = ttl
		o.ttlSet = true
	}
}

// WithTags attaches invalidation tags to the entry written by this call.
func WithTags(tags ...string) Option {
	return func(o *callOptions) {
		o.tags = append(o.tags, tags...)
	}
}

// SkipCache makes GetOrSet call the fetch function directly, reading and
// writing nothing.
func SkipCache() Option {
	return func(o *callOptions) { o.skip = true }
}

// RefreshCache makes GetOrSet fetch a fresh value even when a live entry
// exists, then write it back on a best-effort basis.
func RefreshCache() Option {
	return func(o *callOptions) { o.refresh = true }
}

func applyOptions(opts []Option) callOptions {
	var o callOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// resolveTTL returns the effective TTL for a call: the explicit WithTTL
// value when one was given, the store default otherwise.
func (o callOptions) resolveTTL(def time.Duration) time.Duration {
	if o.ttlSet {
		return o.ttl
	}
	return def
}
