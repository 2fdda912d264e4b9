package cache

import (
	"context"
	"time"
)

// Managed is the value-type-independent management plane of a Store. The
// recipe registry and the ops API hold heterogeneous caches through it:
// everything here works without knowing V.
type Managed interface {
	// Bulk removal.
	InvalidateByTags(ctx context.Context, tags ...string) (int, error)
	Clear() int

	// Introspection.
	Len() int
	Metrics() Metrics
	Health() HealthInfo

	// Events.
	Subscribe(t EventType, h Handler) *Subscription

	// Lifecycle.
	SetCleanupInterval(d time.Duration)
	Shutdown() error
}

var _ Managed = (*Store[any])(nil)
