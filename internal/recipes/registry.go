package recipes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tagcache/internal/cache"
)

// Registry tracks every named cache in the process. The engine's Store is
// generic over its value type, so the registry holds caches through the
// type-independent cache.Managed plane.
type Registry struct {
	mu     sync.RWMutex
	caches map[string]cache.Managed
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]cache.Managed)}
}

// Register adds a named cache. Names are unique; registering a duplicate is
// a wiring bug and returns an error rather than silently replacing.
func (r *Registry) Register(name string, c cache.Managed) error {
	if name == "" {
		return errors.New("recipes: cache name must not be empty")
	}
	if c == nil {
		return fmt.Errorf("recipes: cache %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.caches[name]; exists {
		return fmt.Errorf("recipes: cache %q already registered", name)
	}
	r.caches[name] = c
	return nil
}

// Get returns the named cache.
func (r *Registry) Get(name string) (cache.Managed, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.caches[name]
	return c, ok
}

// Names returns the registered cache names, sorted for stable output.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.caches))
	for name := range r.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) snapshot() map[string]cache.Managed {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]cache.Managed, len(r.caches))
	for name, c := range r.caches {
		out[name] = c
	}
	return out
}

// Metrics returns a per-cache metrics snapshot.
func (r *Registry) Metrics() map[string]cache.Metrics {
	caches := r.snapshot()
	out := make(map[string]cache.Metrics, len(caches))
	for name, c := range caches {
		out[name] = c.Metrics()
	}
	return out
}

// Health returns a per-cache health verdict.
func (r *Registry) Health() map[string]cache.HealthInfo {
	caches := r.snapshot()
	out := make(map[string]cache.HealthInfo, len(caches))
	for name, c := range caches {
		out[name] = c.Health()
	}
	return out
}

// InvalidateByTags fans the invalidation across every registered cache and
// returns the total number of entries removed. A closed cache is skipped:
// it holds nothing to invalidate.
func (r *Registry) InvalidateByTags(ctx context.Context, tags ...string) (int, error) {
	total := 0
	for name, c := range r.snapshot() {
		n, err := c.InvalidateByTags(ctx, tags...)
		if err != nil {
			if errors.Is(err, cache.ErrClosed) {
				continue
			}
			return total, fmt.Errorf("invalidate cache %q: %w", name, err)
		}
		total += n
	}
	return total, nil
}

// Clear empties every registered cache and returns the total entries
// removed.
func (r *Registry) Clear() int {
	total := 0
	for _, c := range r.snapshot() {
		total += c.Clear()
	}
	return total
}

// Shutdown stops every registered cache, collecting errors rather than
// aborting on the first one.
func (r *Registry) Shutdown() error {
	var errs []error
	for name, c := range r.snapshot() {
		if err := c.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("shutdown cache %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
