package recipes

import "context"

// Per-domain invalidation helpers. Each mirrors the tag conventions the
// write paths use, so callers invalidate by meaning rather than by spelling
// tag strings at every call site.

// InvalidateUser removes every entry tied to one user record: the record
// itself plus anything tagged with its identity, such as sessions or search
// results that embed it.
func (r *Registry) InvalidateUser(ctx context.Context, id string) (int, error) {
	return r.InvalidateByTags(ctx, EntityTag("user", id))
}

// InvalidateUsers removes every user-kind entry across all caches.
func (r *Registry) InvalidateUsers(ctx context.Context) (int, error) {
	return r.InvalidateByTags(ctx, TagUsers)
}

// InvalidateSession removes the entries for one session.
func (r *Registry) InvalidateSession(ctx context.Context, id string) (int, error) {
	return r.InvalidateByTags(ctx, EntityTag("session", id))
}

// InvalidateSearches drops all cached search results, the usual follow-up
// to any write that could change a result set.
func (r *Registry) InvalidateSearches(ctx context.Context) (int, error) {
	return r.InvalidateByTags(ctx, TagSearch)
}

// InvalidateStats drops cached statistics so the next read recomputes them.
func (r *Registry) InvalidateStats(ctx context.Context) (int, error) {
	return r.InvalidateByTags(ctx, TagStats)
}
