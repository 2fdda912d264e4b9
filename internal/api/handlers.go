package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tagcache/internal/cache"
	"github.com/tagcache/internal/recipes"
	"github.com/tagcache/internal/version"
)

// Server represents the ops API server. It touches caches only through the
// recipe registry's management plane, so it works for any value types the
// application registered.
type Server struct {
	registry      *recipes.Registry
	healthChecker HealthChecker
}

// New creates a new API server.
func New(registry *recipes.Registry) *Server {
	return &Server{
		registry: registry,
	}
}

// SetHealthChecker sets the health checker for the server.
func (s *Server) SetHealthChecker(hc HealthChecker) {
	s.healthChecker = hc
}

// HealthHandler handles health check requests. Degraded still answers 200:
// the process is alive, the verdict lives in the body.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if s.healthChecker != nil {
		WriteJSONSuccess(w, s.healthChecker.CheckHealth())
		return
	}
	// Fallback: registry verdicts without the process envelope.
	WriteJSONSuccess(w, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
		"caches": s.registry.Health(),
	})
}

// ListCachesHandler returns the registered cache names.
func (s *Server) ListCachesHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSONSuccess(w, map[string]any{
		"caches": s.registry.Names(),
	})
}

// StatsResponse is the /api/cache/stats payload.
type StatsResponse struct {
	Time   time.Time                `json:"time"`
	Caches map[string]cache.Metrics `json:"caches"`
}

// StatsHandler returns metrics snapshots, for every cache or for the one
// named in the cache query parameter.
func (s *Server) StatsHandler(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{Time: time.Now().UTC()}

	if name := r.URL.Query().Get("cache"); name != "" {
		c, ok := s.registry.Get(name)
		if !ok {
			WriteJSONError(w, "unknown cache: "+name, http.StatusNotFound)
			return
		}
		resp.Caches = map[string]cache.Metrics{name: c.Metrics()}
		WriteJSONSuccess(w, resp)
		return
	}

	resp.Caches = s.registry.Metrics()
	WriteJSONSuccess(w, resp)
}

// InvalidateRequest is the POST /api/cache/invalidate body.
type InvalidateRequest struct {
	Tags  []string `json:"tags"`
	Cache string   `json:"cache,omitempty"`
}

// InvalidateHandler removes entries matching any of the given tags, in one
// named cache or across every registered cache.
func (s *Server) InvalidateHandler(w http.ResponseWriter, r *http.Request) {
	var req InvalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Tags) == 0 {
		WriteJSONError(w, "tags is required", http.StatusBadRequest)
		return
	}

	var (
		removed int
		err     error
	)
	if req.Cache != "" {
		c, ok := s.registry.Get(req.Cache)
		if !ok {
			WriteJSONError(w, "unknown cache: "+req.Cache, http.StatusNotFound)
			return
		}
		removed, err = c.InvalidateByTags(r.Context(), req.Tags...)
	} else {
		removed, err = s.registry.InvalidateByTags(r.Context(), req.Tags...)
	}
	if err != nil {
		WriteJSONError(w, "invalidation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	WriteJSONSuccess(w, map[string]any{
		"removed": removed,
		"tags":    req.Tags,
	})
}

// ClearRequest is the POST /api/cache/clear body. An empty body clears
// every registered cache.
type ClearRequest struct {
	Cache string `json:"cache,omitempty"`
}

// ClearHandler empties one named cache or all of them.
func (s *Server) ClearHandler(w http.ResponseWriter, r *http.Request) {
	var req ClearRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteJSONError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	var removed int
	if req.Cache != "" {
		c, ok := s.registry.Get(req.Cache)
		if !ok {
			WriteJSONError(w, "unknown cache: "+req.Cache, http.StatusNotFound)
			return
		}
		removed = c.Clear()
	} else {
		removed = s.registry.Clear()
	}

	WriteJSONSuccess(w, map[string]any{
		"removed": removed,
	})
}

// VersionHandler returns build version details.
func (s *Server) VersionHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSONSuccess(w, VersionInfo{
		Version:   version.GetVersionInfo(),
		GitCommit: version.GitCommit,
		BuildTime: version.BuildTime,
	})
}
