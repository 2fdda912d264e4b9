package main

import (
	"time"

	"github.com/tagcache/internal/api"
	"github.com/tagcache/internal/cache"
	"github.com/tagcache/internal/recipes"
	"github.com/tagcache/internal/version"
)

// registryHealthChecker implements api.HealthChecker over the cache
// registry. The process is "ok" while every cache reports healthy and
// "degraded" as soon as one slips to warning or critical.
type registryHealthChecker struct {
	registry  *recipes.Registry
	startTime time.Time
}

func (h *registryHealthChecker) CheckHealth() *api.HealthStatus {
	now := time.Now().UTC()
	uptime := now.Sub(h.startTime)

	status := &api.HealthStatus{
		Status:    "ok",
		Time:      now,
		Uptime:    uptime.Truncate(time.Second).String(),
		UptimeSec: uptime.Seconds(),
		Version: api.VersionInfo{
			Version:   version.Version,
			GitCommit: version.GitCommit,
			BuildTime: version.BuildTime,
		},
		Caches: h.registry.Health(),
	}

	for _, info := range status.Caches {
		if info.Status != cache.StatusHealthy {
			status.Status = "degraded"
			break
		}
	}

	return status
}
