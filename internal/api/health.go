package api

import (
	"time"

	"github.com/tagcache/internal/cache"
)

// HealthChecker provides health check data to the API server.
type HealthChecker interface {
	CheckHealth() *HealthStatus
}

// HealthStatus is the full health check response. Status is the process
// verdict: "ok" while every cache reports healthy, "degraded" otherwise.
// Per-cache verdicts keep their own three-level status.
type HealthStatus struct {
	Status    string                      `json:"status"`
	Time      time.Time                   `json:"time"`
	Uptime    string                      `json:"uptime"`
	UptimeSec float64                     `json:"uptime_seconds"`
	Version   VersionInfo                 `json:"version"`
	Caches    map[string]cache.HealthInfo `json:"caches"`
}

// VersionInfo contains build version details.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
}
