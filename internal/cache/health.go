package cache

// Health verdicts, ordered from good to bad.
const (
	StatusHealthy  = "healthy"
	StatusWarning  = "warning"
	StatusCritical = "critical"
)

// healthMinRequests is the sample floor below which the verdict stays
// healthy: a cold cache's hit rate is noise, not a signal.
const healthMinRequests = 10

// Hit-rate boundaries. Healthy strictly above healthyFloor, critical at or
// below criticalCeil, warning between; exactly 70 is warning and exactly 30
// is critical.
const (
	healthyFloor = 70.0
	criticalCeil = 30.0
)

// HealthInfo is a point-in-time health verdict with the figures behind it.
type HealthInfo struct {
	Status  string        `json:"status"`
	Details HealthDetails `json:"details"`
}

// HealthDetails carries the inputs to the verdict. SlotsUsed is the raw
// occupied-entry count; Utilization normalizes it against MaxSize as a
// percentage and stays 0 for an unbounded store.
type HealthDetails struct {
	TotalKeys      int     `json:"total_keys"`
	HitRate        float64 `json:"hit_rate"`
	MemoryUsageMB  float64 `json:"memory_usage_mb"`
	MemoryBudgetMB int     `json:"memory_budget_mb,omitempty"`
	SlotsUsed      int     `json:"slots_used"`
	MaxSize        int     `json:"max_size,omitempty"`
	Utilization    float64 `json:"utilization"`
}

// Health reduces current metrics to a verdict. The hit rate drives the
// status only once healthMinRequests reads have been observed.
func (s *Store[V]) Health() HealthInfo {
	m := s.Metrics()

	status := StatusHealthy
	if m.HitCount+m.MissCount >= healthMinRequests {
		switch {
		case m.HitRate > healthyFloor:
			status = StatusHealthy
		case m.HitRate > criticalCeil:
			status = StatusWarning
		default:
			status = StatusCritical
		}
	}

	details := HealthDetails{
		TotalKeys:      m.TotalKeys,
		HitRate:        m.HitRate,
		MemoryUsageMB:  float64(m.TotalMemoryUsage) / (1 << 20),
		MemoryBudgetMB: s.cfg.MaxMemoryMB,
		SlotsUsed:      m.TotalKeys,
		MaxSize:        s.cfg.MaxSize,
	}
	if s.cfg.MaxSize > 0 {
		details.Utilization = float64(m.TotalKeys) / float64(s.cfg.MaxSize) * 100
	}
	return HealthInfo{Status: status, Details: details}
}
