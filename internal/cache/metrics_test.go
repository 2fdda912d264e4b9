package cache

import "time"

func (s *StoreSuite) TestMetricsCounters() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	c.Set(s.ctx, "a", "1")
	c.Set(s.ctx, "b", "2")
	c.Get(s.ctx, "a")
	c.Get(s.ctx, "a")
	c.Get(s.ctx, "missing")

	m := c.Metrics()
	s.Equal(int64(2), m.HitCount)
	s.Equal(int64(1), m.MissCount)
	s.Equal(int64(2), m.SetCount)
	s.Equal(int64(0), m.EvictionCount)
}

func (s *StoreSuite) TestMetricsHitRate() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	c.Set(s.ctx, "a", "1")
	c.Get(s.ctx, "a")
	c.Get(s.ctx, "a")
	c.Get(s.ctx, "a")
	c.Get(s.ctx, "missing")

	m := c.Metrics()
	s.InDelta(75.0, m.HitRate, 0.001)
}

func (s *StoreSuite) TestMetricsHitRateNoTraffic() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	s.Zero(c.Metrics().HitRate)
}

func (s *StoreSuite) TestMetricsExpiredReadIsMiss() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	c.Set(s.ctx, "a", "1")
	s.clk.Advance(2 * time.Minute)
	c.Get(s.ctx, "a")

	m := c.Metrics()
	s.Equal(int64(0), m.HitCount)
	s.Equal(int64(1), m.MissCount)
}

func (s *StoreSuite) TestMetricsKeyAndMemoryLifecycle() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	m := c.Metrics()
	s.Equal(0, m.TotalKeys)
	s.Equal(int64(0), m.TotalMemoryUsage)

	c.Set(s.ctx, "a", "payload")
	m = c.Metrics()
	s.Equal(1, m.TotalKeys)
	s.Positive(m.TotalMemoryUsage)

	c.Delete(s.ctx, "a")
	m = c.Metrics()
	s.Equal(0, m.TotalKeys)
	s.Equal(int64(0), m.TotalMemoryUsage)
}

func (s *StoreSuite) TestMetricsReplaceAdjustsMemory() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	c.Set(s.ctx, "a", "x")
	small := c.Metrics().TotalMemoryUsage

	c.Set(s.ctx, "a", "a much longer payload than before")
	grown := c.Metrics().TotalMemoryUsage
	s.Greater(grown, small)
	s.Equal(1, c.Metrics().TotalKeys)

	c.Set(s.ctx, "a", "x")
	s.Equal(small, c.Metrics().TotalMemoryUsage,
		"replacing with the original value restores the original accounting")
}

func (s *StoreSuite) TestMetricsMostAccessedKey() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	c.Set(s.ctx, "quiet", "1")
	c.Set(s.ctx, "busy", "2")
	c.Get(s.ctx, "busy")
	c.Get(s.ctx, "busy")
	c.Get(s.ctx, "quiet")

	s.Equal("busy", c.Metrics().MostAccessedKey)
}

func (s *StoreSuite) TestMetricsMostAccessedTieBreak() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	c.Set(s.ctx, "first", "1")
	c.Set(s.ctx, "second", "2")
	c.Get(s.ctx, "first")
	c.Get(s.ctx, "second")

	s.Equal("first", c.Metrics().MostAccessedKey,
		"ties go to the earlier insertion")
}

func (s *StoreSuite) TestMetricsMostAccessedEmptyStore() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	s.Empty(c.Metrics().MostAccessedKey)
}

func (s *StoreSuite) TestMetricsResponseTimeSampling() {
	c := s.newStore(Config{DefaultTTL: time.Minute, EnableMetrics: true})

	c.Set(s.ctx, "a", "1")
	for range 5 {
		c.Get(s.ctx, "a")
	}

	s.GreaterOrEqual(c.Metrics().AverageResponseTime, 0.0)
}

func (s *StoreSuite) TestMetricsSamplingDisabled() {
	c := s.newStore(Config{DefaultTTL: time.Minute, EnableMetrics: false})

	c.Set(s.ctx, "a", "1")
	c.Get(s.ctx, "a")
	c.Get(s.ctx, "a")

	m := c.Metrics()
	s.Equal(int64(2), m.HitCount, "counters run regardless of sampling")
	s.Zero(m.AverageResponseTime)
}

func (s *StoreSuite) TestMetricsSkippedWriteNotCounted() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	c.Set(s.ctx, "a", "1", WithTTL(0))

	s.Equal(int64(0), c.Metrics().SetCount)
}
