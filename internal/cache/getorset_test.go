package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

func fetchCounter(v string, calls *atomic.Int64) FetchFunc[string] {
	return func(context.Context) (string, error) {
		calls.Add(1)
		return v, nil
	}
}

func (s *StoreSuite) TestGetOrSetFetchesOnMiss() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	var calls atomic.Int64
	v, err := c.GetOrSet(s.ctx, "a", fetchCounter("fetched", &calls))
	s.Require().NoError(err)
	s.Equal("fetched", v)
	s.Equal(int64(1), calls.Load())

	// A second call with a different fetcher is served from the store.
	v, err = c.GetOrSet(s.ctx, "a", fetchCounter("replacement", &calls))
	s.Require().NoError(err)
	s.Equal("fetched", v, "cached value wins; the new fetcher never runs")
	s.Equal(int64(1), calls.Load())
}

func (s *StoreSuite) TestGetOrSetFetchError() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	boom := errors.New("backend down")
	_, err := c.GetOrSet(s.ctx, "a", func(context.Context) (string, error) {
		return "", boom
	})
	s.Require().ErrorIs(err, boom)

	s.Equal(0, c.Len(), "failed fetches are not cached")

	// The next caller retries instead of seeing a cached failure.
	var calls atomic.Int64
	v, err := c.GetOrSet(s.ctx, "a", fetchCounter("recovered", &calls))
	s.Require().NoError(err)
	s.Equal("recovered", v)
	s.Equal(int64(1), calls.Load())
}

func (s *StoreSuite) TestGetOrSetSkipCache() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	c.Set(s.ctx, "a", "cached")

	var calls atomic.Int64
	v, err := c.GetOrSet(s.ctx, "a", fetchCounter("fresh", &calls), SkipCache())
	s.Require().NoError(err)
	s.Equal("fresh", v, "skip ignores the cached value")
	s.Equal(int64(1), calls.Load())

	// And nothing was written back.
	got, ok, _ := c.Get(s.ctx, "a")
	s.True(ok)
	s.Equal("cached", got)
}

func (s *StoreSuite) TestGetOrSetRefreshCache() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	c.Set(s.ctx, "a", "stale")

	v, err := c.GetOrSet(s.ctx, "a", func(context.Context) (string, error) {
		return "fresh", nil
	}, RefreshCache())
	s.Require().NoError(err)
	s.Equal("fresh", v)

	got, ok, _ := c.Get(s.ctx, "a")
	s.True(ok)
	s.Equal("fresh", got, "refresh replaces the live entry")
}

func (s *StoreSuite) TestGetOrSetRefreshFetchError() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	c.Set(s.ctx, "a", "cached")

	boom := errors.New("backend down")
	_, err := c.GetOrSet(s.ctx, "a", func(context.Context) (string, error) {
		return "", boom
	}, RefreshCache())
	s.Require().ErrorIs(err, boom)

	got, ok, _ := c.Get(s.ctx, "a")
	s.True(ok)
	s.Equal("cached", got, "a failed refresh leaves the old entry alone")
}

func (s *StoreSuite) TestGetOrSetAppliesOptions() {
	c := s.newStore(Config{DefaultTTL: time.Hour})

	_, err := c.GetOrSet(s.ctx, "a", func(context.Context) (string, error) {
		return "v", nil
	}, WithTTL(10*time.Second), WithTags("users"))
	s.Require().NoError(err)

	n, err := c.InvalidateByTags(s.ctx, "users")
	s.Require().NoError(err)
	s.Equal(1, n, "tags reach the stored entry")

	_, err = c.GetOrSet(s.ctx, "b", func(context.Context) (string, error) {
		return "v", nil
	}, WithTTL(10*time.Second))
	s.Require().NoError(err)
	s.clk.Advance(11 * time.Second)
	_, ok, _ := c.Get(s.ctx, "b")
	s.False(ok, "per-call TTL reaches the stored entry")
}

func (s *StoreSuite) TestGetOrSetZeroTTLServesWithoutStoring() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	v, err := c.GetOrSet(s.ctx, "a", func(context.Context) (string, error) {
		return "passthrough", nil
	}, WithTTL(0))
	s.Require().NoError(err)
	s.Equal("passthrough", v)
	s.Equal(0, c.Len())
}

func (s *StoreSuite) TestGetOrSetAfterShutdown() {
	c := s.newStore(Config{DefaultTTL: time.Minute})
	s.Require().NoError(c.Shutdown())

	_, err := c.GetOrSet(s.ctx, "a", func(context.Context) (string, error) {
		return "v", nil
	})
	s.Require().ErrorIs(err, ErrClosed)

	// Skip never touches the store, so it still works.
	v, err := c.GetOrSet(s.ctx, "a", func(context.Context) (string, error) {
		return "direct", nil
	}, SkipCache())
	s.Require().NoError(err)
	s.Equal("direct", v)
}

func (s *StoreSuite) TestGetOrSetSingleFlight() {
	c := New[string](Config{DefaultTTL: time.Minute, SingleFlight: true})

	var calls atomic.Int64
	var once sync.Once
	started := make(chan struct{})
	proceed := make(chan struct{})

	fetch := func(context.Context) (string, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-proceed
		return "shared", nil
	}

	const workers = 10
	results := make([]string, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			v, err := c.GetOrSet(s.ctx, "hot", fetch)
			s.NoError(err)
			results[n] = v
		}(i)
	}

	// Let the first fetch start and the rest queue up behind it.
	<-started
	time.Sleep(20 * time.Millisecond)
	close(proceed)
	wg.Wait()

	s.Equal(int64(1), calls.Load(), "concurrent misses share one fetch")
	for _, v := range results {
		s.Equal("shared", v)
	}
}

func (s *StoreSuite) TestGetOrSetWithoutSingleFlight() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	var calls atomic.Int64
	v, err := c.GetOrSet(s.ctx, "a", fetchCounter("v", &calls))
	s.Require().NoError(err)
	s.Equal("v", v)
	s.Equal(int64(1), calls.Load())
}
