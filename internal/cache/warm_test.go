package cache

import (
	"context"
	"errors"
	"time"
)

func warmFixed(v string) FetchFunc[string] {
	return func(context.Context) (string, error) { return v, nil }
}

func (s *StoreSuite) TestWarm() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	n, err := c.Warm(s.ctx, []WarmEntry[string]{
		{Key: "a", Fetch: warmFixed("1")},
		{Key: "b", Fetch: warmFixed("2")},
		{Key: "c", Fetch: warmFixed("3")},
	})
	s.Require().NoError(err)
	s.Equal(3, n)
	s.Equal(3, c.Len())

	v, ok, _ := c.Get(s.ctx, "b")
	s.True(ok)
	s.Equal("2", v)
}

func (s *StoreSuite) TestWarmSkipsFailedFetch() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	n, err := c.Warm(s.ctx, []WarmEntry[string]{
		{Key: "a", Fetch: warmFixed("1")},
		{Key: "bad", Fetch: func(context.Context) (string, error) {
			return "", errors.New("backend down")
		}},
		{Key: "c", Fetch: warmFixed("3")},
	})
	s.Require().NoError(err)
	s.Equal(2, n, "a failing entry does not stop the rest")

	_, ok, _ := c.Get(s.ctx, "bad")
	s.False(ok)
	_, ok, _ = c.Get(s.ctx, "c")
	s.True(ok)
}

func (s *StoreSuite) TestWarmSkipsNilFetch() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	n, err := c.Warm(s.ctx, []WarmEntry[string]{
		{Key: "a"},
		{Key: "b", Fetch: warmFixed("2")},
	})
	s.Require().NoError(err)
	s.Equal(1, n)
	s.Equal(1, c.Len())
}

func (s *StoreSuite) TestWarmZeroTTLNotCounted() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	var fetched bool
	n, err := c.Warm(s.ctx, []WarmEntry[string]{
		{Key: "a", Fetch: func(context.Context) (string, error) {
			fetched = true
			return "1", nil
		}, Options: []Option{WithTTL(0)}},
		{Key: "b", Fetch: warmFixed("2")},
	})
	s.Require().NoError(err)
	s.True(fetched)
	s.Equal(1, n, "a fetch that stored nothing is not an addition")
	s.Equal(1, c.Len())
}

func (s *StoreSuite) TestWarmHonorsOptions() {
	c := s.newStore(Config{DefaultTTL: time.Hour})

	_, err := c.Warm(s.ctx, []WarmEntry[string]{
		{Key: "a", Fetch: warmFixed("1"), Options: []Option{WithTTL(10 * time.Second), WithTags("users")}},
	})
	s.Require().NoError(err)

	n, err := c.InvalidateByTags(s.ctx, "users")
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *StoreSuite) TestWarmEmitsEvent() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	var got []Event
	c.Subscribe(EventCleanup, func(e Event) { got = append(got, e) })

	c.Warm(s.ctx, []WarmEntry[string]{
		{Key: "a", Fetch: warmFixed("1")},
		{Key: "b", Fetch: warmFixed("2")},
	})

	s.Require().Len(got, 1)
	s.Equal(CleanupWarming, got[0].Kind)
	s.Equal(2, got[0].KeysAdded)
	s.Equal(0, got[0].KeysRemoved)
}

func (s *StoreSuite) TestWarmEmptyBatchStillAnnounces() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	var got []Event
	c.Subscribe(EventCleanup, func(e Event) { got = append(got, e) })

	n, err := c.Warm(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(0, n)

	s.Require().Len(got, 1)
	s.Equal(0, got[0].KeysAdded)
}

func (s *StoreSuite) TestWarmSequentialOrder() {
	c := s.newStore(Config{DefaultTTL: time.Minute})

	var order []string
	mk := func(key string) FetchFunc[string] {
		return func(context.Context) (string, error) {
			order = append(order, key)
			return key, nil
		}
	}

	c.Warm(s.ctx, []WarmEntry[string]{
		{Key: "a", Fetch: mk("a")},
		{Key: "b", Fetch: mk("b")},
		{Key: "c", Fetch: mk("c")},
	})

	s.Equal([]string{"a", "b", "c"}, order, "entries load in the order given")
}

func (s *StoreSuite) TestWarmAfterShutdown() {
	c := s.newStore(Config{DefaultTTL: time.Minute})
	s.Require().NoError(c.Shutdown())

	n, err := c.Warm(s.ctx, []WarmEntry[string]{
		{Key: "a", Fetch: warmFixed("1")},
	})
	s.Require().ErrorIs(err, ErrClosed)
	s.Equal(0, n)
}
