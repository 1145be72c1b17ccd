package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*Cache[[]string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	return New[[]string](ttl, WithClock[[]string](clock.Now)), clock
}

func TestCache_SetThenGetWithinTTL(t *testing.T) {
	c, clock := newTestCache(15 * time.Minute)

	c.Set("team", []string{"a", "b"})
	clock.Advance(15 * time.Minute) // age == TTL is still fresh

	got, ok := c.Get("team")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestCache_GetAfterTTLIsMiss(t *testing.T) {
	c, clock := newTestCache(15 * time.Minute)

	c.Set("team", []string{"a"})
	clock.Advance(15*time.Minute + time.Millisecond)

	got, ok := c.Get("team")
	assert.False(t, ok)
	assert.Nil(t, got, "stale records must not be returned")
	assert.Equal(t, 0, c.Len())
}

func TestCache_SetReplacesAndRefreshes(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set("team", []string{"old"})
	clock.Advance(50 * time.Second)
	c.Set("team", []string{"new"})
	clock.Advance(50 * time.Second)

	got, ok := c.Get("team")
	assert.True(t, ok)
	assert.Equal(t, []string{"new"}, got)
}

func TestCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("a", []string{"1"})
	c.Set("b", []string{"2"})
	c.Invalidate("a")
	c.Invalidate("missing") // no-op

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	assert.False(t, okA)
	assert.True(t, okB)

	c.InvalidateAll()
	_, okB = c.Get("b")
	assert.False(t, okB)
	assert.Equal(t, 0, c.Len())
}

func TestNew_NonPositiveTTLUsesDefault(t *testing.T) {
	c := New[int](0)
	assert.Equal(t, DefaultTTL, c.TTL())
}

func TestCache_GetOrLoad(t *testing.T) {
	t.Run("LoadsOnceAndCaches", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		var calls int32

		load := func(ctx context.Context) ([]string, error) {
			atomic.AddInt32(&calls, 1)
			return []string{"x"}, nil
		}

		v, hit, err := c.GetOrLoad(context.Background(), "k", load)
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Equal(t, []string{"x"}, v)

		v, hit, err = c.GetOrLoad(context.Background(), "k", load)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, []string{"x"}, v)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("ErrorsAreNotCached", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)

		_, _, err := c.GetOrLoad(context.Background(), "k", func(ctx context.Context) ([]string, error) {
			return nil, errors.New("upstream down")
		})
		assert.EqualError(t, err, "upstream down")

		_, ok := c.Get("k")
		assert.False(t, ok)
	})

	t.Run("ConcurrentMissesShareOneLoad", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		var calls int32
		release := make(chan struct{})

		load := func(ctx context.Context) ([]string, error) {
			atomic.AddInt32(&calls, 1)
			<-release
			return []string{"shared"}, nil
		}

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, _, err := c.GetOrLoad(context.Background(), "k", load)
				assert.NoError(t, err)
				assert.Equal(t, []string{"shared"}, v)
			}()
		}

		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

func TestCache_GetOrLoadCallerCancellation(t *testing.T) {
	t.Run("CanceledCallerDoesNotFailOthers", func(t *testing.T) {
		c, _ := newTestCache(time.Minute)
		var calls int32
		started := make(chan struct{})
		release := make(chan struct{})
		loadErr := make(chan error, 1)

		load := func(ctx context.Context) ([]string, error) {
			atomic.AddInt32(&calls, 1)
			close(started)
			<-release
			loadErr <- ctx.Err()
			return []string{"shared"}, nil
		}

		ctxA, cancelA := context.WithCancel(context.Background())
		errA := make(chan error, 1)
		go func() {
			_, _, err := c.GetOrLoad(ctxA, "k", load)
			errA <- err
		}()
		<-started

		type result struct {
			v   []string
			err error
		}
		resB := make(chan result, 1)
		go func() {
			v, _, err := c.GetOrLoad(context.Background(), "k", load)
			resB <- result{v, err}
		}()

		cancelA()
		assert.ErrorIs(t, <-errA, context.Canceled)

		close(release)
		b := <-resB
		require.NoError(t, b.err)
		assert.Equal(t, []string{"shared"}, b.v)
		assert.NoError(t, <-loadErr)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

		v, ok := c.Get("k")
		assert.True(t, ok)
		assert.Equal(t, []string{"shared"}, v)
	})

	t.Run("LoadTimeoutBoundsDetachedLoad", func(t *testing.T) {
		c := New[[]string](time.Minute, WithLoadTimeout[[]string](20*time.Millisecond))

		_, _, err := c.GetOrLoad(context.Background(), "k", func(ctx context.Context) ([]string, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestConfig_LoadTimeout(t *testing.T) {
	assert.Equal(t, DefaultLoadTimeout, Config{}.LoadTimeout())
	assert.Equal(t, 30*time.Second, Config{LoadTimeoutSeconds: 30}.LoadTimeout())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "k"
			if i%2 == 0 {
				key = "j"
			}
			c.Set(key, i)
			c.Get(key)
			if i%10 == 0 {
				c.Invalidate(key)
			}
			_ = c.Len()
		}(i)
	}
	wg.Wait()
}
