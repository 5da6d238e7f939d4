package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(limit int, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(WithClock(clock.Now))
	l := New(Rule{Name: "test", Limit: limit, Window: window}, store, zerolog.Nop())
	l.now = clock.Now
	return l, clock
}

func TestLimiter_RejectsRequestAfterLimit(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		dec := l.Check(ctx, "10.0.0.1")
		require.True(t, dec.Allowed, "request %d should pass", i)
		assert.Equal(t, 3-i, dec.Remaining)
	}

	dec := l.Check(ctx, "10.0.0.1")
	assert.False(t, dec.Allowed)
	assert.Equal(t, 0, dec.Remaining)
	assert.Equal(t, time.Minute, dec.RetryAfter)
}

func TestLimiter_WindowResets(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)
	ctx := context.Background()

	l.Check(ctx, "k")
	l.Check(ctx, "k")
	require.False(t, l.Check(ctx, "k").Allowed)

	clock.Advance(30 * time.Second)
	dec := l.Check(ctx, "k")
	require.False(t, dec.Allowed)
	assert.Equal(t, 30*time.Second, dec.RetryAfter)

	clock.Advance(30 * time.Second)
	dec = l.Check(ctx, "k")
	assert.True(t, dec.Allowed)
	assert.Equal(t, 1, dec.Remaining)
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	assert.True(t, l.Check(ctx, "a").Allowed)
	assert.False(t, l.Check(ctx, "a").Allowed)
	assert.True(t, l.Check(ctx, "b").Allowed)
}

func TestLimiter_ConcurrentHitsAreCounted(t *testing.T) {
	const limit = 50
	l, _ := newTestLimiter(limit, time.Minute)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < limit*2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Check(ctx, "burst").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, allowed)
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, errors.New("redis down")
}

func TestLimiter_FailsOpenOnStoreError(t *testing.T) {
	l := New(Rule{Name: "auth", Limit: 1, Window: time.Minute}, failingStore{}, zerolog.Nop())

	for i := 0; i < 3; i++ {
		assert.True(t, l.Check(context.Background(), "k").Allowed)
	}
}

func TestLimiter_DisabledRule(t *testing.T) {
	l := New(Rule{Name: "off", Limit: 0, Window: time.Minute}, failingStore{}, zerolog.Nop())
	assert.True(t, l.Check(context.Background(), "k").Allowed)
}

func TestMemoryStore_CleanupRemovesElapsedWindows(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	s := NewMemoryStore(WithClock(clock.Now))
	ctx := context.Background()

	_, _, _ = s.Hit(ctx, "short", time.Second)
	_, _, _ = s.Hit(ctx, "long", time.Hour)
	require.Equal(t, 2, s.Len())

	clock.Advance(2 * time.Second)
	s.Cleanup()

	assert.Equal(t, 1, s.Len())
}
