package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(limit int, window time.Duration, start time.Time) (*Limiter, *time.Time) {
	now := start
	l := NewLimiter(limit, window)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllow_WithinLimit(t *testing.T) {
	l, _ := newTestLimiter(10, time.Minute, time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC))

	for i := 0; i < 10; i++ {
		result := l.Allow("1.2.3.4")
		require.True(t, result.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 10, result.Limit)
		assert.Equal(t, 10-i-1, result.Remaining)
		assert.Zero(t, result.RetryAfter)
	}
}

func TestAllow_OverLimit(t *testing.T) {
	l, _ := newTestLimiter(10, time.Minute, time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC))

	for i := 0; i < 10; i++ {
		require.True(t, l.Allow("1.2.3.4").Allowed)
	}

	for i := 0; i < 5; i++ {
		result := l.Allow("1.2.3.4")
		assert.False(t, result.Allowed, "request %d over the limit should be denied", 11+i)
		assert.Equal(t, 0, result.Remaining)
		assert.Greater(t, result.RetryAfter, time.Duration(0))
	}
}

func TestAllow_WindowRollover(t *testing.T) {
	l, now := newTestLimiter(3, time.Minute, time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC))

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow("1.2.3.4").Allowed)
	}
	require.False(t, l.Allow("1.2.3.4").Allowed)

	// Cross into the next window; the counter resets.
	*now = now.Add(time.Minute)
	result := l.Allow("1.2.3.4")
	assert.True(t, result.Allowed)
	assert.Equal(t, 2, result.Remaining)
}

func TestAllow_RetryAfterMatchesWindowEnd(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 45, 0, time.UTC)
	l, _ := newTestLimiter(1, time.Minute, start)

	require.True(t, l.Allow("1.2.3.4").Allowed)
	result := l.Allow("1.2.3.4")
	require.False(t, result.Allowed)
	// 45s into the window, 15s left until it resets.
	assert.Equal(t, 15*time.Second, result.RetryAfter)
}

func TestAllow_IndependentKeys(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute, time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC))

	require.True(t, l.Allow("1.2.3.4").Allowed)
	require.False(t, l.Allow("1.2.3.4").Allowed)

	// Another client has its own budget.
	assert.True(t, l.Allow("5.6.7.8").Allowed)
}

func TestReset(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute, time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC))

	require.True(t, l.Allow("1.2.3.4").Allowed)
	require.False(t, l.Allow("1.2.3.4").Allowed)

	l.Reset("1.2.3.4")
	assert.True(t, l.Allow("1.2.3.4").Allowed)
}

func TestCleanup(t *testing.T) {
	l, now := newTestLimiter(5, time.Minute, time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC))

	l.Allow("stale")
	*now = now.Add(2 * time.Minute)
	l.Allow("fresh")

	l.Cleanup()

	if _, ok := l.counters.Load("stale"); ok {
		t.Error("Expected stale counter to be removed")
	}
	if _, ok := l.counters.Load("fresh"); !ok {
		t.Error("Expected fresh counter to be kept")
	}
}

func TestAllow_Concurrent(t *testing.T) {
	// Real clock here: all requests land well inside a single long window.
	l := NewLimiter(100, time.Hour)

	const workers = 20
	const perWorker = 10

	var wg sync.WaitGroup
	allowed := make([]int, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			key := fmt.Sprintf("10.0.0.%d", w%4)
			for i := 0; i < perWorker; i++ {
				if l.Allow(key).Allowed {
					allowed[w]++
				}
			}
		}(w)
	}
	wg.Wait()

	total := 0
	for _, n := range allowed {
		total += n
	}
	// 4 distinct keys, 50 requests each, all within a 100-request budget.
	assert.Equal(t, workers*perWorker, total)
}
