// Package ratelimit implements fixed-window request counting per client.
// Time is divided into discrete windows; each client gets a fresh budget
// when its window rolls over. Two requests racing a window boundary may both
// land in the new window, an accepted imprecision of the fixed-window
// algorithm.
package ratelimit

import (
	"sync"
	"time"
)

// Result is the outcome of a rate-limit check.
type Result struct {
	// Allowed indicates whether the request may proceed.
	Allowed bool
	// Limit is the maximum number of requests allowed per window.
	Limit int
	// Remaining is the number of requests left in the current window.
	Remaining int
	// RetryAfter is the time until the window resets. Zero when allowed.
	RetryAfter time.Duration
}

// windowCounter tracks one client's requests within the current window.
type windowCounter struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
}

// Limiter is a process-local fixed-window rate limiter. Counters are kept
// per key with per-entry locking; unrelated clients never contend.
type Limiter struct {
	limit  int
	window time.Duration

	counters sync.Map

	// now is swapped out in tests.
	now func() time.Time
}

// NewLimiter creates a limiter allowing limit requests per window for each
// key.
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// getWindowStart returns the start of the window containing t.
func (l *Limiter) getWindowStart(t time.Time) time.Time {
	windowNanos := l.window.Nanoseconds()
	return time.Unix(0, (t.UnixNano()/windowNanos)*windowNanos)
}

// Allow records a request for key and reports whether it is within the
// window's budget. A denied request does not advance the counter past the
// limit.
func (l *Limiter) Allow(key string) Result {
	now := l.now()
	windowStart := l.getWindowStart(now)

	value, _ := l.counters.LoadOrStore(key, &windowCounter{windowStart: windowStart})
	wc := value.(*windowCounter)

	wc.mu.Lock()
	defer wc.mu.Unlock()

	// The stored counter may belong to an elapsed window.
	if !wc.windowStart.Equal(windowStart) {
		wc.count = 0
		wc.windowStart = windowStart
	}

	allowed := wc.count < l.limit
	if allowed {
		wc.count++
	}

	remaining := l.limit - wc.count
	if remaining < 0 {
		remaining = 0
	}

	var retryAfter time.Duration
	if !allowed {
		retryAfter = windowStart.Add(l.window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
	}

	return Result{
		Allowed:    allowed,
		Limit:      l.limit,
		Remaining:  remaining,
		RetryAfter: retryAfter,
	}
}

// Reset clears the counter for key.
func (l *Limiter) Reset(key string) {
	l.counters.Delete(key)
}

// Cleanup removes counters whose window has elapsed. Counters are otherwise
// kept for the process lifetime, bounded only by the number of distinct
// clients seen.
func (l *Limiter) Cleanup() {
	windowStart := l.getWindowStart(l.now())

	l.counters.Range(func(key, value interface{}) bool {
		wc := value.(*windowCounter)
		wc.mu.Lock()
		if wc.windowStart.Before(windowStart) {
			l.counters.Delete(key)
		}
		wc.mu.Unlock()
		return true
	})
}
