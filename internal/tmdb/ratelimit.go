package tmdb

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a sliding-window request budget: at most limit
// requests inside any window-sized interval. When the window is full a
// caller blocks until the oldest request ages out; callers that would
// have to wait longer than maxWait fail with ErrRateLimited instead.
//
// The clock and sleep functions are injectable so the policy can be
// tested without real time passing. Safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	maxWait time.Duration
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error
	stamps  []time.Time
}

// NewLimiter creates a limiter for limit requests per window, blocking
// at most maxWait before giving up.
func NewLimiter(limit int, window, maxWait time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		maxWait: maxWait,
		now:     time.Now,
		sleep:   sleepContext,
	}
}

// Acquire reserves one request slot, blocking until a slot frees or the
// bounded wait is exhausted. Returns ErrRateLimited when the wait would
// exceed maxWait and the context error if ctx is cancelled while
// waiting.
func (l *Limiter) Acquire(ctx context.Context) error {
	waited := time.Duration(0)
	for {
		l.mu.Lock()
		now := l.now()
		l.prune(now)

		if len(l.stamps) < l.limit {
			l.stamps = append(l.stamps, now)
			l.mu.Unlock()
			return nil
		}

		wait := l.stamps[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		if wait <= 0 {
			continue
		}
		if waited+wait > l.maxWait {
			return ErrRateLimited
		}
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
		waited += wait
	}
}

// prune drops timestamps that have aged out of the window. Caller holds mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.stamps) && !l.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[i:]...)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
