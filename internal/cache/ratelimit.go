package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/AshZadePM/localreco/internal/metrics"
)

// RateLimiter is a sliding-window admission controller. Each caller identity
// gets an independent window of request timestamps; once the window holds the
// configured ceiling, further requests are refused until old timestamps age
// out. Windows are pruned lazily on each admission check.
type RateLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	ceiling  int
	clock    clockwork.Clock
	requests map[string][]time.Time
}

func NewRateLimiter(window time.Duration, ceiling int, clock clockwork.Clock) *RateLimiter {
	return &RateLimiter{
		window:   window,
		ceiling:  ceiling,
		clock:    clock,
		requests: make(map[string][]time.Time),
	}
}

// Allow reports whether a request by identity is admitted, recording its
// timestamp when it is. Distinct identities never interfere.
func (l *RateLimiter) Allow(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	cutoff := now.Add(-l.window)

	kept := l.requests[identity][:0]
	for _, ts := range l.requests[identity] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.ceiling {
		l.requests[identity] = kept
		metrics.RateLimitRefusals.Inc()
		return false
	}

	l.requests[identity] = append(kept, now)
	return true
}

// WithRateLimit invokes fn under identity's admission window. When the window
// is full it returns the zero value and admitted=false without invoking fn;
// refusal is a defined outcome, distinct from fn failing.
func WithRateLimit[T any](l *RateLimiter, identity string, fn func() (T, error)) (value T, admitted bool, err error) {
	if !l.Allow(identity) {
		return value, false, nil
	}

	value, err = fn()
	return value, true, err
}
