// Package retry implements bounded retries with error classification, used
// by the upstream HTTP clients.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Action tells the loop how to treat a failed attempt.
type Action int

const (
	// Stop aborts immediately: the error is permanent.
	Stop Action = iota
	// Backoff retries with exponential backoff.
	Backoff
	// RateLimited retries with the longer rate-limit backoff.
	RateLimited
)

// Policy configures one retry loop.
type Policy struct {
	MaxAttempts      int
	InitialBackoff   time.Duration
	RateLimitBackoff time.Duration
	// Classify decides the action for an error. A nil Classify retries
	// everything with normal backoff.
	Classify func(err error) Action
}

// Do runs op until it succeeds, the policy is exhausted, or the error is
// classified as permanent.
func Do[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	var zero T
	backoff := p.InitialBackoff

	for attempt := 1; ; attempt++ {
		val, err := op()
		if err == nil {
			return val, nil
		}

		action := Backoff
		if p.Classify != nil {
			action = p.Classify(err)
		}
		if action == Stop {
			return zero, err
		}
		if attempt >= p.MaxAttempts {
			return zero, fmt.Errorf("failed after %d attempts: %w", attempt, err)
		}
		if action == RateLimited {
			backoff = p.RateLimitBackoff
		}

		slog.Debug("Retrying after error", "attempt", attempt, "backoff", backoff, "error", err)

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return zero, fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}
}
