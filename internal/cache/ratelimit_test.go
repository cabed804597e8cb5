package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_CeilingWithinWindow(t *testing.T) {
	limiter := NewRateLimiter(time.Minute, 30, clockwork.NewFakeClock())

	for i := 1; i <= 30; i++ {
		assert.True(t, limiter.Allow("alice"), "call %d should be admitted", i)
	}
	assert.False(t, limiter.Allow("alice"), "call 31 should be refused")
}

func TestRateLimiter_DistinctIdentitiesIndependent(t *testing.T) {
	limiter := NewRateLimiter(time.Minute, 30, clockwork.NewFakeClock())

	for i := 0; i < 31; i++ {
		limiter.Allow("alice")
	}

	assert.True(t, limiter.Allow("bob"), "bob is unaffected by alice's window")
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewRateLimiter(time.Minute, 3, clock)

	require.True(t, limiter.Allow("alice"))
	require.True(t, limiter.Allow("alice"))
	require.True(t, limiter.Allow("alice"))
	require.False(t, limiter.Allow("alice"))

	// Once the first timestamps age out of the trailing window, new
	// requests are admitted again.
	clock.Advance(61 * time.Second)
	assert.True(t, limiter.Allow("alice"))
}

func TestWithRateLimit_RefusedWithoutInvoking(t *testing.T) {
	limiter := NewRateLimiter(time.Minute, 1, clockwork.NewFakeClock())

	calls := 0
	fn := func() (string, error) {
		calls++
		return fmt.Sprintf("result-%d", calls), nil
	}

	v, admitted, err := WithRateLimit(limiter, "alice", fn)
	require.NoError(t, err)
	assert.True(t, admitted)
	assert.Equal(t, "result-1", v)

	v, admitted, err = WithRateLimit(limiter, "alice", fn)
	require.NoError(t, err)
	assert.False(t, admitted, "refusal is a defined outcome, not an error")
	assert.Empty(t, v)
	assert.Equal(t, 1, calls, "refused call must not invoke fn")
}
