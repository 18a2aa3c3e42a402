// Copyright (c) 2026 Libris. All rights reserved.

package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mavlib/libris/internal/users/auth"
)

type limiterClock struct {
	current time.Time
}

func (clock *limiterClock) Now() time.Time {
	return clock.current
}

func (clock *limiterClock) Advance(d time.Duration) {
	clock.current = clock.current.Add(d)
}

func newLimiterClock() *limiterClock {
	return &limiterClock{current: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

/*
TestLoginLimiter_Burst verifies the burst allowance: the first attempts up
to the burst size pass, the next one is denied, and a refill interval later
one more attempt passes again.
*/
func TestLoginLimiter_Burst(t *testing.T) {
	clock := newLimiterClock()
	limiter := auth.NewLoginLimiter(clock.Now)

	for i := 0; i < auth.LoginAttemptBurst; i++ {
		assert.True(t, limiter.Allow("reader@libris.app"), "attempt %d within burst", i+1)
	}
	assert.False(t, limiter.Allow("reader@libris.app"))

	// 5 attempts per 60 seconds refills one token every 12 seconds.
	clock.Advance(13 * time.Second)
	assert.True(t, limiter.Allow("reader@libris.app"))
	assert.False(t, limiter.Allow("reader@libris.app"))
}

func TestLoginLimiter_PerEmailIsolation(t *testing.T) {
	clock := newLimiterClock()
	limiter := auth.NewLoginLimiter(clock.Now)

	for i := 0; i < auth.LoginAttemptBurst; i++ {
		limiter.Allow("locked@libris.app")
	}
	assert.False(t, limiter.Allow("locked@libris.app"))

	// A different email has its own bucket.
	assert.True(t, limiter.Allow("fresh@libris.app"))
}

/*
TestLoginLimiter_Reset verifies a reset restores the full burst, matching
the successful-login path.
*/
func TestLoginLimiter_Reset(t *testing.T) {
	clock := newLimiterClock()
	limiter := auth.NewLoginLimiter(clock.Now)

	for i := 0; i < auth.LoginAttemptBurst; i++ {
		limiter.Allow("reader@libris.app")
	}
	assert.False(t, limiter.Allow("reader@libris.app"))

	limiter.Reset("reader@libris.app")

	for i := 0; i < auth.LoginAttemptBurst; i++ {
		assert.True(t, limiter.Allow("reader@libris.app"), "attempt %d after reset", i+1)
	}
}

func TestLoginLimiter_Cleanup(t *testing.T) {
	clock := newLimiterClock()
	limiter := auth.NewLoginLimiter(clock.Now)

	limiter.Allow("idle@libris.app")
	clock.Advance(auth.LoginLimiterIdleTTL / 2)
	limiter.Allow("active@libris.app")

	// Only the first bucket has been idle past the TTL.
	clock.Advance(auth.LoginLimiterIdleTTL/2 + time.Second)
	assert.Equal(t, 1, limiter.Cleanup())
	assert.Equal(t, 0, limiter.Cleanup())
}
