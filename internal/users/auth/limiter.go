// Copyright (c) 2026 Libris. All rights reserved.

package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginLimiter throttles authentication attempts per email address.
//
// # Design
//
// The limiter is an explicit service instance with its own state and an
// injected clock, passed to the auth [Service] as a dependency. Buckets are
// keyed by the lowercased email; state is process-local and does not survive
// restarts.
type LoginLimiter struct {
	mu      sync.Mutex
	buckets map[string]*loginBucket
	now     func() time.Time
}

type loginBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter constructs a LoginLimiter driven by the given clock.
// Pass time.Now in production.
func NewLoginLimiter(clock func() time.Time) *LoginLimiter {
	return &LoginLimiter{
		buckets: make(map[string]*loginBucket),
		now:     clock,
	}
}

// Allow reports whether another login attempt for the email may proceed now.
// A denial consumes nothing; the caller should respond with a retry hint.
func (limiter *LoginLimiter) Allow(email string) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	currentTime := limiter.now()

	bucket, exists := limiter.buckets[email]
	if !exists {
		bucket = &loginBucket{
			limiter: rate.NewLimiter(rate.Limit(LoginAttemptRate), LoginAttemptBurst),
		}
		limiter.buckets[email] = bucket
	}
	bucket.lastSeen = currentTime

	return bucket.limiter.AllowN(currentTime, 1)
}

// Reset discards the bucket for an email, typically after a successful login.
func (limiter *LoginLimiter) Reset(email string) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	delete(limiter.buckets, email)
}

// Cleanup discards buckets idle longer than [LoginLimiterIdleTTL] and
// returns how many were removed. Run it periodically.
func (limiter *LoginLimiter) Cleanup() int {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	currentTime := limiter.now()
	removed := 0

	for email, bucket := range limiter.buckets {
		if currentTime.Sub(bucket.lastSeen) > LoginLimiterIdleTTL {
			delete(limiter.buckets, email)
			removed++
		}
	}

	return removed
}
