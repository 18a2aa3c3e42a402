// Copyright (c) 2026 Libris. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (15m) to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the duration a session/refresh token remains valid.
	// Long-lived (30 days) to provide a good user experience.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random secure token.
	RefreshTokenLength = 32

	// GuestFlagTTL is the duration a guest marker remains valid. Guests get
	// browse-only access and never accumulate durable state.
	GuestFlagTTL = 24 * time.Hour
)

// # Login Rate Limiting

const (
	// LoginAttemptRate is the sustained rate of login attempts allowed per
	// email address, expressed as attempts per second.
	LoginAttemptRate = 5.0 / 60.0

	// LoginAttemptBurst is the number of attempts allowed in a burst before
	// the sustained rate applies.
	LoginAttemptBurst = 5

	// LoginLimiterIdleTTL is how long an email's limiter bucket survives
	// without activity before the cleanup pass discards it.
	LoginLimiterIdleTTL = 15 * time.Minute

	// LoginLimiterRetryAfter is the Retry-After hint (seconds) returned
	// when an email is being throttled.
	LoginLimiterRetryAfter = 60
)
