// Copyright (c) 2026 Libris. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for member accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new member account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token
// sessions. Implementations key each record by its token hash and enforce
// expiry through storage-level TTLs.
type SessionRepository interface {

	/*
		Create persists a new tracking session for an authenticated login.

		Parameters:
		  - context: context.Context
		  - tokenHash: string
		  - session: *Session
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, tokenHash string, session *Session, ttl time.Duration) error

	/*
		FindByTokenHash returns the live session matching the given token hash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *Session: Hydrated entity
		  - error: apperr.NotFound when absent or expired
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	/*
		Revoke removes the session stored under the given token hash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, tokenHash string) error
}

// # Guest Data Access

// GuestRepository defines the contract for short-lived guest markers.
// Guests browse without an account; the marker only proves the guest ID
// was minted by us.
type GuestRepository interface {

	/*
		Set records a guest marker for a limited duration.

		Parameters:
		  - context: context.Context
		  - guestID: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, guestID string, ttl time.Duration) error

	/*
		Exists reports whether the guest marker is still live.

		Parameters:
		  - context: context.Context
		  - guestID: string

		Returns:
		  - bool: Liveness
		  - error: Retrieval failures
	*/
	Exists(context context.Context, guestID string) (bool, error)
}
