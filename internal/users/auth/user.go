// Copyright (c) 2026 Libris. All rights reserved.

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and logic for
authentication, authorization, and account lifecycle. Sessions live in Redis
as self-contained records keyed by the hash of their refresh token; guest
visitors get a short-lived Redis flag instead of an account.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no
external dependencies and encapsulate all business rules related to user
identity.
*/
package auth

import (
	"time"

	"github.com/mavlib/libris/internal/platform/sec"
)

// # Domain Entities

// User represents a registered library member.
type User struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"-"` // Explicitly omitted from JSON for security.
	Role           sec.UserRole `json:"role"`
	MembershipDate time.Time    `json:"membership_date"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Session represents an active refresh-token session. The record is stored
// whole in Redis under the hash of its refresh token; expiry is enforced by
// the key's TTL, so a lookup hit implies a live session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the
// authentication domain.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
	FieldMessage     = "message"
)
