// Copyright (c) 2026 Libris. All rights reserved.

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mavlib/libris/internal/platform/apperr"
	"github.com/mavlib/libris/internal/platform/constants"
)

// # Session Repository

// RedisSessionRepository implements SessionRepository using Redis.
//
// Each session is serialized whole and stored under the hash of its refresh
// token. The key TTL doubles as the expiry check, so expired sessions simply
// stop resolving.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewSessionRepository creates a new Redis-backed SessionRepository.
func NewSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

/*
Create stores a session record under its refresh-token hash.

Parameters:
  - context: context.Context
  - tokenHash: string
  - session: *Session
  - ttl: time.Duration

Returns:
  - error: Serialization or storage failures
*/
func (repository *RedisSessionRepository) Create(context context.Context, tokenHash string, session *Session, ttl time.Duration) error {

	// Use constants for key prefix
	key := constants.RedisPrefixSession + tokenHash

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	// Set the session with TTL
	if err := repository.client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	return nil
}

/*
FindByTokenHash retrieves the session stored under the given token hash.

Description: Returns apperr.NotFound if the session is absent or expired.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *Session: Hydrated session record
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixSession + tokenHash

	payload, err := repository.client.Get(context, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session not found or expired")
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_session_unmarshal_failed: %w", err)
	}

	return session, nil
}

/*
Revoke removes the session stored under the given token hash.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisSessionRepository) Revoke(context context.Context, tokenHash string) error {

	// Use constants for key prefix
	key := constants.RedisPrefixSession + tokenHash

	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	return nil
}

// # Guest Repository

// RedisGuestRepository implements GuestRepository using Redis.
type RedisGuestRepository struct {
	client *redis.Client
}

// NewGuestRepository creates a new Redis-backed GuestRepository.
func NewGuestRepository(client *redis.Client) *RedisGuestRepository {
	return &RedisGuestRepository{client: client}
}

/*
Set records a guest marker for a limited duration.

Parameters:
  - context: context.Context
  - guestID: string
  - ttl: time.Duration

Returns:
  - error: Storage failures
*/
func (repository *RedisGuestRepository) Set(context context.Context, guestID string, ttl time.Duration) error {

	// Use constants for key prefix
	key := constants.RedisPrefixGuestFlag + guestID

	if err := repository.client.Set(context, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_guest_set_failed: %w", err)
	}

	return nil
}

/*
Exists reports whether the guest marker is still live.

Parameters:
  - context: context.Context
  - guestID: string

Returns:
  - bool: Liveness
  - error: Retrieval failures
*/
func (repository *RedisGuestRepository) Exists(context context.Context, guestID string) (bool, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixGuestFlag + guestID

	count, err := repository.client.Exists(context, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis_guest_exists_failed: %w", err)
	}

	return count > 0, nil
}
