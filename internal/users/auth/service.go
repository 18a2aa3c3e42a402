// Copyright (c) 2026 Libris. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mavlib/libris/internal/platform/apperr"
	"github.com/mavlib/libris/internal/platform/sec"
	"github.com/mavlib/libris/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - name: The display name of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, name, role string, timeToLive time.Duration) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed before merging.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	guestRepository   GuestRepository
	tokenProvider     TokenProvider
	loginLimiter      *LoginLimiter
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	guestRepo GuestRepository,
	tokenProv TokenProvider,
	limiter *LoginLimiter,
) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		guestRepository:   guestRepo,
		tokenProvider:     tokenProv,
		loginLimiter:      limiter,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new member account.

Description: New members always start as readers; staff and admin roles are
granted out of band. The membership date is stamped at enrollment.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	email := normalizeEmail(input.Email)

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity.
	user := &User{
		ID:             uuid.New(),
		Name:           input.Name,
		Email:          email,
		PasswordHash:   hashedPassword,
		Role:           sec.RoleReader,
		MembershipDate: time.Now(),
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates member credentials and issues security tokens.

Description: Attempts for an email are throttled through the [LoginLimiter]
before any lookup happens, so a brute-force run burns its budget even on
nonexistent accounts. On success the email's bucket is reset.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Unauthorized, RateLimited, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	email := normalizeEmail(input.Email)

	// Throttle before touching storage
	if !service.loginLimiter.Allow(email) {
		return nil, apperr.RateLimited(LoginLimiterRetryAfter)
	}

	user, err := service.userRepository.FindByEmail(context, email)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Successful login releases the throttle budget
	service.loginLimiter.Reset(email)

	return service.issueSession(context, user, input.UserAgent, input.IPAddress)
}

/*
Guest mints a short-lived anonymous visitor identity.

Description: Guests can browse and search the catalogue but hold no account.
The marker in Redis lets the API distinguish a minted guest ID from a
fabricated one.

Parameters:
  - context: context.Context

Returns:
  - string: Guest ID
  - err: Storage failures
*/
func (service *Service) Guest(context context.Context) (string, error) {
	guestID := uuid.New()

	if err := service.guestRepository.Set(context, guestID, GuestFlagTTL); err != nil {
		return "", fmt.Errorf("auth_service_guest_failed: %w", err)
	}

	return guestID, nil
}

/*
Logout revokes the session behind the presented refresh token.

Description: Idempotent; logging out an already-dead session succeeds.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {

	// Hash the refresh token
	tokenHash := sec.HashToken(refreshToken)

	// If the session is already gone or invalid, logout still succeeds.
	if _, err := service.sessionRepository.FindByTokenHash(context, tokenHash); err != nil {
		return nil
	}

	if err := service.sessionRepository.Revoke(context, tokenHash); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Session Management

/*
RefreshSession implements the Refresh Token Rotation mechanism.

Description: Verifies the existing refresh token, revokes it to prevent reuse
(replay attack mitigation), and issues a fresh pair of rotated tokens.

Parameters:
  - context: context.Context
  - refreshToken: string
  - userAgent: string
  - ipAddress: string

Returns:
  - *LoginSession: New session credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {

	// Hash the incoming refresh token to look it up
	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) the token is either expired, already revoked, or completely invalid.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Rotation: Revoke the old session to prevent replay attacks
	if err := service.sessionRepository.Revoke(context, tokenHash); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	// Fetch the user associated with this session
	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("User not found or suspended")
	}

	return service.issueSession(context, user, userAgent, ipAddress)
}

// issueSession generates the access/refresh token pair for a user and
// persists the tracking session under the refresh token's hash.
func (service *Service) issueSession(context context.Context, user *User, userAgent, ipAddress string) (*LoginSession, error) {

	// Generate short-lived Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Name, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Generate long-lived Refresh Token
	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Create and persist the tracking session
	expiresAt := time.Now().Add(RefreshTokenTTL)
	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	if err := service.sessionRepository.Create(context, sec.HashToken(refreshToken), session, RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// normalizeEmail lowercases and trims an email so lookups and limiter keys
// agree on a single canonical form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
