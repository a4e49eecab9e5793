// Copyright (c) 2026 Mogger. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amandag/mogger/internal/platform/apperr"
	"github.com/amandag/mogger/internal/platform/sec"
)

// # Contracts & Types

// TokenProvider defines the contract for generating API access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	GenerateAccessToken(userID string, timeToLive time.Duration) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing,
// registration, or login logic must be reviewed carefully.
type Service struct {
	users          UserRepository
	sessions       SessionRepository
	tokens         TokenProvider
	signupsEnabled bool
	logger         *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	users UserRepository,
	sessions SessionRepository,
	tokens TokenProvider,
	signupsEnabled bool,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:          users,
		sessions:       sessions,
		tokens:         tokens,
		signupsEnabled: signupsEnabled,
		logger:         logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Password string
	Name     string
	Email    string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Self-service enrollment into the member group. Refused
entirely when signups are disabled by configuration.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Forbidden (signups disabled), Conflict (username taken), or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	if !service.signupsEnabled {
		return nil, apperr.Forbidden("Signups are disabled")
	}

	// Verify username uniqueness. Return a client-safe Conflict error.
	if _, err := service.users.Find(context, input.Username); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	user, err := service.createUser(context, input.Username, input.Password, input.Name, input.Email, GroupMember)
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID))
	return user, nil
}

// # Initial Setup

/*
InitialSetup creates the very first account with administrator rights.

Description: Available only while the user table is empty, so a fresh
deployment can bootstrap itself without out-of-band database access. Once
any account exists the endpoint refuses permanently.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created administrator
  - error: Forbidden once any user exists, or storage errors
*/
func (service *Service) InitialSetup(context context.Context, input RegisterInput) (*User, error) {
	total, err := service.users.Count(context)
	if err != nil {
		return nil, fmt.Errorf("auth_service_setup_count_failed: %w", err)
	}
	if total > 0 {
		return nil, apperr.Forbidden("Setup has already been completed")
	}

	user, err := service.createUser(context, input.Username, input.Password, input.Name, input.Email, GroupAdmin)
	if err != nil {
		return nil, err
	}

	service.logger.Info("initial_setup_completed", slog.String("user_id", user.ID))
	return user, nil
}

// createUser hashes the password with a fresh salt and persists the account.
func (service *Service) createUser(context context.Context, username, password, name, email, group string) (*User, error) {
	salt, err := sec.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("auth_service_salt_failed: %w", err)
	}

	hash, err := sec.HashPassword(password, salt)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:    username,
		Hash:  hash,
		Salt:  salt,
		Name:  name,
		Email: email,
		Group: group,
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	Session     *Session
	AccessToken string
	User        *User
}

/*
Login validates user credentials and establishes a session.

Description: Verifies the password under the stored salt, transparently
upgrades accounts flagged for rehash, and issues both an opaque browser
session token and a short-lived JWT access token.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.users.Find(context, input.Username)

	// Generic message whether the user is missing or the password is wrong,
	// to prevent account enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}
	if !service.verifyAndUpgrade(context, user, input.Password) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	token, err := sec.GenerateSecureToken(SessionTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_token_failed: %w", err)
	}

	session := &Session{
		ID:      token,
		User:    user.ID,
		Expires: time.Now().Add(SessionTTL),
	}
	if err := service.sessions.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	accessToken, err := service.tokens.GenerateAccessToken(user.ID, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))

	return &LoginSession{
		Session:     session,
		AccessToken: accessToken,
		User:        user,
	}, nil
}

// verifyAndUpgrade checks the password against the stored hash. Accounts
// flagged for rehash are verified against the legacy scheme and, on
// success, rewritten under the current one.
func (service *Service) verifyAndUpgrade(context context.Context, user *User, password string) bool {
	if !user.Rehash {
		return user.VerifyPassword(password)
	}

	if !sec.CheckLegacyPasswordHash(password, user.Hash) {
		return false
	}

	// Upgrade is best effort. A failed rewrite keeps the legacy hash in
	// place and the next login retries.
	salt, err := sec.GenerateSalt()
	if err == nil {
		if hash, err := sec.HashPassword(password, salt); err == nil {
			if err := service.users.UpdatePassword(context, user.ID, hash, salt); err != nil {
				service.logger.Warn("password_rehash_failed",
					slog.String("user_id", user.ID),
					slog.String("error", err.Error()))
			} else {
				service.logger.Info("password_rehashed", slog.String("user_id", user.ID))
			}
		}
	}

	return true
}

/*
Logout terminates the session behind the given token.

Description: Idempotent, an already expired or unknown token is treated
as a successful logout.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, token string) error {
	if err := service.sessions.Delete(context, token); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

/*
LogoutAll revokes every active session belonging to the user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Revocation failures
*/
func (service *Service) LogoutAll(context context.Context, userID string) error {
	if err := service.sessions.DeleteAll(context, userID); err != nil {
		return fmt.Errorf("auth_service_logout_all_failed: %w", err)
	}
	return nil
}

// # Session Resolution

/*
ResolveSession maps a browser session token to its owning user ID.

Description: Satisfies the middleware session resolver contract so cookie
carrying requests are authenticated without a JWT.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - string: UserID
  - error: Not-found for absent or expired tokens
*/
func (service *Service) ResolveSession(context context.Context, token string) (string, error) {
	session, err := service.sessions.Find(context, token)
	if err != nil {
		return "", err
	}
	return session.User, nil
}
