// Copyright (c) 2026 Mogger. All rights reserved.

/*
Package account implements profile and account lifecycle management.

It covers everything an existing user does with their own account (or an
administrator with somebody else's): profile edits, password changes, and
deletion with comment anonymization.

# Authorization

Every mutating operation runs through the own-or-foreign permission gate.
Editing your own account requires edit-user, editing anybody else's
requires edit-foreign-user.
*/
package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amandag/mogger/internal/perm"
	"github.com/amandag/mogger/internal/platform/apperr"
	"github.com/amandag/mogger/internal/platform/sec"
	"github.com/amandag/mogger/internal/users/auth"
)

// # Contracts & Types

// CommentAnonymizer detaches a user's comment history during account
// deletion. Satisfied by the comment repository.
type CommentAnonymizer interface {
	AnonymizeByAuthor(context context.Context, userID string, purgeContent bool) (int64, error)
}

// Service orchestrates business logic for account management.
type Service struct {
	users    auth.UserRepository
	sessions auth.SessionRepository
	comments CommentAnonymizer
	checker  *perm.Checker
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	users auth.UserRepository,
	sessions auth.SessionRepository,
	comments CommentAnonymizer,
	checker *perm.Checker,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		comments: comments,
		checker:  checker,
		logger:   logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the public identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or retrieval failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	return service.users.Find(context, userID)
}

// UpdateProfileInput defines the mutable subset of profile fields.
// Nil pointers leave the current value in place.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

/*
UpdateProfile applies a partial set of changes to a user's profile.

Description: The actor must pass the own-or-foreign gate for the target
account before any field is touched.

Parameters:
  - context: context.Context
  - actor: *perm.Actor
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Forbidden, not found, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, actor *perm.Actor, userID string, input UpdateProfileInput) (*auth.User, error) {
	if err := service.authorize(context, actor, userID); err != nil {
		return nil, err
	}

	user, err := service.users.Find(context, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}

	if err := service.users.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

// # Credential Management

/*
ChangePassword rotates a user's password and revokes all their sessions.

Description: When the actor changes their own password the current one
must be supplied and verified first. Administrators acting on a foreign
account skip that check. All sessions are revoked so stolen tokens die
with the old password.

Parameters:
  - context: context.Context
  - actor: *perm.Actor
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - error: Unauthorized, Forbidden, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, actor *perm.Actor, userID, currentPassword, newPassword string) error {
	if err := service.authorize(context, actor, userID); err != nil {
		return err
	}

	user, err := service.users.Find(context, userID)
	if err != nil {
		return err
	}

	// Self-service changes re-verify the current password. Foreign changes
	// (an admin resetting somebody's account) cannot know it.
	if actor != nil && actor.User == userID {
		if !user.VerifyPassword(currentPassword) {
			return apperr.Unauthorized("Current password is incorrect")
		}
	}

	salt, err := sec.GenerateSalt()
	if err != nil {
		return fmt.Errorf("account_service_salt_failed: %w", err)
	}
	hash, err := sec.HashPassword(newPassword, salt)
	if err != nil {
		return fmt.Errorf("account_service_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(context, userID, hash, salt); err != nil {
		return fmt.Errorf("account_service_password_update_failed: %w", err)
	}

	// Force re-login everywhere.
	if err := service.sessions.DeleteAll(context, userID); err != nil {
		service.logger.Warn("session_revocation_failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}

	service.logger.Info("user_password_changed", slog.String("user_id", userID))

	return nil
}

// # Account Deletion

/*
Delete removes an account along with its sessions and comment ownership.

Description: The user's comments are detached in one statement before the
account row goes away. By default the comment text stays on the site under
an anonymous byline; with purgeContent the bodies are blanked and hidden.

Parameters:
  - context: context.Context
  - actor: *perm.Actor
  - userID: string
  - purgeContent: bool

Returns:
  - error: Forbidden, not found, or storage failures
*/
func (service *Service) Delete(context context.Context, actor *perm.Actor, userID string, purgeContent bool) error {
	if err := service.authorize(context, actor, userID); err != nil {
		return err
	}

	if _, err := service.users.Find(context, userID); err != nil {
		return err
	}

	// Detach the comment history first. The comments.author FK would block
	// the row deletion otherwise.
	touched, err := service.comments.AnonymizeByAuthor(context, userID, purgeContent)
	if err != nil {
		return fmt.Errorf("account_service_anonymize_failed: %w", err)
	}

	if err := service.sessions.DeleteAll(context, userID); err != nil {
		return fmt.Errorf("account_service_session_cleanup_failed: %w", err)
	}

	if err := service.users.Delete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.Info("user_deleted",
		slog.String("user_id", userID),
		slog.Int64("comments_anonymized", touched),
		slog.Bool("content_purged", purgeContent))

	return nil
}

// authorize runs the own-or-foreign gate for the target account.
func (service *Service) authorize(context context.Context, actor *perm.Actor, userID string) error {
	allowed, err := service.checker.AllowedOnOwned(context, actor, perm.EditForeignUser, perm.EditUser, &userID)
	if err != nil {
		return err
	}
	if !allowed {
		return apperr.Forbidden("You may not manage this account")
	}
	return nil
}
