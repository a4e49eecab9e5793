// Copyright (c) 2026 Mogger. All rights reserved.

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		Find returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or database retrieval failures
	*/
	Find(context context.Context, id string) (*User, error)

	/*
		Create persists a brand-new user account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Conflict on duplicate username, or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists changes to the mutable profile fields (name, email, group).

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		UpdatePassword replaces the user's hash and salt and clears the
		rehash flag.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - hash: string
		  - salt: []byte

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, hash string, salt []byte) error

	/*
		Delete permanently removes the account row.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: dberr.ErrNotFound or persistence failures
	*/
	Delete(context context.Context, id string) error

	/*
		Count returns the total number of registered accounts.

		Parameters:
		  - context: context.Context

		Returns:
		  - int64: Number of accounts
		  - error: Database retrieval failures
	*/
	Count(context context.Context) (int64, error)
}

// # Session Data Access

// SessionRepository defines the data access contract for browser sessions.
//
// Sessions are volatile: implementations expire them on their own after
// [SessionTTL] without an explicit cleanup pass.
type SessionRepository interface {

	/*
		Create persists a new session under its token.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		Find returns the session with the given token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *Session: Hydrated entity
		  - error: dberr.ErrNotFound if absent or expired
	*/
	Find(context context.Context, token string) (*Session, error)

	/*
		Delete removes a single session, logging the client out.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error

	/*
		DeleteAll removes every session belonging to the user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	DeleteAll(context context.Context, userID string) error
}
