// Copyright (c) 2026 Mogger. All rights reserved.

/*
Package auth implements user identity and session management.

It defines the core domain entities (User, Session) and the logic for
registration, login, session resolution, and the initial administrator setup.

# Architecture

  - Service: Orchestrates registration, login, and session lifecycle.
  - Repositories: Abstracted interfaces for Postgres (users) and Redis (sessions).
  - Security: sha256-then-bcrypt password hashing with per-user salts, opaque
    session tokens for browsers, RSA-signed JWTs for API clients.
*/
package auth

import (
	"time"

	"github.com/amandag/mogger/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account. The ID doubles as the username.
type User struct {
	ID    string `json:"id"`
	Hash  string `json:"-"` // bcrypt hash of the salted password digest. Omitted for security.
	Salt  []byte `json:"-"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Group string `json:"group"`

	// Rehash marks accounts whose stored hash predates the current scheme.
	// The hash is upgraded transparently on the next successful login.
	Rehash bool `json:"-"`
}

// VerifyPassword reports whether the plain-text password matches the
// stored hash under this user's salt.
func (user *User) VerifyPassword(password string) bool {
	return sec.CheckPasswordHash(password, user.Salt, user.Hash)
}

// Session represents an active browser session. The ID is the opaque
// token handed to the client as a cookie.
type Session struct {
	ID      string    `json:"id"`
	User    string    `json:"user"`
	Expires time.Time `json:"expires"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the auth domain.
const (
	FieldUsername = "username"
	FieldPassword = "password"
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldMessage  = "message"
)
