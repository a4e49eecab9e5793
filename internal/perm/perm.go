// Copyright (c) 2026 Mogger. All rights reserved.

/*
Package perm implements group-based permission resolution.

Every user belongs to exactly one group, and each group carries a set of
permission tokens. Authorization questions reduce to membership lookups
followed by a set check, with the wildcard [All] granting everything.

# Core Responsibility

  - Vocabulary: Defines the closed set of [Permission] tokens.
  - Resolution: Maps user → group → permission set.
  - Gating: Answers own-versus-foreign questions for content mutation.

The own/foreign split is the heart of the model: acting on your own content
requires the base permission, acting on someone else's requires the foreign
variant. Holders of a foreign permission may act on anyone's content,
including their own.
*/
package perm

// # Permission Vocabulary

// Permission is a single capability token granted through group membership.
type Permission string

// The closed set of recognized permission tokens. Unknown tokens in a
// group's stored set are inert: nothing ever checks for them.
const (
	// All is the wildcard. A group holding it passes every check.
	All Permission = "all"

	CreateArticle      Permission = "create-article"
	EditArticle        Permission = "edit-article"
	EditForeignArticle Permission = "edit-foreign-article"

	EditComment          Permission = "edit-comment"
	EditForeignComment   Permission = "edit-foreign-comment"
	DeleteComment        Permission = "delete-comment"
	DeleteForeignComment Permission = "delete-foreign-comment"

	EditUser        Permission = "edit-user"
	EditForeignUser Permission = "edit-foreign-user"
)

// # Core Entities

// Set is a group's collection of granted permission tokens.
type Set []Permission

// Has reports whether the set grants the given permission, either literally
// or through the [All] wildcard.
func (s Set) Has(permission Permission) bool {
	for _, granted := range s {
		if granted == permission || granted == All {
			return true
		}
	}
	return false
}

// Group is a named permission set that users are assigned to.
type Group struct {
	ID          string `json:"id"`
	Permissions Set    `json:"permissions"`
}

// Actor identifies the user on whose behalf a check is performed.
//
// A nil *Actor means the caller is anonymous and fails every check without
// touching the store.
type Actor struct {
	User string
}
