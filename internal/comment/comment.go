// Copyright (c) 2026 Mogger. All rights reserved.

/*
Package comment manages threaded discussion below articles.

Comments are stored flat, each row carrying an optional parent reference,
and are reassembled into trees on demand. Visibility is a soft property:
hiding a comment flips a flag, while purging removes the row and is refused
for comments that still have direct replies.

# Core Responsibility

  - Threading: Rebuilds the reply forest from the flat list ([BuildForest]).
  - Context: Walks up the ancestor chain for "view in thread" links ([ContextView]).
  - Moderation: Soft hide, restore, and guarded hard purge.

Guests may comment when the feature is enabled; their display name lives on
the comment itself while registered authors are referenced by username.
*/
package comment

import (
	"github.com/amandag/mogger/internal/perm"
	"github.com/amandag/mogger/pkg/unixtime"
)

// # Core Entities

// Comment is a single entry in an article's discussion thread.
type Comment struct {
	ID int64 `json:"id"`
	// Parent references the comment this one replies to, nil for roots.
	Parent *int64 `json:"parent"`
	// Article is the id of the article this comment belongs to.
	Article int64 `json:"article"`
	// Author is the submitting user, nil for guest comments and for
	// comments whose author account was deleted.
	Author *string `json:"author"`
	// Name is the display name for guest comments.
	Name    *string  `json:"name"`
	Content string        `json:"content"`
	Date    unixtime.Time `json:"date"`
	// Visible is false for soft-hidden comments.
	Visible bool `json:"visible"`
}

// Changes carries the mutable fields of a comment for edit operations.
type Changes struct {
	Name    *string `json:"name"`
	Content string  `json:"content"`
	Visible bool    `json:"visible"`
}

// Node is a comment plus its ordered replies, the unit of the rebuilt tree.
type Node struct {
	Comment  Comment `json:"comment"`
	Children []Node  `json:"children"`
}

// # Visibility Predicates

// EditableBy reports whether a user with the given permission set may modify
// this comment. Editing foreign content needs the foreign variant; editing
// your own needs the base permission and ownership. Guest comments have no
// owner and can only be edited through the foreign variant.
func (c Comment) EditableBy(user string, set perm.Set) bool {
	if set.Has(perm.EditForeignComment) {
		return true
	}
	return c.Author != nil && *c.Author == user && set.Has(perm.EditComment)
}

// DeletableBy reports whether a user with the given permission set may hide
// or purge this comment. Same own/foreign split as [Comment.EditableBy].
func (c Comment) DeletableBy(user string, set perm.Set) bool {
	if set.Has(perm.DeleteForeignComment) {
		return true
	}
	return c.Author != nil && *c.Author == user && set.Has(perm.DeleteComment)
}

// ViewableBy reports whether the comment shows up for this user. Visible
// comments show for everyone; hidden ones only for users who could edit them.
func (c Comment) ViewableBy(user string, set perm.Set) bool {
	return c.Visible || c.EditableBy(user, set)
}
