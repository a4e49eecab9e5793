// Copyright (c) 2026 Mogger. All rights reserved.

package perm

import (
	"context"
	"errors"

	"github.com/amandag/mogger/internal/platform/apperr"
	"github.com/amandag/mogger/internal/platform/dberr"
)

// # Authorization Gate

// Checker answers authorization questions by resolving actors against the
// group store.
type Checker struct {
	repository Repository
}

// NewChecker constructs the authorization gate.
func NewChecker(repository Repository) *Checker {
	return &Checker{repository: repository}
}

/*
Allowed reports whether the actor holds a single permission.

Description: A nil actor is anonymous and is refused without a store lookup.
A user pointing at a group that no longer exists is a data integrity fault,
not a permission denial, and surfaces as a 500 rather than a 403.

Parameters:
  - context: context.Context
  - actor: *Actor (nil for anonymous callers)
  - permission: Permission

Returns:
  - bool: true if the actor's group grants the permission
  - error: Integrity faults and store failures
*/
func (checker *Checker) Allowed(context context.Context, actor *Actor, permission Permission) (bool, error) {
	if actor == nil {
		return false, nil
	}

	set, err := checker.Resolve(context, actor)
	if err != nil {
		return false, err
	}

	return set.Has(permission), nil
}

/*
AllowedOnOwned decides whether the actor may act on a piece of owned content.

Description: The foreign permission authorizes acting on anyone's content.
The own permission only applies when the actor is the owner. Ownerless
content (anonymous comments, anonymized authors) can only be touched through
the foreign permission.

Parameters:
  - context: context.Context
  - actor: *Actor (nil for anonymous callers)
  - foreign: Permission (Variant for other people's content)
  - own: Permission (Variant for the actor's own content)
  - ownerID: *string (Content owner, nil when ownerless)

Returns:
  - bool: true if the actor may act on this content
  - error: Integrity faults and store failures
*/
func (checker *Checker) AllowedOnOwned(context context.Context, actor *Actor, foreign, own Permission, ownerID *string) (bool, error) {
	if actor == nil {
		return false, nil
	}

	set, err := checker.Resolve(context, actor)
	if err != nil {
		return false, err
	}

	// 1. Foreign variant covers all content, own included
	if set.Has(foreign) {
		return true, nil
	}

	// 2. Own variant applies only when the actor is the owner
	if ownerID != nil && *ownerID == actor.User && set.Has(own) {
		return true, nil
	}

	return false, nil
}

/*
Resolve walks user → group → permission set.

Description: Callers that evaluate many items against the same actor (tree
pruning in particular) resolve the set once and use the pure [Set] and
entity predicates instead of paying a store round-trip per item.

Parameters:
  - context: context.Context
  - actor: *Actor (nil for anonymous callers)

Returns:
  - Set: The actor's permission set, nil for anonymous actors
  - error: Integrity faults and store failures
*/
func (checker *Checker) Resolve(context context.Context, actor *Actor) (Set, error) {
	if actor == nil {
		return nil, nil
	}
	groupID, err := checker.repository.GroupOfUser(context, actor.User)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			// An authenticated actor without a user row means a stale
			// credential outlived its account.
			return nil, apperr.Integrity(err)
		}
		return nil, err
	}

	group, err := checker.repository.FindByID(context, groupID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			// Users always reference an existing group. A dangling
			// reference is database corruption, not a denial.
			return nil, apperr.Integrity(err)
		}
		return nil, err
	}

	return group.Permissions, nil
}
