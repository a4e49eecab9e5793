// Copyright (c) 2026 Mogger. All rights reserved.

package perm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amandag/mogger/internal/perm"
	"github.com/amandag/mogger/internal/platform/apperr"
	"github.com/amandag/mogger/internal/platform/dberr"
)

// fakeRepository serves groups and memberships from in-memory maps.
type fakeRepository struct {
	groups  map[string]perm.Set
	members map[string]string
	lookups int
}

func (r *fakeRepository) FindByID(_ context.Context, id string) (*perm.Group, error) {
	r.lookups++
	set, ok := r.groups[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return &perm.Group{ID: id, Permissions: set}, nil
}

func (r *fakeRepository) GroupOfUser(_ context.Context, userID string) (string, error) {
	r.lookups++
	groupID, ok := r.members[userID]
	if !ok {
		return "", dberr.ErrNotFound
	}
	return groupID, nil
}

func (r *fakeRepository) List(_ context.Context) ([]*perm.Group, error) {
	return nil, nil
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		groups: map[string]perm.Set{
			"admin":     {perm.All},
			"moderator": {perm.EditComment, perm.EditForeignComment, perm.DeleteComment, perm.DeleteForeignComment},
			"member":    {perm.EditComment, perm.DeleteComment},
			"locked":    {},
		},
		members: map[string]string{
			"root":   "admin",
			"mod":    "moderator",
			"amanda": "member",
			"bob":    "member",
			"ghost":  "vanished-group",
			"frozen": "locked",
		},
	}
}

/*
TestChecker_Allowed covers single-permission resolution.
*/
func TestChecker_Allowed(t *testing.T) {
	tests := []struct {
		name       string
		actor      *perm.Actor
		permission perm.Permission
		want       bool
	}{
		{"admin_wildcard", &perm.Actor{User: "root"}, perm.EditForeignUser, true},
		{"member_granted", &perm.Actor{User: "amanda"}, perm.EditComment, true},
		{"member_denied", &perm.Actor{User: "amanda"}, perm.CreateArticle, false},
		{"empty_group_denied", &perm.Actor{User: "frozen"}, perm.EditComment, false},
		{"anonymous_denied", nil, perm.EditComment, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := perm.NewChecker(newFakeRepository())

			allowed, err := checker.Allowed(context.Background(), tt.actor, tt.permission)
			require.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}

/*
TestChecker_Allowed_AnonymousSkipsStore verifies the nil-actor short circuit.
*/
func TestChecker_Allowed_AnonymousSkipsStore(t *testing.T) {
	repository := newFakeRepository()
	checker := perm.NewChecker(repository)

	allowed, err := checker.Allowed(context.Background(), nil, perm.EditComment)

	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, repository.lookups, "anonymous checks must not hit the store")
}

/*
TestChecker_Allowed_DanglingGroup verifies that a user assigned to a missing
group surfaces an integrity fault instead of a quiet denial.
*/
func TestChecker_Allowed_DanglingGroup(t *testing.T) {
	checker := perm.NewChecker(newFakeRepository())

	_, err := checker.Allowed(context.Background(), &perm.Actor{User: "ghost"}, perm.EditComment)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "INTEGRITY_FAULT", ae.Code)
}

/*
TestChecker_AllowedOnOwned covers the own-versus-foreign decision matrix.
*/
func TestChecker_AllowedOnOwned(t *testing.T) {
	owner := "amanda"

	tests := []struct {
		name    string
		actor   *perm.Actor
		ownerID *string
		want    bool
	}{
		{"owner_with_own_permission", &perm.Actor{User: "amanda"}, &owner, true},
		{"non_owner_without_foreign", &perm.Actor{User: "bob"}, &owner, false},
		{"non_owner_with_foreign", &perm.Actor{User: "mod"}, &owner, true},
		{"wildcard_holder", &perm.Actor{User: "root"}, &owner, true},
		{"ownerless_needs_foreign", &perm.Actor{User: "amanda"}, nil, false},
		{"ownerless_with_foreign", &perm.Actor{User: "mod"}, nil, true},
		{"anonymous", nil, &owner, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := perm.NewChecker(newFakeRepository())

			allowed, err := checker.AllowedOnOwned(
				context.Background(), tt.actor,
				perm.EditForeignComment, perm.EditComment, tt.ownerID,
			)
			require.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}
