// Copyright (c) 2026 Mogger. All rights reserved.

package comment_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amandag/mogger/internal/comment"
	"github.com/amandag/mogger/internal/perm"
	"github.com/amandag/mogger/internal/platform/apperr"
	"github.com/amandag/mogger/internal/platform/dberr"
	"github.com/amandag/mogger/pkg/unixtime"
)

// # Test Fixtures

// fakeCommentRepository keeps comments in a slice, mimicking serial ids.
type fakeCommentRepository struct {
	comments []comment.Comment
	nextID   int64
}

func newFakeCommentRepository(seed ...comment.Comment) *fakeCommentRepository {
	repository := &fakeCommentRepository{nextID: 1}
	for _, entry := range seed {
		if entry.ID >= repository.nextID {
			repository.nextID = entry.ID + 1
		}
		repository.comments = append(repository.comments, entry)
	}
	return repository
}

func (r *fakeCommentRepository) ListByArticle(_ context.Context, articleID int64) ([]comment.Comment, error) {
	result := []comment.Comment{}
	for _, entry := range r.comments {
		if entry.Article == articleID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *fakeCommentRepository) Find(_ context.Context, id int64) (*comment.Comment, error) {
	for _, entry := range r.comments {
		if entry.ID == id {
			found := entry
			return &found, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (r *fakeCommentRepository) Insert(_ context.Context, entry *comment.Comment) error {
	entry.ID = r.nextID
	entry.Date = unixtime.Now()
	r.nextID++
	r.comments = append(r.comments, *entry)
	return nil
}

func (r *fakeCommentRepository) Update(_ context.Context, id int64, changes comment.Changes) error {
	for index, entry := range r.comments {
		if entry.ID == id {
			r.comments[index].Name = changes.Name
			r.comments[index].Content = changes.Content
			r.comments[index].Visible = changes.Visible
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (r *fakeCommentRepository) SetVisible(_ context.Context, id int64, visible bool) error {
	for index, entry := range r.comments {
		if entry.ID == id {
			r.comments[index].Visible = visible
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (r *fakeCommentRepository) Purge(_ context.Context, id int64) error {
	for index, entry := range r.comments {
		if entry.ID == id {
			r.comments = append(r.comments[:index], r.comments[index+1:]...)
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (r *fakeCommentRepository) CountChildren(_ context.Context, id int64) (int, error) {
	count := 0
	for _, entry := range r.comments {
		if entry.Parent != nil && *entry.Parent == id {
			count++
		}
	}
	return count, nil
}

func (r *fakeCommentRepository) ListByAuthor(_ context.Context, userID string) ([]comment.Comment, error) {
	result := []comment.Comment{}
	for _, entry := range r.comments {
		if entry.Author != nil && *entry.Author == userID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *fakeCommentRepository) AnonymizeByAuthor(_ context.Context, userID string, purgeContent bool) (int64, error) {
	deleted := "[deleted]"
	var touched int64
	for index, entry := range r.comments {
		if entry.Author != nil && *entry.Author == userID {
			r.comments[index].Author = nil
			r.comments[index].Name = &deleted
			if purgeContent {
				r.comments[index].Content = ""
				r.comments[index].Visible = false
			}
			touched++
		}
	}
	return touched, nil
}

// fakePermRepository backs the checker with static groups.
type fakePermRepository struct {
	groups  map[string]perm.Set
	members map[string]string
}

func (r *fakePermRepository) FindByID(_ context.Context, id string) (*perm.Group, error) {
	set, ok := r.groups[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return &perm.Group{ID: id, Permissions: set}, nil
}

func (r *fakePermRepository) GroupOfUser(_ context.Context, userID string) (string, error) {
	groupID, ok := r.members[userID]
	if !ok {
		return "", dberr.ErrNotFound
	}
	return groupID, nil
}

func (r *fakePermRepository) List(_ context.Context) ([]*perm.Group, error) {
	return nil, nil
}

func newService(repository *fakeCommentRepository, guestComments bool) *comment.Service {
	checker := perm.NewChecker(&fakePermRepository{
		groups: map[string]perm.Set{
			"admin":  {perm.All},
			"member": {perm.EditComment, perm.DeleteComment},
		},
		members: map[string]string{
			"root":   "admin",
			"amanda": "member",
			"bob":    "member",
		},
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return comment.NewService(repository, checker, guestComments, logger)
}

func seeded(id int64, parent *int64, author string, visible bool) comment.Comment {
	entry := flat(id, parent)
	entry.Visible = visible
	if author == "" {
		entry.Author = nil
	} else {
		entry.Author = &author
	}
	return entry
}

// # Submission

/*
TestService_Submit_Authenticated stores the actor as author and discards
any submitted display name.
*/
func TestService_Submit_Authenticated(t *testing.T) {
	repository := newFakeCommentRepository()
	service := newService(repository, true)
	displayName := "impostor"

	entry, err := service.Submit(context.Background(), &perm.Actor{User: "amanda"}, comment.SubmitInput{
		Article: 1,
		Name:    &displayName,
		Content: "hello",
	})

	require.NoError(t, err)
	require.NotNil(t, entry.Author)
	assert.Equal(t, "amanda", *entry.Author)
	assert.Nil(t, entry.Name)
	assert.True(t, entry.Visible)
	assert.NotZero(t, entry.ID)
}

/*
TestService_Submit_Guest stores the display name with no author while the
guest feature is on, and refuses with 401 when it is off.
*/
func TestService_Submit_Guest(t *testing.T) {
	displayName := "visitor"
	input := comment.SubmitInput{Article: 1, Name: &displayName, Content: "hi"}

	t.Run("enabled", func(t *testing.T) {
		service := newService(newFakeCommentRepository(), true)

		entry, err := service.Submit(context.Background(), nil, input)

		require.NoError(t, err)
		assert.Nil(t, entry.Author)
		require.NotNil(t, entry.Name)
		assert.Equal(t, "visitor", *entry.Name)
	})

	t.Run("disabled", func(t *testing.T) {
		service := newService(newFakeCommentRepository(), false)

		_, err := service.Submit(context.Background(), nil, input)

		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})

	t.Run("missing_name", func(t *testing.T) {
		service := newService(newFakeCommentRepository(), true)

		_, err := service.Submit(context.Background(), nil, comment.SubmitInput{Article: 1, Content: "hi"})

		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

/*
TestService_Submit_ParentChecks rejects replies to missing parents and to
parents on a different article.
*/
func TestService_Submit_ParentChecks(t *testing.T) {
	other := seeded(1, nil, "bob", true)
	other.Article = 2
	repository := newFakeCommentRepository(other)
	service := newService(repository, true)
	actor := &perm.Actor{User: "amanda"}

	t.Run("missing_parent", func(t *testing.T) {
		_, err := service.Submit(context.Background(), actor, comment.SubmitInput{
			Article: 1, Parent: ref(42), Content: "reply",
		})

		require.Error(t, err)
		assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
	})

	t.Run("cross_article_parent", func(t *testing.T) {
		_, err := service.Submit(context.Background(), actor, comment.SubmitInput{
			Article: 1, Parent: ref(1), Content: "reply",
		})

		require.Error(t, err)
		assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
	})
}

// # Moderation

/*
TestService_Edit enforces the own/foreign split on edits.
*/
func TestService_Edit(t *testing.T) {
	changes := comment.Changes{Content: "edited", Visible: true}

	t.Run("own_comment", func(t *testing.T) {
		repository := newFakeCommentRepository(seeded(1, nil, "amanda", true))
		service := newService(repository, true)

		entry, err := service.Edit(context.Background(), &perm.Actor{User: "amanda"}, 1, changes)

		require.NoError(t, err)
		assert.Equal(t, "edited", entry.Content)
	})

	t.Run("foreign_comment_denied", func(t *testing.T) {
		repository := newFakeCommentRepository(seeded(1, nil, "amanda", true))
		service := newService(repository, true)

		_, err := service.Edit(context.Background(), &perm.Actor{User: "bob"}, 1, changes)

		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("foreign_comment_as_admin", func(t *testing.T) {
		repository := newFakeCommentRepository(seeded(1, nil, "amanda", true))
		service := newService(repository, true)

		_, err := service.Edit(context.Background(), &perm.Actor{User: "root"}, 1, changes)

		require.NoError(t, err)
	})

	t.Run("guest_comment_needs_foreign", func(t *testing.T) {
		repository := newFakeCommentRepository(seeded(1, nil, "", true))
		service := newService(repository, true)

		_, err := service.Edit(context.Background(), &perm.Actor{User: "amanda"}, 1, changes)
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

		_, err = service.Edit(context.Background(), &perm.Actor{User: "root"}, 1, changes)
		require.NoError(t, err)
	})

	t.Run("anonymous", func(t *testing.T) {
		repository := newFakeCommentRepository(seeded(1, nil, "amanda", true))
		service := newService(repository, true)

		_, err := service.Edit(context.Background(), nil, 1, changes)

		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})
}

/*
TestService_HideAndRestore verifies soft deletion keeps the row around.
*/
func TestService_HideAndRestore(t *testing.T) {
	repository := newFakeCommentRepository(seeded(1, nil, "amanda", true))
	service := newService(repository, true)
	actor := &perm.Actor{User: "amanda"}

	require.NoError(t, service.Hide(context.Background(), actor, 1))

	entry, err := repository.Find(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, entry.Visible, "hide must flip the flag, not delete the row")

	require.NoError(t, service.Restore(context.Background(), actor, 1))

	entry, err = repository.Find(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, entry.Visible)
}

/*
TestService_Purge refuses while direct replies exist and deletes leaf
comments for authorized actors.
*/
func TestService_Purge(t *testing.T) {
	t.Run("with_children", func(t *testing.T) {
		repository := newFakeCommentRepository(
			seeded(1, nil, "amanda", true),
			seeded(2, ref(1), "bob", true),
		)
		service := newService(repository, true)

		err := service.Purge(context.Background(), &perm.Actor{User: "amanda"}, 1)

		require.Error(t, err)
		assert.Equal(t, "HAS_CHILDREN", apperr.As(err).Code)

		_, err = repository.Find(context.Background(), 1)
		assert.NoError(t, err, "refused purge must leave the row intact")
	})

	t.Run("leaf", func(t *testing.T) {
		repository := newFakeCommentRepository(
			seeded(1, nil, "amanda", true),
			seeded(2, ref(1), "amanda", true),
		)
		service := newService(repository, true)

		require.NoError(t, service.Purge(context.Background(), &perm.Actor{User: "amanda"}, 2))

		_, err := repository.Find(context.Background(), 2)
		assert.ErrorIs(t, err, dberr.ErrNotFound)
	})

	t.Run("foreign_denied", func(t *testing.T) {
		repository := newFakeCommentRepository(seeded(1, nil, "amanda", true))
		service := newService(repository, true)

		err := service.Purge(context.Background(), &perm.Actor{User: "bob"}, 1)

		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})
}

// # Reading

/*
TestService_GetTree prunes hidden subtrees per reader.
*/
func TestService_GetTree(t *testing.T) {
	repository := newFakeCommentRepository(
		seeded(1, nil, "amanda", true),
		seeded(2, ref(1), "amanda", false),
		seeded(3, ref(2), "bob", true),
		seeded(4, nil, "bob", true),
	)
	service := newService(repository, true)

	t.Run("anonymous_reader", func(t *testing.T) {
		forest, err := service.GetTree(context.Background(), nil, 1)

		require.NoError(t, err)
		require.Len(t, forest, 2)
		assert.Empty(t, forest[0].Children, "hidden reply and its subtree are gone")
	})

	t.Run("hidden_author", func(t *testing.T) {
		forest, err := service.GetTree(context.Background(), &perm.Actor{User: "amanda"}, 1)

		require.NoError(t, err)
		require.Len(t, forest, 2)
		require.Len(t, forest[0].Children, 1)
		assert.Equal(t, int64(2), forest[0].Children[0].Comment.ID)
	})
}

/*
TestService_GetContext walks the unfiltered chain and prunes only the
result, so a hidden ancestor makes the whole context view disappear.
*/
func TestService_GetContext(t *testing.T) {
	repository := newFakeCommentRepository(
		seeded(1, nil, "amanda", true),
		seeded(2, ref(1), "amanda", false),
		seeded(3, ref(2), "bob", true),
	)
	service := newService(repository, true)

	t.Run("visible_chain", func(t *testing.T) {
		node, err := service.GetContext(context.Background(), nil, 3, 2)

		require.NoError(t, err)
		assert.Equal(t, int64(1), node.Comment.ID)
	})

	t.Run("hidden_ancestor_root", func(t *testing.T) {
		_, err := service.GetContext(context.Background(), nil, 3, 1)

		assert.ErrorIs(t, err, dberr.ErrNotFound)
	})

	t.Run("missing_target", func(t *testing.T) {
		_, err := service.GetContext(context.Background(), nil, 42, 0)

		assert.ErrorIs(t, err, dberr.ErrNotFound)
	})
}

/*
TestService_GetSingle hides invisible comments behind a 404.
*/
func TestService_GetSingle(t *testing.T) {
	repository := newFakeCommentRepository(seeded(1, nil, "amanda", false))
	service := newService(repository, true)

	_, err := service.GetSingle(context.Background(), &perm.Actor{User: "bob"}, 1)
	assert.ErrorIs(t, err, dberr.ErrNotFound)

	entry, err := service.GetSingle(context.Background(), &perm.Actor{User: "amanda"}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.ID)
}
