// Copyright (c) 2026 Mogger. All rights reserved.

package article_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amandag/mogger/internal/article"
	"github.com/amandag/mogger/internal/perm"
	"github.com/amandag/mogger/internal/platform/apperr"
	"github.com/amandag/mogger/internal/platform/dberr"
)

// # Test Fixtures

type fakeArticleRepository struct {
	articles []article.Article
	nextID   int64
}

func newFakeArticleRepository(seed ...article.Article) *fakeArticleRepository {
	repository := &fakeArticleRepository{nextID: 1}
	for _, entry := range seed {
		if entry.ID >= repository.nextID {
			repository.nextID = entry.ID + 1
		}
		repository.articles = append(repository.articles, entry)
	}
	return repository
}

func (r *fakeArticleRepository) List(_ context.Context, filter article.Filter, limit, offset int) ([]article.Article, int, error) {
	matching := []article.Article{}
	for _, entry := range r.articles {
		if filter.IncludeHidden || entry.Visible || entry.Author == filter.HiddenAuthor {
			matching = append(matching, entry)
		}
	}

	total := len(matching)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matching[offset:end], total, nil
}

func (r *fakeArticleRepository) FindByID(_ context.Context, id int64) (*article.Article, error) {
	for _, entry := range r.articles {
		if entry.ID == id {
			found := entry
			return &found, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (r *fakeArticleRepository) FindByURL(_ context.Context, url string) (*article.Article, error) {
	for _, entry := range r.articles {
		if entry.URL == url {
			found := entry
			return &found, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (r *fakeArticleRepository) Insert(_ context.Context, entry *article.Article) error {
	entry.ID = r.nextID
	r.nextID++
	r.articles = append(r.articles, *entry)
	return nil
}

func (r *fakeArticleRepository) Update(_ context.Context, id int64, changes article.Changes) error {
	for index, entry := range r.articles {
		if entry.ID == id {
			r.articles[index].Title = changes.Title
			r.articles[index].URL = changes.URL
			r.articles[index].Content = changes.Content
			r.articles[index].Visible = changes.Visible
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (r *fakeArticleRepository) Delete(_ context.Context, id int64) error {
	for index, entry := range r.articles {
		if entry.ID == id {
			r.articles = append(r.articles[:index], r.articles[index+1:]...)
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (r *fakeArticleRepository) CommentCount(_ context.Context, _ int64) (int64, error) {
	return 0, nil
}

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

func newService(repository *fakeArticleRepository) *article.Service {
	checker := perm.NewChecker(&fakePermRepository{
		groups: map[string]perm.Set{
			"admin":  {perm.All},
			"author": {perm.CreateArticle, perm.EditArticle},
			"member": {perm.EditComment, perm.DeleteComment},
		},
		members: map[string]string{
			"root":   "admin",
			"amanda": "author",
			"bob":    "member",
		},
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return article.NewService(repository, checker, logger)
}

// # Publishing

/*
TestService_Submit gates publishing on the create-article permission and
derives slugs from titles.
*/
func TestService_Submit(t *testing.T) {
	t.Run("author_with_derived_slug", func(t *testing.T) {
		service := newService(newFakeArticleRepository())

		entry, err := service.Submit(context.Background(), &perm.Actor{User: "amanda"}, article.SubmitInput{
			Title:   "Hello, Wörld!",
			Content: "body",
			Visible: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "hello-world", entry.URL)
		assert.Equal(t, "amanda", entry.Author)
	})

	t.Run("hand_picked_slug", func(t *testing.T) {
		service := newService(newFakeArticleRepository())

		entry, err := service.Submit(context.Background(), &perm.Actor{User: "amanda"}, article.SubmitInput{
			Title:   "A Title",
			URL:     "my-Custom_Url",
			Content: "body",
		})

		require.NoError(t, err)
		assert.Equal(t, "my-Custom_Url", entry.URL)
	})

	t.Run("illegal_slug_characters", func(t *testing.T) {
		service := newService(newFakeArticleRepository())

		_, err := service.Submit(context.Background(), &perm.Actor{User: "amanda"}, article.SubmitInput{
			Title:   "A Title",
			URL:     "what?really",
			Content: "body",
		})

		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("missing_permission", func(t *testing.T) {
		service := newService(newFakeArticleRepository())

		_, err := service.Submit(context.Background(), &perm.Actor{User: "bob"}, article.SubmitInput{
			Title: "A Title", Content: "body",
		})

		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		service := newService(newFakeArticleRepository())

		_, err := service.Submit(context.Background(), nil, article.SubmitInput{
			Title: "A Title", Content: "body",
		})

		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})
}

/*
TestService_Edit enforces the own/foreign split on article edits.
*/
func TestService_Edit(t *testing.T) {
	seed := article.Article{ID: 1, Title: "Original", Author: "amanda", URL: "original", Content: "body", Visible: true}
	changes := article.Changes{Title: "Edited", URL: "original", Content: "body", Visible: true}

	t.Run("own_article", func(t *testing.T) {
		service := newService(newFakeArticleRepository(seed))

		entry, err := service.Edit(context.Background(), &perm.Actor{User: "amanda"}, 1, changes)

		require.NoError(t, err)
		assert.Equal(t, "Edited", entry.Title)
	})

	t.Run("foreign_denied", func(t *testing.T) {
		service := newService(newFakeArticleRepository(seed))

		_, err := service.Edit(context.Background(), &perm.Actor{User: "bob"}, 1, changes)

		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("foreign_as_admin", func(t *testing.T) {
		service := newService(newFakeArticleRepository(seed))

		_, err := service.Edit(context.Background(), &perm.Actor{User: "root"}, 1, changes)

		require.NoError(t, err)
	})
}

// # Reading

/*
TestService_Get resolves identifiers and hides drafts behind a 404.
*/
func TestService_Get(t *testing.T) {
	repository := newFakeArticleRepository(
		article.Article{ID: 1, Title: "Published", Author: "amanda", URL: "published", Visible: true},
		article.Article{ID: 2, Title: "Draft", Author: "amanda", URL: "draft", Visible: false},
	)
	service := newService(repository)

	t.Run("by_id", func(t *testing.T) {
		detail, err := service.Get(context.Background(), nil, "1")

		require.NoError(t, err)
		assert.Equal(t, "Published", detail.Title)
	})

	t.Run("by_slug", func(t *testing.T) {
		detail, err := service.Get(context.Background(), nil, "published")

		require.NoError(t, err)
		assert.Equal(t, int64(1), detail.ID)
	})

	t.Run("draft_hidden_from_anonymous", func(t *testing.T) {
		_, err := service.Get(context.Background(), nil, "draft")

		assert.ErrorIs(t, err, dberr.ErrNotFound)
	})

	t.Run("draft_visible_to_author", func(t *testing.T) {
		detail, err := service.Get(context.Background(), &perm.Actor{User: "amanda"}, "draft")

		require.NoError(t, err)
		assert.False(t, detail.Visible)
	})
}

/*
TestService_List scopes the page to what the reader may view.
*/
func TestService_List(t *testing.T) {
	repository := newFakeArticleRepository(
		article.Article{ID: 1, Author: "amanda", URL: "a", Visible: true},
		article.Article{ID: 2, Author: "amanda", URL: "b", Visible: false},
		article.Article{ID: 3, Author: "root", URL: "c", Visible: false},
	)
	service := newService(repository)

	t.Run("anonymous_sees_published", func(t *testing.T) {
		_, total, err := service.List(context.Background(), nil, 20, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("author_sees_own_drafts", func(t *testing.T) {
		_, total, err := service.List(context.Background(), &perm.Actor{User: "amanda"}, 20, 0)

		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("admin_sees_everything", func(t *testing.T) {
		_, total, err := service.List(context.Background(), &perm.Actor{User: "root"}, 20, 0)

		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})
}
