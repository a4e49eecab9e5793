// Copyright (c) 2026 Mogger. All rights reserved.

package article

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/amandag/mogger/internal/perm"
	"github.com/amandag/mogger/internal/platform/apperr"
	"github.com/amandag/mogger/internal/platform/dberr"
	"github.com/amandag/mogger/internal/platform/validate"
	"github.com/amandag/mogger/pkg/slug"
)

// Input bounds for submitted articles.
const (
	maxTitleLength = 200
	maxURLLength   = 120
)

// # Service Layer

// Service orchestrates publishing, drafts, and permission gating for
// articles.
type Service struct {
	repo    Repository
	checker *perm.Checker
	logger  *slog.Logger
}

// NewService constructs a new article [Service].
func NewService(repo Repository, checker *perm.Checker, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		checker: checker,
		logger:  logger,
	}
}

// Detail is an article joined with its discussion size for detail views.
type Detail struct {
	*Article
	CommentCount int64 `json:"comment_count"`
}

// # Reading

/*
List returns a page of articles the actor may view, newest first.

Description: The visibility scope is resolved once from the actor's
permission set and pushed into the query, so pagination totals line up
with the visible rows.

Parameters:
  - context: context.Context
  - actor: *perm.Actor (nil for anonymous readers)
  - limit, offset: int

Returns:
  - []Article: Page of articles
  - int: Total viewable count
  - error: Retrieval and permission resolution failures
*/
func (service *Service) List(context context.Context, actor *perm.Actor, limit, offset int) ([]Article, int, error) {
	set, err := service.checker.Resolve(context, actor)
	if err != nil {
		return nil, 0, err
	}

	filter := Filter{}
	switch {
	case set.Has(perm.EditForeignArticle):
		filter.IncludeHidden = true
	case set.Has(perm.EditArticle):
		filter.HiddenAuthor = actor.User
	}

	return service.repo.List(context, filter, limit, offset)
}

/*
Get resolves an id-or-slug identifier to an article with its comment count.

Description: All-digit identifiers are treated as numeric ids, anything
else as a slug. Drafts 404 for readers who could not edit them.

Parameters:
  - context: context.Context
  - actor: *perm.Actor
  - identifier: string (Numeric id or URL slug)

Returns:
  - *Detail: Article plus comment count
  - error: ErrNotFound if missing or not viewable
*/
func (service *Service) Get(context context.Context, actor *perm.Actor, identifier string) (*Detail, error) {
	entry, err := service.find(context, identifier)
	if err != nil {
		return nil, err
	}

	set, err := service.checker.Resolve(context, actor)
	if err != nil {
		return nil, err
	}

	if !entry.ViewableBy(actorName(actor), set) {
		return nil, dberr.ErrNotFound
	}

	count, err := service.repo.CommentCount(context, entry.ID)
	if err != nil {
		return nil, err
	}

	return &Detail{Article: entry, CommentCount: count}, nil
}

func (service *Service) find(context context.Context, identifier string) (*Article, error) {
	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		return service.repo.FindByID(context, id)
	}
	return service.repo.FindByURL(context, identifier)
}

// # Publishing

// SubmitInput carries a new article from the transport layer.
type SubmitInput struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Visible bool   `json:"visible"`
}

/*
Submit validates and persists a new article.

Description: Requires the create-article permission. An empty URL is
derived from the title; a supplied one is checked for characters that
break links.

Parameters:
  - context: context.Context
  - actor: *perm.Actor
  - input: SubmitInput

Returns:
  - *Article: The stored article with id and timestamp
  - error: Unauthorized, Forbidden, validation and persistence failures
*/
func (service *Service) Submit(context context.Context, actor *perm.Actor, input SubmitInput) (*Article, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	allowed, err := service.checker.Allowed(context, actor, perm.CreateArticle)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Forbidden("You may not publish articles")
	}

	url, err := resolveURL(input.Title, input.URL)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required("title", input.Title)
	validator.MaxLen("title", input.Title, maxTitleLength)
	validator.Required("content", input.Content)
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	entry := &Article{
		Title:   input.Title,
		Author:  actor.User,
		URL:     url,
		Content: input.Content,
		Visible: input.Visible,
	}

	if err := service.repo.Insert(context, entry); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "article_submitted",
		slog.Int64("article_id", entry.ID),
		slog.String("author", entry.Author),
		slog.Bool("draft", !entry.Visible),
	)

	return entry, nil
}

/*
Edit applies changes to an existing article after an authorization check.

Parameters:
  - context: context.Context
  - actor: *perm.Actor
  - id: int64
  - changes: Changes

Returns:
  - *Article: The updated article
  - error: Unauthorized, Forbidden, validation and persistence failures
*/
func (service *Service) Edit(context context.Context, actor *perm.Actor, id int64, changes Changes) (*Article, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	entry, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	author := entry.Author
	allowed, err := service.checker.AllowedOnOwned(context, actor, perm.EditForeignArticle, perm.EditArticle, &author)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Forbidden("You may not edit this article")
	}

	url, err := resolveURL(changes.Title, changes.URL)
	if err != nil {
		return nil, err
	}
	changes.URL = url

	validator := &validate.Validator{}
	validator.Required("title", changes.Title)
	validator.MaxLen("title", changes.Title, maxTitleLength)
	validator.Required("content", changes.Content)
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	if err := service.repo.Update(context, id, changes); err != nil {
		return nil, err
	}

	return service.repo.FindByID(context, id)
}

/*
Delete permanently removes an article.

Description: Gated by the same own/foreign pair as editing. Articles with
comments are protected by the foreign key and surface as a conflict.

Parameters:
  - context: context.Context
  - actor: *perm.Actor
  - id: int64

Returns:
  - error: Unauthorized, Forbidden, Conflict, persistence failures
*/
func (service *Service) Delete(context context.Context, actor *perm.Actor, id int64) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}

	entry, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	author := entry.Author
	allowed, err := service.checker.AllowedOnOwned(context, actor, perm.EditForeignArticle, perm.EditArticle, &author)
	if err != nil {
		return err
	}
	if !allowed {
		return apperr.Forbidden("You may not delete this article")
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "article_deleted",
		slog.Int64("article_id", id),
		slog.String("actor", actor.User),
	)

	return nil
}

// resolveURL derives a slug from the title when none is supplied and
// validates hand-picked ones.
func resolveURL(title, url string) (string, error) {
	if url == "" {
		url = slug.From(title)
	}

	validator := &validate.Validator{}
	validator.Required("url", url)
	validator.MaxLen("url", url, maxURLLength)
	validator.Custom("url", !slug.Valid(url), "contains characters that are not allowed in URLs")
	if validator.HasErrors() {
		return "", validator.Err()
	}

	return url, nil
}

// actorName unwraps the username of a possibly anonymous actor.
func actorName(actor *perm.Actor) string {
	if actor == nil {
		return ""
	}
	return actor.User
}
