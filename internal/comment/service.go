// Copyright (c) 2026 Mogger. All rights reserved.

package comment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amandag/mogger/internal/perm"
	"github.com/amandag/mogger/internal/platform/apperr"
	"github.com/amandag/mogger/internal/platform/dberr"
	"github.com/amandag/mogger/internal/platform/markdown"
	"github.com/amandag/mogger/internal/platform/validate"
)

// Input bounds for submitted comments.
const (
	maxContentLength   = 16000
	maxGuestNameLength = 40
)

// # Service Layer

// Service orchestrates threading, moderation, and visibility for comments.
type Service struct {
	repo          Repository
	checker       *perm.Checker
	guestComments bool
	logger        *slog.Logger
}

// NewService constructs a new comment [Service].
//
// guestComments toggles whether unauthenticated visitors may submit.
func NewService(repo Repository, checker *perm.Checker, guestComments bool, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		checker:       checker,
		guestComments: guestComments,
		logger:        logger,
	}
}

// # Tree Queries

/*
GetTree returns an article's full discussion as a forest of reply trees.

Description: The forest is built from the complete flat list and pruned for
the requesting actor afterwards. A hidden comment disappears together with
its replies unless the actor could edit it.

Parameters:
  - context: context.Context
  - actor: *perm.Actor (nil for anonymous readers)
  - articleID: int64

Returns:
  - []Node: Visible reply trees in submission order
  - error: Retrieval and permission resolution failures
*/
func (service *Service) GetTree(context context.Context, actor *perm.Actor, articleID int64) ([]Node, error) {
	flat, err := service.repo.ListByArticle(context, articleID)
	if err != nil {
		return nil, err
	}

	set, err := service.checker.Resolve(context, actor)
	if err != nil {
		return nil, err
	}

	return PruneForest(BuildForest(flat), actorName(actor), set), nil
}

/*
GetContext returns the subtree around a comment for "view in thread" links.

Description: Ascends the reply chain depth levels from the target, then
expands everything below the ancestor it lands on. The walk runs on the
unfiltered list and only the final tree is pruned, so a hidden intermediate
comment still anchors the chain it sits in.

Parameters:
  - context: context.Context
  - actor: *perm.Actor
  - id: int64 (Target comment)
  - depth: int (Number of ancestor levels to ascend)

Returns:
  - *Node: The contextual subtree
  - error: ErrNotFound if the target is missing, the chain is broken, or
    nothing in the result is viewable
*/
func (service *Service) GetContext(context context.Context, actor *perm.Actor, id int64, depth int) (*Node, error) {
	target, err := service.repo.Find(context, id)
	if err != nil {
		return nil, err
	}

	flat, err := service.repo.ListByArticle(context, target.Article)
	if err != nil {
		return nil, err
	}

	node := ContextView(flat, id, depth)
	if node == nil {
		return nil, dberr.ErrNotFound
	}

	set, err := service.checker.Resolve(context, actor)
	if err != nil {
		return nil, err
	}

	if pruned := PruneNode(node, actorName(actor), set); pruned != nil {
		return pruned, nil
	}
	return nil, dberr.ErrNotFound
}

/*
GetSingle returns one comment without its replies.

Parameters:
  - context: context.Context
  - actor: *perm.Actor
  - id: int64

Returns:
  - *Comment: The comment
  - error: ErrNotFound if missing or not viewable by this actor
*/
func (service *Service) GetSingle(context context.Context, actor *perm.Actor, id int64) (*Comment, error) {
	entry, err := service.repo.Find(context, id)
	if err != nil {
		return nil, err
	}

	set, err := service.checker.Resolve(context, actor)
	if err != nil {
		return nil, err
	}

	// Hidden comments 404 rather than 403, their existence is not disclosed
	if !entry.ViewableBy(actorName(actor), set) {
		return nil, dberr.ErrNotFound
	}

	return entry, nil
}

/*
ListByUser returns the comment history of a single author.

Parameters:
  - context: context.Context
  - actor: *perm.Actor (The reader, not the author)
  - userID: string (The author)

Returns:
  - []Comment: The author's comments viewable by the actor
  - error: Retrieval failures
*/
func (service *Service) ListByUser(context context.Context, actor *perm.Actor, userID string) ([]Comment, error) {
	flat, err := service.repo.ListByAuthor(context, userID)
	if err != nil {
		return nil, err
	}

	set, err := service.checker.Resolve(context, actor)
	if err != nil {
		return nil, err
	}

	viewable := []Comment{}
	for _, entry := range flat {
		if entry.ViewableBy(actorName(actor), set) {
			viewable = append(viewable, entry)
		}
	}

	return viewable, nil
}

// # Submission & Moderation

// SubmitInput carries a new comment from the transport layer.
type SubmitInput struct {
	Article int64   `json:"article"`
	Parent  *int64  `json:"parent"`
	Name    *string `json:"name"`
	Content string  `json:"content"`
}

/*
Submit validates and persists a new comment.

Description: Authenticated users comment under their username and any
submitted display name is discarded. Guests comment under a display name,
and only while the guest comment feature is enabled. Replies must target a
comment on the same article.

Parameters:
  - context: context.Context
  - actor: *perm.Actor (nil for guest submissions)
  - input: SubmitInput

Returns:
  - *Comment: The stored comment with id and timestamp
  - error: Validation, feature, and persistence failures
*/
func (service *Service) Submit(context context.Context, actor *perm.Actor, input SubmitInput) (*Comment, error) {
	validator := &validate.Validator{}
	validator.Required("content", input.Content)
	validator.MaxLen("content", input.Content, maxContentLength)

	entry := &Comment{
		Parent:  input.Parent,
		Article: input.Article,
		Content: input.Content,
		Visible: true,
	}

	// 1. Establish identity
	if actor != nil {
		author := actor.User
		entry.Author = &author
	} else {
		if !service.guestComments {
			return nil, apperr.Unauthorized("Guest comments are disabled")
		}
		if input.Name == nil || *input.Name == "" {
			validator.Required("name", "")
		} else {
			validator.MaxLen("name", *input.Name, maxGuestNameLength)
			entry.Name = input.Name
		}
	}

	if validator.HasErrors() {
		return nil, validator.Err()
	}

	// 2. Replies must stay inside their article's thread
	if input.Parent != nil {
		parent, err := service.repo.Find(context, *input.Parent)
		if err != nil {
			if errors.Is(err, dberr.ErrNotFound) {
				return nil, apperr.Unprocessable("Parent comment does not exist")
			}
			return nil, err
		}
		if parent.Article != input.Article {
			return nil, apperr.Unprocessable("Parent comment belongs to a different article")
		}
	}

	// 3. Persist
	if err := service.repo.Insert(context, entry); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_submitted",
		slog.Int64("comment_id", entry.ID),
		slog.Int64("article_id", entry.Article),
		slog.Bool("guest", entry.Author == nil),
	)

	return entry, nil
}

/*
Edit applies changes to an existing comment after an authorization check.

Parameters:
  - context: context.Context
  - actor: *perm.Actor
  - id: int64
  - changes: Changes

Returns:
  - *Comment: The updated comment
  - error: Unauthorized for guests, Forbidden when the gate refuses,
    validation and persistence failures
*/
func (service *Service) Edit(context context.Context, actor *perm.Actor, id int64, changes Changes) (*Comment, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	validator := &validate.Validator{}
	validator.Required("content", changes.Content)
	validator.MaxLen("content", changes.Content, maxContentLength)
	if changes.Name != nil {
		validator.MaxLen("name", *changes.Name, maxGuestNameLength)
	}
	if validator.HasErrors() {
		return nil, validator.Err()
	}

	entry, err := service.repo.Find(context, id)
	if err != nil {
		return nil, err
	}

	allowed, err := service.checker.AllowedOnOwned(context, actor, perm.EditForeignComment, perm.EditComment, entry.Author)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.Forbidden("You may not edit this comment")
	}

	if err := service.repo.Update(context, id, changes); err != nil {
		return nil, err
	}

	return service.repo.Find(context, id)
}

/*
Hide soft-deletes a comment by clearing its visibility flag.

Description: The row and its replies survive. The comment stops rendering
for regular readers but stays reachable for users who could edit it.

Parameters:
  - context: context.Context
  - actor: *perm.Actor
  - id: int64

Returns:
  - error: Unauthorized, Forbidden, ErrNotFound, persistence failures
*/
func (service *Service) Hide(context context.Context, actor *perm.Actor, id int64) error {
	return service.setVisibility(context, actor, id, false)
}

/*
Restore reverses a soft delete.

Parameters:
  - context: context.Context
  - actor: *perm.Actor
  - id: int64

Returns:
  - error: Unauthorized, Forbidden, ErrNotFound, persistence failures
*/
func (service *Service) Restore(context context.Context, actor *perm.Actor, id int64) error {
	return service.setVisibility(context, actor, id, true)
}

func (service *Service) setVisibility(context context.Context, actor *perm.Actor, id int64, visible bool) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}

	entry, err := service.repo.Find(context, id)
	if err != nil {
		return err
	}

	allowed, err := service.checker.AllowedOnOwned(context, actor, perm.DeleteForeignComment, perm.DeleteComment, entry.Author)
	if err != nil {
		return err
	}
	if !allowed {
		return apperr.Forbidden("You may not moderate this comment")
	}

	return service.repo.SetVisible(context, id, visible)
}

/*
Purge permanently removes a comment row.

Description: Refused while the comment still has direct replies, purging a
parent would orphan its subtree. Replies must be purged leaf-first.

Parameters:
  - context: context.Context
  - actor: *perm.Actor
  - id: int64

Returns:
  - error: HasChildren when replies exist, Unauthorized, Forbidden,
    ErrNotFound, persistence failures
*/
func (service *Service) Purge(context context.Context, actor *perm.Actor, id int64) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}

	entry, err := service.repo.Find(context, id)
	if err != nil {
		return err
	}

	allowed, err := service.checker.AllowedOnOwned(context, actor, perm.DeleteForeignComment, perm.DeleteComment, entry.Author)
	if err != nil {
		return err
	}
	if !allowed {
		return apperr.Forbidden("You may not purge this comment")
	}

	childCount, err := service.repo.CountChildren(context, id)
	if err != nil {
		return err
	}
	if childCount > 0 {
		return apperr.HasChildren()
	}

	if err := service.repo.Purge(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "comment_purged",
		slog.Int64("comment_id", id),
		slog.String("actor", actor.User),
	)

	return nil
}

// # Rendering

// RenderHTML converts comment markdown into sanitized HTML markup.
func (service *Service) RenderHTML(content string) string {
	return markdown.Render(content)
}

// actorName unwraps the username of a possibly anonymous actor.
func actorName(actor *perm.Actor) string {
	if actor == nil {
		return ""
	}
	return actor.User
}
