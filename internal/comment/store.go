// Copyright (c) 2026 Mogger. All rights reserved.

package comment

import "context"

// # Comment Data Access

// Repository defines the data access contract for comments.
type Repository interface {

	/*
		ListByArticle returns every comment on an article, hidden ones
		included, ordered by id.

		Parameters:
		  - context: context.Context
		  - articleID: int64

		Returns:
		  - []Comment: Flat comment list in submission order
		  - error: Database retrieval failures
	*/
	ListByArticle(context context.Context, articleID int64) ([]Comment, error)

	/*
		Find retrieves a single comment by its id.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Comment: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	Find(context context.Context, id int64) (*Comment, error)

	/*
		Insert persists a new comment and fills in its generated id and
		submission timestamp.

		Parameters:
		  - context: context.Context
		  - comment: *Comment

		Returns:
		  - error: Persistence failures
	*/
	Insert(context context.Context, comment *Comment) error

	/*
		Update applies the given changes to an existing comment.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - changes: Changes

		Returns:
		  - error: ErrNotFound if missing, persistence failures
	*/
	Update(context context.Context, id int64, changes Changes) error

	/*
		SetVisible flips the visibility flag without touching content.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - visible: bool

		Returns:
		  - error: ErrNotFound if missing, persistence failures
	*/
	SetVisible(context context.Context, id int64, visible bool) error

	/*
		Purge permanently deletes a comment row. Callers must verify the
		comment has no direct replies first.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: ErrNotFound if missing, persistence failures
	*/
	Purge(context context.Context, id int64) error

	/*
		CountChildren returns the number of direct replies to a comment.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - int: Direct reply count
		  - error: Database retrieval failures
	*/
	CountChildren(context context.Context, id int64) (int, error)

	/*
		ListByAuthor returns all comments submitted by a user, ordered by id.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []Comment: The user's comments
		  - error: Database retrieval failures
	*/
	ListByAuthor(context context.Context, userID string) ([]Comment, error)

	/*
		AnonymizeByAuthor clears the author reference on all of a user's
		comments in a single statement, used during account deletion. With
		purgeContent the comment bodies are blanked and hidden as well.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - purgeContent: bool

		Returns:
		  - int64: Number of comments anonymized
		  - error: Persistence failures
	*/
	AnonymizeByAuthor(context context.Context, userID string, purgeContent bool) (int64, error)
}
