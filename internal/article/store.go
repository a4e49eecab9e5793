// Copyright (c) 2026 Mogger. All rights reserved.

package article

import "context"

// # Article Data Access

// Filter narrows article listings according to what the reader may view.
type Filter struct {
	// IncludeHidden lifts the visibility restriction entirely.
	IncludeHidden bool
	// HiddenAuthor additionally admits drafts by this author.
	HiddenAuthor string
}

// Repository defines the data access contract for articles.
type Repository interface {

	/*
		List returns a page of articles newest-first and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Visibility scope for this reader)
		  - limit: int
		  - offset: int

		Returns:
		  - []Article: Page of articles in date-descending order
		  - int: Total matching count
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]Article, int, error)

	/*
		FindByID retrieves an article by its numeric id.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Article: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id int64) (*Article, error)

	/*
		FindByURL retrieves an article by its pretty slug.

		Parameters:
		  - context: context.Context
		  - url: string

		Returns:
		  - *Article: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindByURL(context context.Context, url string) (*Article, error)

	/*
		Insert persists a new article and fills in its generated id and
		publication timestamp.

		Parameters:
		  - context: context.Context
		  - article: *Article

		Returns:
		  - error: Conflict on duplicate slugs, persistence failures
	*/
	Insert(context context.Context, article *Article) error

	/*
		Update applies the given changes to an existing article.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - changes: Changes

		Returns:
		  - error: ErrNotFound if missing, persistence failures
	*/
	Update(context context.Context, id int64, changes Changes) error

	/*
		Delete permanently removes an article row.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - error: ErrNotFound if missing, Conflict while comments
		    still reference it
	*/
	Delete(context context.Context, id int64) error

	/*
		CommentCount returns the number of comments on an article.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - int64: Comment count, hidden comments included
		  - error: Database retrieval failures
	*/
	CommentCount(context context.Context, id int64) (int64, error)
}
