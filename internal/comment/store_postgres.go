// Copyright (c) 2026 Mogger. All rights reserved.

package comment

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amandag/mogger/internal/platform/dberr"
	"github.com/amandag/mogger/pkg/unixtime"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed comment store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const commentColumns = `id, parent, article, author, name, content, date, visible`

// # Comment Retrieval

/*
ListByArticle returns every comment on an article ordered by id.

Description: Serial ids increase with submission time, so id order doubles
as chronological order and keeps tree reconstruction deterministic.

Parameters:
  - context: context.Context
  - articleID: int64

Returns:
  - []Comment: Flat comment list
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListByArticle(context context.Context, articleID int64) ([]Comment, error) {
	const query = `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE article = $1
		ORDER BY id ASC
	`
	rows, err := repository.db.Query(context, query, articleID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	return scanComments(rows)
}

/*
Find retrieves a single comment by id.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Comment: Hydrated entity
  - error: ErrNotFound if missing
*/
func (repository *PostgresRepository) Find(context context.Context, id int64) (*Comment, error) {
	const query = `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE id = $1
	`
	entry := &Comment{}
	var date time.Time
	err := repository.db.QueryRow(context, query, id).Scan(
		&entry.ID, &entry.Parent, &entry.Article, &entry.Author,
		&entry.Name, &entry.Content, &date, &entry.Visible,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_comment")
	}

	entry.Date = unixtime.Time(date)
	return entry, nil
}

/*
ListByAuthor returns all comments submitted by a user ordered by id.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []Comment: The user's comments
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListByAuthor(context context.Context, userID string) ([]Comment, error) {
	const query = `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE author = $1
		ORDER BY id ASC
	`
	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_comments_by_author")
	}
	defer rows.Close()

	return scanComments(rows)
}

/*
CountChildren returns the number of direct replies to a comment.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - int: Direct reply count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) CountChildren(context context.Context, id int64) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM comments
		WHERE parent = $1
	`
	var count int
	if err := repository.db.QueryRow(context, query, id).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_comment_children")
	}

	return count, nil
}

// # Comment Mutation

/*
Insert persists a new comment and backfills the generated id and timestamp.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Insert(context context.Context, comment *Comment) error {
	const query = `
		INSERT INTO comments (parent, article, author, name, content, visible)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, date
	`
	var date time.Time
	err := repository.db.QueryRow(context, query,
		comment.Parent, comment.Article, comment.Author,
		comment.Name, comment.Content, comment.Visible,
	).Scan(&comment.ID, &date)
	if err != nil {
		return dberr.Wrap(err, "insert_comment")
	}

	comment.Date = unixtime.Time(date)
	return nil
}

/*
Update applies edit changes to an existing comment.

Parameters:
  - context: context.Context
  - id: int64
  - changes: Changes

Returns:
  - error: ErrNotFound if missing, persistence failures
*/
func (repository *PostgresRepository) Update(context context.Context, id int64, changes Changes) error {
	const query = `
		UPDATE comments
		SET name = $2, content = $3, visible = $4
		WHERE id = $1
	`
	tag, err := repository.db.Exec(context, query, id, changes.Name, changes.Content, changes.Visible)
	if err != nil {
		return dberr.Wrap(err, "update_comment")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
SetVisible flips the visibility flag of a comment.

Parameters:
  - context: context.Context
  - id: int64
  - visible: bool

Returns:
  - error: ErrNotFound if missing, persistence failures
*/
func (repository *PostgresRepository) SetVisible(context context.Context, id int64, visible bool) error {
	const query = `
		UPDATE comments
		SET visible = $2
		WHERE id = $1
	`
	tag, err := repository.db.Exec(context, query, id, visible)
	if err != nil {
		return dberr.Wrap(err, "set_comment_visibility")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
Purge permanently deletes a comment row.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: ErrNotFound if missing, persistence failures
*/
func (repository *PostgresRepository) Purge(context context.Context, id int64) error {
	const query = `
		DELETE FROM comments
		WHERE id = $1
	`
	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "purge_comment")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
AnonymizeByAuthor detaches all of a user's comments in one statement.

Description: Runs as a single UPDATE so account deletion never leaves a
half-anonymized comment history behind. The author reference is cleared
and the display name replaced; with purgeContent the comment bodies are
blanked and hidden as well.

Parameters:
  - context: context.Context
  - userID: string
  - purgeContent: bool

Returns:
  - int64: Number of comments anonymized
  - error: Persistence failures
*/
func (repository *PostgresRepository) AnonymizeByAuthor(context context.Context, userID string, purgeContent bool) (int64, error) {
	const query = `
		UPDATE comments
		SET author = NULL,
		    name = '[deleted]',
		    content = CASE WHEN $2 THEN '' ELSE content END,
		    visible = CASE WHEN $2 THEN FALSE ELSE visible END
		WHERE author = $1
	`
	tag, err := repository.db.Exec(context, query, userID, purgeContent)
	if err != nil {
		return 0, dberr.Wrap(err, "anonymize_comments")
	}

	return tag.RowsAffected(), nil
}

// scanComments drains a row set into a comment slice.
func scanComments(rows pgx.Rows) ([]Comment, error) {
	comments := []Comment{}
	for rows.Next() {
		entry := Comment{}
		var date time.Time
		err := rows.Scan(
			&entry.ID, &entry.Parent, &entry.Article, &entry.Author,
			&entry.Name, &entry.Content, &date, &entry.Visible,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_comment")
		}
		entry.Date = unixtime.Time(date)
		comments = append(comments, entry)
	}

	return comments, rows.Err()
}
