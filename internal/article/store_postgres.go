// Copyright (c) 2026 Mogger. All rights reserved.

package article

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amandag/mogger/internal/platform/dberr"
	"github.com/amandag/mogger/pkg/unixtime"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed article store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const articleColumns = `id, title, author, url, content, date, visible`

// # Article Retrieval

/*
List returns a page of articles newest-first.

Description: Visibility filtering happens in SQL so the total count in the
pagination metadata matches what the reader can actually see.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []Article: Page of articles
  - int: Total matching count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]Article, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT ` + articleColumns + `,
			COUNT(*) OVER() as total
		FROM articles
	`)

	args := []any{}
	argID := 1

	if !filter.IncludeHidden {
		if filter.HiddenAuthor != "" {
			queryBuilder.WriteString(fmt.Sprintf(" WHERE (visible OR author = $%d)", argID))
			args = append(args, filter.HiddenAuthor)
			argID++
		} else {
			queryBuilder.WriteString(" WHERE visible")
		}
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_articles")
	}
	defer rows.Close()

	articles := []Article{}
	var total int
	for rows.Next() {
		entry := Article{}
		var date time.Time
		err := rows.Scan(
			&entry.ID, &entry.Title, &entry.Author, &entry.URL,
			&entry.Content, &date, &entry.Visible, &total,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_article")
		}
		entry.Date = unixtime.Time(date)
		articles = append(articles, entry)
	}

	return articles, total, rows.Err()
}

/*
FindByID retrieves an article by its numeric id.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Article: Hydrated entity
  - error: ErrNotFound if missing
*/
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Article, error) {
	const query = `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE id = $1
	`
	return repository.findOne(context, query, id)
}

/*
FindByURL retrieves an article by its pretty slug.

Parameters:
  - context: context.Context
  - url: string

Returns:
  - *Article: Hydrated entity
  - error: ErrNotFound if missing
*/
func (repository *PostgresRepository) FindByURL(context context.Context, url string) (*Article, error) {
	const query = `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE url = $1
	`
	return repository.findOne(context, query, url)
}

func (repository *PostgresRepository) findOne(context context.Context, query string, argument any) (*Article, error) {
	entry := &Article{}
	var date time.Time
	err := repository.db.QueryRow(context, query, argument).Scan(
		&entry.ID, &entry.Title, &entry.Author, &entry.URL,
		&entry.Content, &date, &entry.Visible,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_article")
	}

	entry.Date = unixtime.Time(date)
	return entry, nil
}

/*
CommentCount returns the number of comments on an article.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - int64: Comment count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) CommentCount(context context.Context, id int64) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM comments
		WHERE article = $1
	`
	var count int64
	if err := repository.db.QueryRow(context, query, id).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_article_comments")
	}

	return count, nil
}

// # Article Mutation

/*
Insert persists a new article and backfills the generated id and timestamp.

Parameters:
  - context: context.Context
  - article: *Article

Returns:
  - error: Conflict on duplicate slugs, persistence failures
*/
func (repository *PostgresRepository) Insert(context context.Context, article *Article) error {
	const query = `
		INSERT INTO articles (title, author, url, content, visible)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, date
	`
	var date time.Time
	err := repository.db.QueryRow(context, query,
		article.Title, article.Author, article.URL, article.Content, article.Visible,
	).Scan(&article.ID, &date)
	if err != nil {
		return dberr.Wrap(err, "insert_article")
	}

	article.Date = unixtime.Time(date)
	return nil
}

/*
Update applies edit changes to an existing article.

Parameters:
  - context: context.Context
  - id: int64
  - changes: Changes

Returns:
  - error: ErrNotFound if missing, persistence failures
*/
func (repository *PostgresRepository) Update(context context.Context, id int64, changes Changes) error {
	const query = `
		UPDATE articles
		SET title = $2, url = $3, content = $4, visible = $5
		WHERE id = $1
	`
	tag, err := repository.db.Exec(context, query, id, changes.Title, changes.URL, changes.Content, changes.Visible)
	if err != nil {
		return dberr.Wrap(err, "update_article")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
Delete permanently removes an article row.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - error: ErrNotFound if missing, Conflict while comments reference it
*/
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	const query = `
		DELETE FROM articles
		WHERE id = $1
	`
	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_article")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}
