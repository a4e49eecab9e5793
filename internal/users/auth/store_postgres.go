// Copyright (c) 2026 Mogger. All rights reserved.

package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amandag/mogger/internal/platform/dberr"
)

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

// NewPostgresUserRepository constructs a PostgreSQL backed user store.
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// "group" needs quoting in every query, it is a reserved word in SQL.
const userColumns = `id, hash, salt, name, email, "group", rehash`

/*
Find retrieves a single account record by its username.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *User: Hydrated entity
  - error: dberr.ErrNotFound or database retrieval failures
*/
func (repository *PostgresUserRepository) Find(context context.Context, id string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	user := &User{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Hash,
		&user.Salt,
		&user.Name,
		&user.Email,
		&user.Group,
		&user.Rehash,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_user")
	}

	return user, nil
}

/*
Create inserts a new account row.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Conflict on duplicate username, or persistence failures
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := repository.db.Exec(context, query,
		user.ID,
		user.Hash,
		user.Salt,
		user.Name,
		user.Email,
		user.Group,
		user.Rehash,
	)
	if err != nil {
		return dberr.Wrap(err, "create_user")
	}

	return nil
}

/*
Update persists changes to the mutable profile fields.

Description: The hash, salt, and rehash columns are deliberately excluded.
Password changes go through [UpdatePassword].

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: dberr.ErrNotFound or persistence failures
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	const query = `
		UPDATE users
		SET name = $2, email = $3, "group" = $4
		WHERE id = $1
	`
	tag, err := repository.db.Exec(context, query, user.ID, user.Name, user.Email, user.Group)
	if err != nil {
		return dberr.Wrap(err, "update_user")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
UpdatePassword replaces the hash and salt and clears the rehash flag.

Parameters:
  - context: context.Context
  - userID: string
  - hash: string
  - salt: []byte

Returns:
  - error: dberr.ErrNotFound or persistence failures
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, hash string, salt []byte) error {
	const query = `
		UPDATE users
		SET hash = $2, salt = $3, rehash = FALSE
		WHERE id = $1
	`
	tag, err := repository.db.Exec(context, query, userID, hash, salt)
	if err != nil {
		return dberr.Wrap(err, "update_password")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
Delete permanently removes the account row.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: dberr.ErrNotFound or persistence failures
*/
func (repository *PostgresUserRepository) Delete(context context.Context, id string) error {
	const query = `
		DELETE FROM users
		WHERE id = $1
	`
	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_user")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
Count returns the total number of registered accounts.

Parameters:
  - context: context.Context

Returns:
  - int64: Number of accounts
  - error: Database retrieval failures
*/
func (repository *PostgresUserRepository) Count(context context.Context) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM users
	`
	var total int64
	if err := repository.db.QueryRow(context, query).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_users")
	}

	return total, nil
}
