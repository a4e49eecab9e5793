// Copyright (c) 2026 Mogger. All rights reserved.

package perm

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amandag/mogger/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed group store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Group Retrieval

/*
FindByID retrieves a single group record by its name.

Description: Permissions are stored as a text[] column and scanned straight
into the [Set] slice.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Group: Hydrated entity
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Group, error) {
	const query = `
		SELECT id, permissions
		FROM groups
		WHERE id = $1
	`
	group := &Group{}
	var tokens []string
	err := repository.db.QueryRow(context, query, id).Scan(&group.ID, &tokens)
	if err != nil {
		return nil, dberr.Wrap(err, "find_group")
	}

	group.Permissions = make(Set, len(tokens))
	for index, token := range tokens {
		group.Permissions[index] = Permission(token)
	}

	return group, nil
}

/*
GroupOfUser returns the group name a user is assigned to.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - string: Group name
  - error: ErrNotFound if the user does not exist
*/
func (repository *PostgresRepository) GroupOfUser(context context.Context, userID string) (string, error) {
	// "group" needs quoting, it is a reserved word in SQL.
	const query = `
		SELECT "group"
		FROM users
		WHERE id = $1
	`
	var groupID string
	if err := repository.db.QueryRow(context, query, userID).Scan(&groupID); err != nil {
		return "", dberr.Wrap(err, "find_user_group")
	}

	return groupID, nil
}

/*
List returns all defined groups in name order.

Parameters:
  - context: context.Context

Returns:
  - []*Group: All groups
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context) ([]*Group, error) {
	const query = `
		SELECT id, permissions
		FROM groups
		ORDER BY id ASC
	`
	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_groups")
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group := &Group{}
		var tokens []string
		if err := rows.Scan(&group.ID, &tokens); err != nil {
			return nil, dberr.Wrap(err, "scan_group")
		}

		group.Permissions = make(Set, len(tokens))
		for index, token := range tokens {
			group.Permissions[index] = Permission(token)
		}
		groups = append(groups, group)
	}

	return groups, rows.Err()
}
