// Copyright (c) 2026 Mogger. All rights reserved.

package perm

import "context"

// # Permission Data Access

// Repository defines the data access contract for groups and memberships.
type Repository interface {

	/*
		FindByID retrieves a group by its name.

		Parameters:
		  - context: context.Context
		  - id: string (Group name, e.g. "admin")

		Returns:
		  - *Group: Hydrated entity with its permission set
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Group, error)

	/*
		GroupOfUser returns the group name a user is assigned to.

		Parameters:
		  - context: context.Context
		  - userID: string (Username)

		Returns:
		  - string: Group name
		  - error: ErrNotFound if the user does not exist
	*/
	GroupOfUser(context context.Context, userID string) (string, error)

	/*
		List returns all defined groups.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Group: All groups in name order
		  - error: Database retrieval failures
	*/
	List(context context.Context) ([]*Group, error)
}
