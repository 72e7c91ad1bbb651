// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user profile management and account administration.

It provides functionalities for users to view and update their own identity
data, and for administrators to list accounts, assign roles, and retire
accounts.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Security: Role assignment is the only write path to a user's role.
*/
package account

import (
	"context"

	"github.com/taibuivan/cartline/internal/platform/sec"
	"github.com/taibuivan/cartline/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for account management.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUIDv7)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		Update modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		List returns a page of accounts ordered by creation time, newest
		first, together with the total account count.

		Parameters:
		  - context: context.Context
		  - offset: int
		  - limit: int

		Returns:
		  - []auth.User: Page of accounts
		  - int: Total number of accounts
		  - error: Retrieval errors
	*/
	List(context context.Context, offset, limit int) ([]auth.User, int, error)

	/*
		UpdateRole changes a user's role.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - role: sec.Role

		Returns:
		  - error: Execution failures
	*/
	UpdateRole(context context.Context, userID string, role sec.Role) error

	/*
		SoftDelete flags an account as logically deleted.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	SoftDelete(context context.Context, id string) error
}
