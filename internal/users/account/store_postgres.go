// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cartline/internal/platform/database/schema"
	"github.com/taibuivan/cartline/internal/platform/dberr"
	"github.com/taibuivan/cartline/internal/platform/sec"
	"github.com/taibuivan/cartline/internal/users/auth"
)

// PostgresAccountRepository implements the AccountRepository interface using pgx.
//
// Queries are assembled from the [schema.UserAccount] descriptor rather than
// column literals.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// scanColumns is the SELECT list shared by every read in this repository.
func scanColumns() string {
	t := schema.UserAccount
	return strings.Join([]string{
		t.ID, t.Email, t.Password, t.DisplayName, t.Role,
		t.RefreshTokenHash, t.CreatedAt, t.UpdatedAt,
	}, ", ")
}

func scanUser(row interface{ Scan(...any) error }) (*auth.User, error) {
	user := &auth.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Role,
		&user.RefreshTokenHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *auth.User: Hydrated account entity
  - error: apperr.NotFound or infrastructure errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	t := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		scanColumns(), t.Table, t.ID, t.DeletedAt)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err), "User")
	}

	return user, nil
}

/*
Update persists changes to a user's mutable profile fields.

Description: Synchronizes the in-memory user state with the database,
refreshing the updatedat timestamp.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: Update failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	t := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3
		WHERE %s = $1 AND %s IS NULL`,
		t.Table, t.DisplayName, t.UpdatedAt, t.ID, t.DeletedAt)

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query, user.ID, user.DisplayName, user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_account_repo_update_failed: %w", err), "User")
	}

	return nil
}

/*
List returns a page of accounts ordered by creation time, newest first.

Description: Two-query strategy: a total count for pagination metadata,
then the page itself. Soft-deleted accounts are excluded from both.

Parameters:
  - context: context.Context
  - offset: int
  - limit: int

Returns:
  - []auth.User: Page of accounts
  - int: Total account count
  - error: Retrieval errors
*/
func (repository *PostgresAccountRepository) List(context context.Context, offset, limit int) ([]auth.User, int, error) {
	t := schema.UserAccount

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s IS NULL", t.Table, t.DeletedAt)
	total := 0
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_account_repo_count_failed: %w", err), "User")
	}

	pageQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s IS NULL
		ORDER BY %s DESC
		OFFSET $1 LIMIT $2`,
		scanColumns(), t.Table, t.DeletedAt, t.CreatedAt)

	rows, err := repository.pool.Query(context, pageQuery, offset, limit)
	if err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_account_repo_list_failed: %w", err), "User")
	}
	defer rows.Close()

	var users []auth.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(fmt.Errorf("postgres_account_repo_scan_failed: %w", err), "User")
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_account_repo_rows_failed: %w", err), "User")
	}

	return users, total, nil
}

/*
UpdateRole changes a user's role.

Parameters:
  - context: context.Context
  - userID: string
  - role: sec.Role

Returns:
  - error: Execution failures
*/
func (repository *PostgresAccountRepository) UpdateRole(context context.Context, userID string, role sec.Role) error {
	t := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3
		WHERE %s = $1 AND %s IS NULL`,
		t.Table, t.Role, t.UpdatedAt, t.ID, t.DeletedAt)

	_, err := repository.pool.Exec(context, query, userID, role, time.Now())
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_account_repo_update_role_failed: %w", err), "User")
	}

	return nil
}

/*
SoftDelete marks a user account as deleted using their ID.

Description: Retention-friendly deletion by setting deletedat. The row stays
for audit history but disappears from every read path.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Side-effect failures
*/
func (repository *PostgresAccountRepository) SoftDelete(context context.Context, id string) error {
	t := schema.UserAccount
	query := fmt.Sprintf("UPDATE %s SET %s = $2 WHERE %s = $1", t.Table, t.DeletedAt, t.ID)

	_, err := repository.pool.Exec(context, query, id, time.Now())
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_account_repo_soft_delete_failed: %w", err), "User")
	}
	return nil
}
