// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cinema/internal/platform/database/schema"
	"github.com/taibuivan/cinema/internal/platform/dberr"
	"github.com/taibuivan/cinema/internal/platform/sec"
	"github.com/taibuivan/cinema/pkg/pagination"
)

// resourceUser names the entity in NOT_FOUND and CONFLICT messages.
const resourceUser = "User"

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// selectUserColumns lists the columns in scanUser order.
var selectUserColumns = strings.Join(schema.UserAccount.Columns(), ", ")

// scanUser hydrates a User from a row produced with selectUserColumns.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var role string
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.LastName,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&role,
		&user.Enabled,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role, err = sec.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_role_invalid: %w", err)
	}
	return user, nil
}

/*
FindByEmail retrieves a user record by its unique email address.

Parameters:
  - context: context.Context
  - email: string (normalized)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectUserColumns, schema.UserAccount.Table, schema.UserAccount.Email)

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}

	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: Timestamps are initialized when not provided.

Returns:
  - error: apperr.Conflict on duplicate email, otherwise database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		schema.UserAccount.Table, selectUserColumns)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.LastName,
		user.Email,
		user.Phone,
		user.PasswordHash,
		string(user.Role),
		user.Enabled,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return dberr.Wrap(err, resourceUser)
}

/*
Update persists the profile fields of an existing account.
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7 WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.LastName, schema.UserAccount.Email,
		schema.UserAccount.Phone, schema.UserAccount.PasswordHash, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	user.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(context, query,
		user.ID, user.Username, user.LastName, user.Email, user.Phone, user.PasswordHash, user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, resourceUser)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceUser)
	}

	return nil
}

/*
SetEnabled toggles the enabled flag of an account.
*/
func (repository *PostgresUserRepository) SetEnabled(context context.Context, id string, enabled bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Enabled, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	return repository.execOne(context, query, id, enabled)
}

/*
UpdateRole replaces the role of an account.
*/
func (repository *PostgresUserRepository) UpdateRole(context context.Context, id string, role sec.Role) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Role, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	return repository.execOne(context, query, id, string(role))
}

// execOne runs a single-row UPDATE and maps "no row touched" to NOT_FOUND.
func (repository *PostgresUserRepository) execOne(context context.Context, query string, args ...any) error {
	tag, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, resourceUser)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceUser)
	}
	return nil
}

/*
List returns a page of accounts together with the filtered total.

Parameters:
  - context: context.Context
  - filter: UserFilter (optional role / enabled constraints)
  - page: pagination.Params

Returns:
  - []*User: Accounts on the requested page, oldest first
  - int: Total matching accounts
  - error: Database errors
*/
func (repository *PostgresUserRepository) List(context context.Context, filter UserFilter, page pagination.Params) ([]*User, int, error) {
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 4)

	if filter.Role != nil {
		args = append(args, string(*filter.Role))
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.UserAccount.Role, len(args)))
	}
	if filter.Enabled != nil {
		args = append(args, *filter.Enabled)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", schema.UserAccount.Enabled, len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	// 1. Total count for pagination metadata
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, schema.UserAccount.Table, where)
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceUser)
	}

	// 2. The requested page
	args = append(args, page.Limit, page.Offset())
	listQuery := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s ASC, %s ASC LIMIT $%d OFFSET $%d`,
		selectUserColumns, schema.UserAccount.Table, where,
		schema.UserAccount.CreatedAt, schema.UserAccount.ID, len(args)-1, len(args))

	rows, err := repository.pool.Query(context, listQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceUser)
	}
	defer rows.Close()

	users := make([]*User, 0, page.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceUser)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceUser)
	}

	return users, total, nil
}
