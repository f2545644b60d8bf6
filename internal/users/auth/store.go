// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/cinema/internal/platform/sec"
	"github.com/taibuivan/cinema/pkg/pagination"
)

// # User Data Access

// UserFilter narrows [UserRepository.List]. Nil fields do not filter.
type UserFilter struct {
	Role    *sec.Role
	Enabled *bool
}

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByEmail returns the account with the given (normalized) email.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound when absent, otherwise storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account.

		Returns:
		  - error: apperr.Conflict on duplicate email, otherwise storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists the mutable profile fields (names, email, phone, password hash).
	*/
	Update(context context.Context, user *User) error

	/*
		SetEnabled toggles whether the account may authenticate.
	*/
	SetEnabled(context context.Context, id string, enabled bool) error

	/*
		UpdateRole replaces the account's role.
	*/
	UpdateRole(context context.Context, id string, role sec.Role) error

	/*
		List returns one page of accounts ordered by creation time, plus the
		total number of accounts matching filter.
	*/
	List(context context.Context, filter UserFilter, page pagination.Params) ([]*User, int, error)
}

// # Volatile Data Access

// IdentityCache stores [Account] records keyed by email so the request gate
// avoids a database round trip on every authenticated call.
type IdentityCache interface {

	// Get returns (nil, nil) on a miss.
	Get(context context.Context, email string) (*Account, error)

	// Set stores account for ttl, replacing any existing entry.
	Set(context context.Context, account *Account, ttl time.Duration) error

	// Add stores account only when no entry exists and reports whether it did.
	// Read-through fills use it so they never overwrite a newer record.
	Add(context context.Context, account *Account, ttl time.Duration) (bool, error)

	// Delete evicts every listed email. Missing keys are not an error.
	Delete(context context.Context, emails ...string) error
}
