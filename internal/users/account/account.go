// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account provides administrative management of user accounts.

Administrators can page through accounts, look one up by email, and promote
a customer to ADMIN.

# Architecture

  - Entities: This package depends on the auth package for the User entity
    and its repository.
  - Cache: Role changes evict the affected identity from the auth cache.
  - Security: Every endpoint is mounted behind RequireRole(ADMIN).
*/
package account

import (
	"context"
	"strconv"
	"strings"

	"github.com/taibuivan/cinema/internal/platform/sec"
	"github.com/taibuivan/cinema/internal/platform/validate"
	"github.com/taibuivan/cinema/internal/users/auth"
	"github.com/taibuivan/cinema/pkg/pointer"
)

// # Contracts

// IdentityInvalidator evicts cached identities. [*auth.Service] implements it.
type IdentityInvalidator interface {
	Invalidate(context context.Context, emails ...string)
}

// # Query Filters

// Filter query parameter names.
const (
	QueryRole    = "role"
	QueryEnabled = "enabled"
	QueryEmail   = "email"
)

/*
ParseFilter builds an [auth.UserFilter] from raw query values.

Empty values do not filter. Role matching is case-insensitive on input but
exact on the stored value.

Returns:
  - auth.UserFilter: The parsed filter
  - error: VALIDATION_ERROR for an unknown role or a non-boolean enabled flag
*/
func ParseFilter(role, enabled string) (auth.UserFilter, error) {
	var filter auth.UserFilter
	validator := &validate.Validator{}

	if role = strings.TrimSpace(role); role != "" {
		parsed, err := sec.ParseRole(strings.ToUpper(role))
		validator.Custom(QueryRole, err != nil, "Must be one of USER, ADMIN")
		if err == nil {
			filter.Role = pointer.To(parsed)
		}
	}

	if enabled = strings.TrimSpace(enabled); enabled != "" {
		parsed, err := strconv.ParseBool(enabled)
		validator.Custom(QueryEnabled, err != nil, "Must be true or false")
		if err == nil {
			filter.Enabled = pointer.To(parsed)
		}
	}

	if err := validator.Err(); err != nil {
		return auth.UserFilter{}, err
	}
	return filter, nil
}
