// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"
)

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Standard registered customer
	RoleUser Role = "USER"

	// Catalogue and account administration
	RoleAdmin Role = "ADMIN"
)

// ParseRole converts a stored or transmitted role name into a [Role].
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleUser, RoleAdmin:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("sec: unknown role %q", raw)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// # Identity

// Identity is the authenticated caller attached to a request context.
// It lives only for the duration of one request.
type Identity struct {
	Subject     string `json:"subject"`
	Role        Role   `json:"role"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Identity resolution failures. Login reports them to the caller; the
// request gate downgrades them to an anonymous request.
var (
	// ErrUnknownIdentity means no account exists for the subject.
	ErrUnknownIdentity = errors.New("sec: unknown identity")

	// ErrAccountDisabled means the account exists but may not authenticate.
	ErrAccountDisabled = errors.New("sec: account disabled")

	// ErrBadCredential means the presented password does not match.
	ErrBadCredential = errors.New("sec: bad credential")
)

// # Authorization

// Decision is the outcome of an authorization check.
type Decision int

const (
	// DenyAnonymous means no identity was attached to the request.
	DenyAnonymous Decision = iota

	// DenyRole means the identity's role is not in the allowed set.
	DenyRole

	// Allow grants access.
	Allow
)

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d == Allow
}

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyRole:
		return "deny_role"
	default:
		return "deny_anonymous"
	}
}

// Authorize decides whether identity may perform an action restricted to
// the allowed roles.
//
// Roles match exactly: ADMIN does not satisfy a USER-only check. Endpoints
// that accept several roles must list each of them.
func Authorize(identity *Identity, allowed ...Role) Decision {
	if identity == nil {
		return DenyAnonymous
	}

	for _, role := range allowed {
		if identity.Role == role {
			return Allow
		}
	}

	return DenyRole
}
