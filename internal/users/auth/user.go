// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account registration, login and per-request identity resolution.

# Architecture

  - Service: Register, Login, ResolveIdentity and self-service profile changes.
  - Repository: [UserRepository] (PostgreSQL) and [IdentityCache] (Redis).
  - Security: bcrypt via [sec.PasswordHasher] and HS256 tokens via [sec.TokenCodec].

Tokens are never stored. A session is the signed token alone; it dies when its
expiry passes.
*/
package auth

import (
	"strings"
	"time"

	"github.com/taibuivan/cinema/internal/platform/sec"
)

// # Domain Entities

// User represents a registered cinema customer or administrator.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         sec.Role  `json:"role"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName joins the first and last name.
func (user *User) DisplayName() string {
	return strings.TrimSpace(user.Username + " " + user.LastName)
}

// Account is the slice of a [User] needed to authenticate a request.
// It is what the identity cache stores.
type Account struct {
	Email       string   `json:"email"`
	Role        sec.Role `json:"role"`
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	Enabled     bool     `json:"enabled"`
}

// Account projects the user onto its cacheable authentication record.
func (user *User) Account() *Account {
	return &Account{
		Email:       user.Email,
		Role:        user.Role,
		Username:    user.Username,
		DisplayName: user.DisplayName(),
		Enabled:     user.Enabled,
	}
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// # Field Identifiers

// Field names used in validation errors.
const (
	FieldUsername = "username"
	FieldLastName = "last_name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldPassword = "password"
)

// # Field Constraints

const (
	NameMinLen     = 3
	NameMaxLen     = 50
	EmailMaxLen    = 100
	PhoneMinLen    = 10
	PhoneMaxLen    = 15
	PasswordMinLen = 8
)
