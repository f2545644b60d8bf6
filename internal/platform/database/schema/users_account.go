// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns used by the PostgreSQL repositories.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	Username     string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string
	Role         string
	Enabled      string
	CreatedAt    string
	UpdatedAt    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Username:     "username",
	LastName:     "lastname",
	Email:        "email",
	Phone:        "phone",
	PasswordHash: "passwordhash",
	Role:         "role",
	Enabled:      "enabled",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.LastName, t.Email, t.Phone, t.PasswordHash,
		t.Role, t.Enabled, t.CreatedAt, t.UpdatedAt,
	}
}
