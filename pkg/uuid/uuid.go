// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid issues the time-ordered (version 7) identifiers used for
// user accounts and request IDs. Ordering by ID matches ordering by
// creation time, which keeps the users primary key index append-only.
package uuid

import "github.com/google/uuid"

// New returns a fresh UUIDv7 in canonical string form.
//
// It panics only when the system random source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}
