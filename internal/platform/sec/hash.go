// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordHasher hashes and verifies account passwords with bcrypt.
//
// The zero value uses [bcrypt.DefaultCost]. A PasswordHasher must not be
// copied after first use.
type PasswordHasher struct {
	cost int

	// dummyHash is compared against when an account does not exist so that
	// an unknown email costs the same as a wrong password.
	dummyOnce sync.Once
	dummyHash []byte
}

// NewPasswordHasher creates a hasher with the given bcrypt cost. Out-of-range
// costs fall back to [bcrypt.DefaultCost].
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash derives a new salted hash. Two calls with the same input never return
// the same string.
func (hasher *PasswordHasher) Hash(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), hasher.effectiveCost())
	if err != nil {
		return "", fmt.Errorf("auth: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify recomputes the hash of plainTextPassword with the salt and cost
// embedded in existingHash and compares in constant time.
func (hasher *PasswordHasher) Verify(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// VerifyDummy performs a comparison at the configured cost and discards the
// result.
func (hasher *PasswordHasher) VerifyDummy(plainTextPassword string) {
	hasher.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("cinema-dummy-password"), hasher.effectiveCost())
		if err == nil {
			hasher.dummyHash = hash
		}
	})
	_ = bcrypt.CompareHashAndPassword(hasher.dummyHash, []byte(plainTextPassword))
}

func (hasher *PasswordHasher) effectiveCost() int {
	if hasher.cost == 0 {
		return bcrypt.DefaultCost
	}
	return hasher.cost
}
