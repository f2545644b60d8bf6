// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/cinema/internal/platform/apperr"
	"github.com/taibuivan/cinema/internal/platform/metrics"
	"github.com/taibuivan/cinema/internal/platform/sec"
	"github.com/taibuivan/cinema/internal/users/auth"
	"github.com/taibuivan/cinema/pkg/pagination"
)

// # Fixtures

var fixedNow = time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC)

const testSecret = "auth-service-test-secret"

// memoryUsers is an in-memory UserRepository keyed by email.
type memoryUsers struct {
	mu      sync.Mutex
	byEmail map[string]*auth.User
	lookups int
	failAll error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: make(map[string]*auth.User)}
}

func (store *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.lookups++
	if store.failAll != nil {
		return nil, store.failAll
	}
	user, ok := store.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (store *memoryUsers) Create(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, exists := store.byEmail[user.Email]; exists {
		return apperr.Conflict("User already exists")
	}
	clone := *user
	store.byEmail[user.Email] = &clone
	return nil
}

func (store *memoryUsers) Update(_ context.Context, user *auth.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for email, existing := range store.byEmail {
		if existing.ID == user.ID {
			delete(store.byEmail, email)
			clone := *user
			store.byEmail[user.Email] = &clone
			return nil
		}
	}
	return apperr.NotFound("User")
}

func (store *memoryUsers) SetEnabled(_ context.Context, id string, enabled bool) error {
	return store.mutate(id, func(user *auth.User) { user.Enabled = enabled })
}

func (store *memoryUsers) UpdateRole(_ context.Context, id string, role sec.Role) error {
	return store.mutate(id, func(user *auth.User) { user.Role = role })
}

func (store *memoryUsers) mutate(id string, change func(*auth.User)) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, user := range store.byEmail {
		if user.ID == id {
			change(user)
			return nil
		}
	}
	return apperr.NotFound("User")
}

func (store *memoryUsers) List(_ context.Context, filter auth.UserFilter, page pagination.Params) ([]*auth.User, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	matched := make([]*auth.User, 0)
	for _, user := range store.byEmail {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.Enabled != nil && user.Enabled != *filter.Enabled {
			continue
		}
		clone := *user
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Email < matched[j].Email })

	start := min(page.Offset(), len(matched))
	end := min(start+page.Limit, len(matched))
	return matched[start:end], len(matched), nil
}

// memoryCache is an in-memory IdentityCache.
type memoryCache struct {
	mu       sync.Mutex
	accounts map[string]*auth.Account
	failGet  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{accounts: make(map[string]*auth.Account)}
}

func (cache *memoryCache) Get(_ context.Context, email string) (*auth.Account, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if cache.failGet != nil {
		return nil, cache.failGet
	}
	account, ok := cache.accounts[email]
	if !ok {
		return nil, nil
	}
	clone := *account
	return &clone, nil
}

func (cache *memoryCache) Set(_ context.Context, account *auth.Account, _ time.Duration) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	clone := *account
	cache.accounts[account.Email] = &clone
	return nil
}

func (cache *memoryCache) Add(_ context.Context, account *auth.Account, _ time.Duration) (bool, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if _, ok := cache.accounts[account.Email]; ok {
		return false, nil
	}
	clone := *account
	cache.accounts[account.Email] = &clone
	return true, nil
}

func (cache *memoryCache) Delete(_ context.Context, emails ...string) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	for _, email := range emails {
		delete(cache.accounts, email)
	}
	return nil
}

func (cache *memoryCache) has(email string) bool {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	_, ok := cache.accounts[email]
	return ok
}

// # Harness

type harness struct {
	service *auth.Service
	users   *memoryUsers
	cache   *memoryCache
	codec   *sec.TokenCodec
	hasher  *sec.PasswordHasher
	metrics *metrics.Metrics
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	codec, err := sec.NewTokenCodec([]byte(testSecret), "Authentication-Microservices",
		sec.WithClock(func() time.Time { return fixedNow.Add(time.Hour) }))
	require.NoError(t, err)

	_, recorder := metrics.NewRegistry()
	h := &harness{
		users:   newMemoryUsers(),
		cache:   newMemoryCache(),
		codec:   codec,
		hasher:  sec.NewPasswordHasher(bcrypt.MinCost),
		metrics: recorder,
	}
	h.service = auth.NewService(h.users, h.cache, codec, h.hasher,
		auth.Settings{TokenTTL: 24 * time.Hour, Now: func() time.Time { return fixedNow }},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder,
	)
	return h
}

// seed stores an account with a real bcrypt hash.
func (h *harness) seed(t *testing.T, email, password string, role sec.Role, enabled bool) *auth.User {
	t.Helper()
	hash, err := h.hasher.Hash(password)
	require.NoError(t, err)

	user := &auth.User{
		ID:           "id-" + email,
		Username:     "alice",
		LastName:     "smith",
		Email:        email,
		Phone:        "0912345678",
		PasswordHash: hash,
		Role:         role,
		Enabled:      enabled,
		CreatedAt:    fixedNow,
		UpdatedAt:    fixedNow,
	}
	require.NoError(t, h.users.Create(context.Background(), user))
	return user
}

var errStoreDown = errors.New("postgres: connection refused")
