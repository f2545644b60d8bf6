// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinema/internal/platform/apperr"
	"github.com/taibuivan/cinema/internal/platform/migration"
	pgstore "github.com/taibuivan/cinema/internal/platform/postgres"
	redisstore "github.com/taibuivan/cinema/internal/platform/redis"
	"github.com/taibuivan/cinema/internal/platform/sec"
	"github.com/taibuivan/cinema/internal/users/auth"
	"github.com/taibuivan/cinema/pkg/pagination"
	"github.com/taibuivan/cinema/pkg/uuid"
)

// These tests run against real backing services and are skipped unless
// CINEMA_TEST_DATABASE_URL / CINEMA_TEST_REDIS_URL are set.

func TestPostgresUserRepository(t *testing.T) {
	dsn := os.Getenv("CINEMA_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CINEMA_TEST_DATABASE_URL not set")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	migrations, err := filepath.Abs("../../../data/migrations")
	require.NoError(t, err)
	require.NoError(t, migration.RunUp(dsn, migrations, logger))
	pool, err := pgstore.NewPool(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := auth.NewUserRepository(pool)
	email := uuid.New() + "@integration.test"
	user := &auth.User{
		ID:           uuid.New(),
		Username:     "alice",
		LastName:     "smith",
		Email:        email,
		Phone:        "0912345678",
		PasswordHash: "$2a$04$placeholderplaceholderplaceholderplaceholderplacehold",
		Role:         sec.RoleUser,
		Enabled:      true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(ctx, user))

	duplicate := *user
	duplicate.ID = uuid.New()
	err = repo.Create(ctx, &duplicate)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	found, err := repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, sec.RoleUser, found.Role)

	require.NoError(t, repo.UpdateRole(ctx, user.ID, sec.RoleAdmin))
	require.NoError(t, repo.SetEnabled(ctx, user.ID, false))
	found, err = repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, found.Role)
	assert.False(t, found.Enabled)

	disabled := false
	users, total, err := repo.List(ctx, auth.UserFilter{Enabled: &disabled}, pagination.Params{Page: 1, Limit: pagination.MaxLimit})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, 1)
	assert.NotEmpty(t, users)

	_, err = repo.FindByEmail(ctx, "missing-"+email)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(repo.SetEnabled(ctx, uuid.New(), true)))
}

func TestRedisIdentityCache(t *testing.T) {
	url := os.Getenv("CINEMA_TEST_REDIS_URL")
	if url == "" {
		t.Skip("CINEMA_TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	client, err := redisstore.NewClient(ctx, url, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cache := auth.NewIdentityCache(client)
	email := uuid.New() + "@integration.test"

	missing, err := cache.Get(ctx, email)
	require.NoError(t, err)
	assert.Nil(t, missing)

	account := &auth.Account{Email: email, Role: sec.RoleUser, Username: "alice", DisplayName: "alice smith", Enabled: true}
	require.NoError(t, cache.Set(ctx, account, time.Minute))

	cached, err := cache.Get(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, account, cached)

	stale := *account
	stale.DisplayName = "stale"
	stored, err := cache.Add(ctx, &stale, time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)
	cached, err = cache.Get(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, account, cached)

	require.NoError(t, cache.Delete(ctx, email))
	missing, err = cache.Get(ctx, email)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
