// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/cinema/internal/platform/constants"
	platformredis "github.com/taibuivan/cinema/internal/platform/redis"
	"github.com/taibuivan/cinema/pkg/slice"
)

// RedisIdentityCache implements IdentityCache using Redis string keys holding JSON.
type RedisIdentityCache struct {
	client redis.UniversalClient
}

// NewIdentityCache creates a new Redis-backed IdentityCache.
func NewIdentityCache(client redis.UniversalClient) *RedisIdentityCache {
	return &RedisIdentityCache{client: client}
}

func identityKey(email string) string {
	return constants.RedisPrefixIdentity + NormalizeEmail(email)
}

/*
Get retrieves the cached account for email.

Returns:
  - *Account: The cached record, or nil on a miss
  - error: Connectivity or decoding errors
*/
func (cache *RedisIdentityCache) Get(context context.Context, email string) (*Account, error) {
	payload, err := cache.client.Get(context, identityKey(email)).Bytes()
	if err != nil {
		if platformredis.IsMiss(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_identity_get_failed: %w", err)
	}

	account := &Account{}
	if err := json.Unmarshal(payload, account); err != nil {
		return nil, fmt.Errorf("redis_identity_decode_failed: %w", err)
	}

	return account, nil
}

/*
Set stores account under its email for ttl.
*/
func (cache *RedisIdentityCache) Set(context context.Context, account *Account, ttl time.Duration) error {
	payload, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("redis_identity_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, identityKey(account.Email), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_identity_set_failed: %w", err)
	}

	return nil
}

/*
Add stores account under its email for ttl unless a record is already cached.

Returns:
  - bool: true when the record was written
  - error: Connectivity or encoding errors
*/
func (cache *RedisIdentityCache) Add(context context.Context, account *Account, ttl time.Duration) (bool, error) {
	payload, err := json.Marshal(account)
	if err != nil {
		return false, fmt.Errorf("redis_identity_encode_failed: %w", err)
	}

	stored, err := cache.client.SetNX(context, identityKey(account.Email), payload, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis_identity_add_failed: %w", err)
	}

	return stored, nil
}

/*
Delete evicts the cached records for every email.
*/
func (cache *RedisIdentityCache) Delete(context context.Context, emails ...string) error {
	if len(emails) == 0 {
		return nil
	}

	if err := cache.client.Del(context, slice.Map(emails, identityKey)...).Err(); err != nil {
		return fmt.Errorf("redis_identity_delete_failed: %w", err)
	}

	return nil
}
