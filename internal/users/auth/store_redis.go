// Copyright (c) 2026 Cartline. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/cartline/internal/platform/apperr"
	"github.com/taibuivan/cartline/internal/platform/constants"
)

// # Blacklist Repository

// RedisBlacklistRepository implements BlacklistRepository using Redis.
//
// Each entry is a JSON document stored under its own key with a Redis TTL
// equal to the revoked token's remaining lifetime, so Redis itself evicts
// entries once the underlying token would have expired anyway. DeleteExpired
// exists as a belt-and-braces sweep for entries that outlived their TTL
// (for example after a RESTORE or a clock skew).
type RedisBlacklistRepository struct {
	client *redis.Client
}

// NewBlacklistRepository creates a new Redis-backed BlacklistRepository.
func NewBlacklistRepository(client *redis.Client) *RedisBlacklistRepository {
	return &RedisBlacklistRepository{client: client}
}

// redisBlacklistEntry is the wire form of a BlacklistEntry. TokenHash is
// excluded from the entity's public JSON shape, so the storage layer carries
// it explicitly.
type redisBlacklistEntry struct {
	ID        string    `json:"id"`
	TokenHash string    `json:"token_hash"`
	OwnerID   string    `json:"owner_id"`
	Reason    string    `json:"reason,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

/*
Insert stores a revocation entry keyed by its ID with a TTL matching the
revoked token's remaining lifetime.

Description: Entries that are already past their expiry are dropped without
touching Redis, since the token they describe is dead either way.

Parameters:
  - context: context.Context
  - entry: *BlacklistEntry

Returns:
  - error: apperr.Infrastructure on connectivity failures
*/
func (repository *RedisBlacklistRepository) Insert(context context.Context, entry *BlacklistEntry) error {

	// TTL is the remaining life of the revoked token
	timeToLive := time.Until(entry.ExpiresAt)
	if timeToLive <= 0 {
		return nil
	}

	payload, err := json.Marshal(redisBlacklistEntry{
		ID:        entry.ID,
		TokenHash: entry.TokenHash,
		OwnerID:   entry.OwnerID,
		Reason:    entry.Reason,
		ExpiresAt: entry.ExpiresAt,
		CreatedAt: entry.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("redis_blacklist_marshal_failed: %w", err)
	}

	key := fmt.Sprintf("%s%s", constants.RedisPrefixBlacklist, entry.ID)
	if err := repository.client.Set(context, key, payload, timeToLive).Err(); err != nil {
		return apperr.Infrastructure(fmt.Errorf("redis_blacklist_insert_failed: %w", err))
	}

	return nil
}

/*
ListActive returns all blacklist entries whose expiry is after now.

Description: Walks the blacklist keyspace with SCAN and hydrates each entry.
Entries evicted between SCAN and GET are silently skipped.

Parameters:
  - context: context.Context
  - now: time.Time

Returns:
  - []BlacklistEntry: Active entries, unordered
  - error: apperr.Infrastructure on connectivity failures
*/
func (repository *RedisBlacklistRepository) ListActive(context context.Context, now time.Time) ([]BlacklistEntry, error) {

	var entries []BlacklistEntry

	iterator := repository.client.Scan(context, 0, constants.RedisPrefixBlacklist+"*", 0).Iterator()
	for iterator.Next(context) {
		payload, err := repository.client.Get(context, iterator.Val()).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, apperr.Infrastructure(fmt.Errorf("redis_blacklist_get_failed: %w", err))
		}

		var stored redisBlacklistEntry
		if err := json.Unmarshal(payload, &stored); err != nil {
			// Corrupt entry: skip rather than poison every verification.
			continue
		}

		if !stored.ExpiresAt.After(now) {
			continue
		}

		entries = append(entries, BlacklistEntry{
			ID:        stored.ID,
			TokenHash: stored.TokenHash,
			OwnerID:   stored.OwnerID,
			Reason:    stored.Reason,
			ExpiresAt: stored.ExpiresAt,
			CreatedAt: stored.CreatedAt,
		})
	}

	if err := iterator.Err(); err != nil {
		return nil, apperr.Infrastructure(fmt.Errorf("redis_blacklist_scan_failed: %w", err))
	}

	return entries, nil
}

/*
DeleteExpired removes entries whose expiry is at or before now.

Description: Redis TTLs already evict on time under normal operation, so this
usually removes nothing. It reports the number of entries it deleted.

Parameters:
  - context: context.Context
  - now: time.Time

Returns:
  - int: Number of entries removed
  - error: apperr.Infrastructure on connectivity failures
*/
func (repository *RedisBlacklistRepository) DeleteExpired(context context.Context, now time.Time) (int, error) {

	removed := 0

	iterator := repository.client.Scan(context, 0, constants.RedisPrefixBlacklist+"*", 0).Iterator()
	for iterator.Next(context) {
		key := iterator.Val()

		payload, err := repository.client.Get(context, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return removed, apperr.Infrastructure(fmt.Errorf("redis_blacklist_get_failed: %w", err))
		}

		var stored redisBlacklistEntry
		if err := json.Unmarshal(payload, &stored); err == nil && stored.ExpiresAt.After(now) {
			continue
		}

		if err := repository.client.Del(context, key).Err(); err != nil {
			return removed, apperr.Infrastructure(fmt.Errorf("redis_blacklist_delete_failed: %w", err))
		}
		removed++
	}

	if err := iterator.Err(); err != nil {
		return removed, apperr.Infrastructure(fmt.Errorf("redis_blacklist_scan_failed: %w", err))
	}

	return removed, nil
}
