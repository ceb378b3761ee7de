package cache

import (
	"context"
	"fmt"
	"time"
)

// denylistKeyPrefix namespaces revoked token IDs.
const denylistKeyPrefix = "denylist:token:"

// TokenDenylist marks access tokens as revoked until their natural expiry.
// Keys carry a TTL equal to the token's remaining lifetime, so the set
// cleans itself up and never grows past the number of live revocations.
type TokenDenylist struct {
	cache *Cache
}

// NewTokenDenylist creates a TokenDenylist backed by the given cache.
func NewTokenDenylist(cache *Cache) *TokenDenylist {
	return &TokenDenylist{cache: cache}
}

// Add marks a token ID as revoked for the given TTL.
func (d *TokenDenylist) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	key := denylistKeyPrefix + tokenID
	if err := d.cache.client.SetEx(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to denylist token: %w", err)
	}

	return nil
}

// Contains reports whether a token ID has been revoked.
func (d *TokenDenylist) Contains(ctx context.Context, tokenID string) (bool, error) {
	key := denylistKeyPrefix + tokenID

	exists, err := d.cache.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check denylist: %w", err)
	}

	return exists > 0, nil
}
