package session

import (
	"context"
	"time"

	"rakitin/internal/cache"
)

const revokedKeyPrefix = "session:revoked:"

// CacheRevocations stores revoked token ids in redis until they would have
// expired anyway.
type CacheRevocations struct {
	cache *cache.Client
}

var _ Revocations = (*CacheRevocations)(nil)

func NewCacheRevocations(c *cache.Client) *CacheRevocations {
	return &CacheRevocations{cache: c}
}

func (r *CacheRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return r.cache.Set(ctx, revokedKeyPrefix+tokenID, []byte("1"), ttl)
}

func (r *CacheRevocations) IsRevoked(ctx context.Context, tokenID string) bool {
	return r.cache.Exists(ctx, revokedKeyPrefix+tokenID)
}
