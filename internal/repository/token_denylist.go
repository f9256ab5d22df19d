package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fmht/buzon-service/internal/auth"
)

type redisTokenDenylist struct {
	client *redis.Client
	prefix string
}

// NewRedisTokenDenylist stores revoked token ids under prefix until the token
// would have expired. A nil client yields an in-process store.
func NewRedisTokenDenylist(client *redis.Client, prefix string) auth.RevocationStore {
	if client == nil {
		return auth.NewMemoryRevocations()
	}
	return &redisTokenDenylist{client: client, prefix: prefix}
}

func (d *redisTokenDenylist) key(tokenID string) string { return d.prefix + ":" + tokenID }

func (d *redisTokenDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, d.key(tokenID), 1, ttl).Err()
}

func (d *redisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
