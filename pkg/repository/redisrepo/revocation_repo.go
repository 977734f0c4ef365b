package redisrepo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationRepository implements auth.RevocationStore on Redis: revoked token
// ids live until the token would have expired anyway.
type RevocationRepository struct {
	client *redis.Client
}

func NewRevocationRepository(client *redis.Client) *RevocationRepository {
	return &RevocationRepository{client: client}
}

func key(tokenID string) string { return "revoked_token:" + tokenID }

func (r *RevocationRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return r.client.Set(ctx, key(tokenID), "1", ttl).Err()
}

func (r *RevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
