package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:access:"

// TokenBlacklist is a Redis-backed list of revoked access tokens. Entries
// expire together with the token they revoke.
type TokenBlacklist struct {
	client *redis.Client
}

// NewTokenBlacklist connects to the Redis at redisURL.
func NewTokenBlacklist(ctx context.Context, redisURL string) (*TokenBlacklist, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	bl := NewTokenBlacklistFromClient(redis.NewClient(opts))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := bl.Ping(pingCtx); err != nil {
		_ = bl.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return bl, nil
}

func NewTokenBlacklistFromClient(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Revoke blacklists token until expiresAt. Tokens that already expired are
// ignored.
func (b *TokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, blacklistPrefix+token, "true", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token in Redis: %w", err)
	}
	return nil
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("check token blacklist: %w", err)
	}
	return n > 0, nil
}

func (b *TokenBlacklist) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *TokenBlacklist) Close() error {
	return b.client.Close()
}
