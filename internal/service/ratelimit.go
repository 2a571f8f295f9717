package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/edulink-app/edulink-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimiter hands out per-user cooldown slots. Acquire returns false while
// a previous slot for the same action is still held.
type RateLimiter interface {
	Acquire(ctx context.Context, userID uuid.UUID, action string, limit time.Duration) (bool, error)
	TTL(ctx context.Context, userID uuid.UUID, action string) (time.Duration, error)
	Release(ctx context.Context, userID uuid.UUID, action string) error
}

// NewRateLimiter builds the Redis-backed limiter. A nil client disables
// limiting entirely, which also keeps unit tests free of Redis.
func NewRateLimiter(rdb *redis.Client) RateLimiter {
	return &redisRateLimiter{rdb: rdb}
}

type redisRateLimiter struct {
	rdb *redis.Client
}

func (l *redisRateLimiter) Acquire(ctx context.Context, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	if l.rdb == nil {
		return true, nil
	}

	key := rateLimitKey(userID, action)

	wasSet, err := l.rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func (l *redisRateLimiter) TTL(ctx context.Context, userID uuid.UUID, action string) (time.Duration, error) {
	if l.rdb == nil {
		return 0, nil
	}
	return l.rdb.TTL(ctx, rateLimitKey(userID, action)).Result()
}

func (l *redisRateLimiter) Release(ctx context.Context, userID uuid.UUID, action string) error {
	if l.rdb == nil {
		return nil
	}
	_, err := l.rdb.Del(ctx, rateLimitKey(userID, action)).Result()
	return err
}

func rateLimitKey(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
}

// checkGlobalCooldown enforces the short cross-action cooldown shared by all
// write endpoints, on top of each endpoint's own cooldown.
func checkGlobalCooldown(ctx context.Context, limiter RateLimiter, userID uuid.UUID, limit time.Duration) error {
	allowed, err := limiter.Acquire(ctx, userID, "global", limit)
	if err != nil {
		return err
	}
	if !allowed {
		ttl, _ := limiter.TTL(ctx, userID, "global")
		return apperror.New(http.StatusTooManyRequests,
			fmt.Sprintf("you are doing that too often, please wait %.0f seconds", ttl.Seconds()),
			apperror.ErrRateLimitExceeded)
	}
	return nil
}
