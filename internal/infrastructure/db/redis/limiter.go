package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles failed login attempts per email, backed by Redis.
// Key format: login_attempts:<email>, an integer counter expiring after the
// configured window.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// maxAttempts <= 0 disables throttling entirely.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether another login attempt for email may proceed. A
// saturated counter that has no expiry is dropped rather than honoured, so a
// key missing its TTL can never lock an email out permanently.
func (l *LoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	if l.maxAttempts <= 0 {
		return true, nil
	}
	key := l.key(email)
	n, err := l.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return false, fmt.Errorf("limiter check: %w", err)
	}
	if n < l.maxAttempts {
		return true, nil
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("limiter ttl: %w", err)
	}
	if ttl < 0 {
		if err := l.client.Del(ctx, key).Err(); err != nil {
			return false, fmt.Errorf("limiter repair: %w", err)
		}
		return true, nil
	}
	return false, nil
}

// RecordFailure counts one failed attempt. Increment and expiry run in a
// single MULTI/EXEC exchange, so the counter can never be left behind without
// a TTL; ExpireNX starts the window at the first failure without extending it
// on later ones.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) error {
	key := l.key(email)
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("limiter record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, l.key(email)).Err()
}

func (l *LoginLimiter) key(email string) string {
	return fmt.Sprintf("login_attempts:%s", email)
}
