package codestore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces reset codes in Redis.
const keyPrefix = "resetcode:"

// Redis is a Store backed by a Redis instance. Expiry is native Redis TTL,
// so no lazy sweep is needed. Used when WEB replicas must share codes or
// codes must survive a restart.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed code store.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Set stores or overwrites the code for the email with the given TTL.
func (r *Redis) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := r.client.Set(ctx, keyPrefix+normalize(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("storing verification code: %w", err)
	}
	return nil
}

// Get returns the live code without deleting it.
func (r *Redis) Get(ctx context.Context, email string) (string, error) {
	code, err := r.client.Get(ctx, keyPrefix+normalize(email)).Result()
	if err == redis.Nil {
		return "", ErrNoCode
	}
	if err != nil {
		return "", fmt.Errorf("reading verification code: %w", err)
	}
	return code, nil
}

// Delete removes the entry for the email.
func (r *Redis) Delete(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, keyPrefix+normalize(email)).Err(); err != nil {
		return fmt.Errorf("deleting verification code: %w", err)
	}
	return nil
}
