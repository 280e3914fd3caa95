// Package redis wires the shared Redis client used by the balance
// cache and the idempotency store.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// clientName tags connections so they are recognizable in CLIENT LIST.
const clientName = "splitledger"

// NewClient parses a redis:// URL and verifies the connection before
// handing it out.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	opts.ClientName = clientName

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
