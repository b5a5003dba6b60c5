// Package redissvc dials the Redis instance that backs refresh tokens and
// the dashboard cache.
package redissvc

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Connect opens a client against addr and verifies the connection with a
// ping. The caller owns the returned client and closes it on shutdown.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}
