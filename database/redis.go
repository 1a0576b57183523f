package database

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a client for addr (port 6379 assumed when missing) after a ping.
func ConnectRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	if !strings.Contains(addr, ":") {
		addr += ":6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
