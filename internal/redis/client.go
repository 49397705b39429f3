// Package redis manages the connection to the distributed cache cluster.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client wraps the go-redis client with connection lifecycle management.
// The cache's L2 adapter consumes the underlying client through DB().
type Client struct {
	rdb    *redis.Client
	config *Config
}

// Config holds connection settings for the Redis cluster
type Config struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
}

// NewClient connects to Redis and verifies the connection with a ping
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("redis config is required")
	}

	if config.Address == "" {
		config.Address = "localhost:6379"
	}
	if config.PoolSize == 0 {
		config.PoolSize = 10
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
		PoolSize: config.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{
		rdb:    rdb,
		config: config,
	}, nil
}

// DB exposes the underlying go-redis client
func (c *Client) DB() *redis.Client {
	return c.rdb
}

// Close closes the connection pool
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Health pings the cluster and reports connectivity
func (c *Client) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}
