package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"skyview-backend/config"
)

// NewRedisClient builds a client from configuration. It does not connect.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// Ping checks the connection to Redis.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the connection to Redis.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
