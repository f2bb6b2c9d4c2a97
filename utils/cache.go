package utils

import (
	"context"
	"fmt"
	"time"

	"dietpix/config"

	"github.com/go-redis/redis/v8"
)

// StateClient is the Redis client backing durable client state.
var StateClient *redis.Client

// InitRedis initializes the Redis client for client state.
func InitRedis() error {
	StateClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisStateDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := StateClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis (state): %w", err)
	}
	return nil
}

// GetStateClient returns the Redis client for client state.
func GetStateClient() *redis.Client {
	return StateClient
}
