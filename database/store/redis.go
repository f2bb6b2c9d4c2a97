package store

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisPrefix = "dietpix:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(clientID, key string) string {
	return redisPrefix + clientID + ":" + key
}

func redisKeys(clientID string, keys []string) []string {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = redisKey(clientID, k)
	}
	return full
}

func (s *RedisStore) Get(ctx context.Context, clientID, key string) (string, bool, error) {
	if clientID == "" {
		return "", false, ErrEmptyClientID
	}
	data, err := s.client.Get(ctx, redisKey(clientID, key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, clientID, key, value string) error {
	if clientID == "" {
		return ErrEmptyClientID
	}
	return s.client.Set(ctx, redisKey(clientID, key), value, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, clientID string, keys ...string) error {
	if clientID == "" {
		return ErrEmptyClientID
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, redisKeys(clientID, keys)...).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
