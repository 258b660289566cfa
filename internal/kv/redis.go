package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisNamespace = "countrycard"

// Redis stores keys under the "countrycard:" namespace without expiry.
type Redis struct {
	client redis.UniversalClient
}

func NewRedis(addr, password string, db int) *Redis {
	return NewRedisFromClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}))
}

func NewRedisFromClient(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, redisNamespace+":"+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, redisNamespace+":"+key, value, 0).Err()
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	return r.client.Del(ctx, redisNamespace+":"+key).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
