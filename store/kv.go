package store

import (
    "context"
    "errors"
    "time"

    "github.com/go-redis/redis/v8"
)

var ErrMiss = errors.New("key not found")

type KV interface {
    Get(ctx context.Context, key string) (string, error)
    Set(ctx context.Context, key string, value string, ttl time.Duration) error
    Del(ctx context.Context, key string) error
}

type RedisKV struct {
    c *redis.Client
}

func NewRedisKV(c *redis.Client) *RedisKV { return &RedisKV{c: c} }

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
    val, err := r.c.Get(ctx, key).Result()
    if err != nil {
        if err == redis.Nil {
            return "", ErrMiss
        }
        return "", err
    }
    return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
    return r.c.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKV) Del(ctx context.Context, key string) error {
    return r.c.Del(ctx, key).Err()
}
