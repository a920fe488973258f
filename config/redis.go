package config

import (
    "context"
    "log"
    "os"
    "strconv"
    "time"

    "github.com/go-redis/redis/v8"
)

var Redis *redis.Client

// ConnectRedis connects the client used for screening draft persistence.
func ConnectRedis() {
    addr := os.Getenv("REDIS_ADDR")
    if addr == "" {
        addr = "localhost:6379"
    }

    db := 0
    if v := os.Getenv("REDIS_DB"); v != "" {
        parsed, err := strconv.Atoi(v)
        if err != nil {
            log.Fatalf("Invalid REDIS_DB value: %v", err)
        }
        db = parsed
    }

    Redis = redis.NewClient(&redis.Options{
        Addr:     addr,
        Password: os.Getenv("REDIS_PASSWORD"),
        DB:       db,
    })

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()

    if err := Redis.Ping(ctx).Err(); err != nil {
        log.Fatalf("Redis ping error: %v", err)
    }

    log.Println("Connected to Redis")
}
