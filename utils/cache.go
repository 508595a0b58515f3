package utils

import (
	"context"
	"log"
	"time"

	"avix/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the shared Redis client (rate-limit counters, generic caching).
var CacheClient *redis.Client

// InitRedis initializes the shared Redis client. Redis is an availability
// optimization here, not a dependency: on connection failure the client is
// left nil and callers fall back to in-process alternatives.
func InitRedis() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("Redis unavailable: %v", err)
		return
	}
	CacheClient = client
}

// GetCacheClient returns the shared Redis client, nil when Redis is down.
func GetCacheClient() *redis.Client {
	return CacheClient
}
