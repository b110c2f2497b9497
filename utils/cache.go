package utils

import (
	"context"
	"fmt"
	"time"

	"medivoice/config"

	"github.com/go-redis/redis/v8"
)

// ContextCacheClient holds conversation sessions when CONTEXT_BACKEND=redis.
var ContextCacheClient *redis.Client

// InitContextCache connects the session Redis client and verifies it with a ping.
func InitContextCache(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisContextDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (context cache): %w", err)
	}
	ContextCacheClient = client
	return client, nil
}
