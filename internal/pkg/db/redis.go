package db

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"amartaka-bot/internal/config"
)

// NewRedis creates a Redis client and verifies it with a ping.
func NewRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	log.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Msg("Connecting to Redis")

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().Msg("Successfully connected to Redis")
	return client, nil
}
