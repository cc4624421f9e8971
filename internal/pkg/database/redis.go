package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisConfig holds the rate-limit counter store settings
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
}

// ErrRedisURLMissing is returned when no counter store is configured. Rate
// limits fail closed, so both the API and the scheduler require one.
var ErrRedisURLMissing = errors.New("redis URL is not configured")

// NewRedis connects to the counter store and verifies it with a ping
func NewRedis(cfg RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, ErrRedisURLMissing
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	opt.MinIdleConns = cfg.MinIdleConns
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().Int("pool_size", opt.PoolSize).Msg("Connected to Redis")
	return client, nil
}

// CloseRedis closes the counter store client
func CloseRedis(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing Redis connection")
		return
	}
	log.Info().Msg("Redis connection closed")
}
