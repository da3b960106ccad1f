package cache

import (
	"context"
	"fmt"
	"time"

	"ehow/config"
	"ehow/types"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisSink mirrors artifacts into Redis string keys <Prefix><name>, without expiry.
type RedisSink struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisSink connects and pings the server before returning.
func NewRedisSink(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("connected to Redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return &RedisSink{client: client, prefix: cfg.Prefix, logger: logger}, nil
}

// Key returns the Redis key an artifact is stored under.
func (s *RedisSink) Key(name string) string {
	return s.prefix + name
}

func (s *RedisSink) Write(ctx context.Context, name string, doc types.CacheDocument) error {
	if _, err := FileName(name); err != nil {
		return err
	}
	data, err := encode(doc)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.Key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.Key(name), err)
	}
	s.logger.Debug("stored cache in redis", zap.String("key", s.Key(name)), zap.Int("items", len(doc.Items)))
	return nil
}

// Close releases the connection pool.
func (s *RedisSink) Close() error {
	return s.client.Close()
}
