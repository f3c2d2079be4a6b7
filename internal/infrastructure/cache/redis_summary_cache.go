package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisSummaryCache implements SummaryCache using Redis. Suitable for
// deployments where several instances should share cached summaries.
type RedisSummaryCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSummaryCache creates a new Redis-backed summary cache
func NewRedisSummaryCache(cfg RedisConfig, logger *zap.Logger) (*RedisSummaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSummaryCache{
		client:    client,
		keyPrefix: "report:summary:",
		logger:    logger.Named("summary_cache"),
	}, nil
}

// NewRedisSummaryCacheWithClient creates a cache with an existing Redis
// client, useful for testing or sharing a client across components
func NewRedisSummaryCacheWithClient(client *redis.Client, keyPrefix string, logger *zap.Logger) *RedisSummaryCache {
	if keyPrefix == "" {
		keyPrefix = "report:summary:"
	}
	return &RedisSummaryCache{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger.Named("summary_cache"),
	}
}

// Get returns the cached value for key, or false on a miss. Redis errors
// degrade to a miss so reports still come straight from the database.
func (c *RedisSummaryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return value, true
}

// Set stores a value under key with a TTL
func (c *RedisSummaryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// DeleteAll drops every cached summary under the key prefix
func (c *RedisSummaryCache) DeleteAll(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

// Close closes the underlying Redis client
func (c *RedisSummaryCache) Close() error {
	return c.client.Close()
}

// Ensure RedisSummaryCache implements SummaryCache
var _ SummaryCache = (*RedisSummaryCache)(nil)
