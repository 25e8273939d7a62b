package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/foodierank/foodierank-backend/config"
	"github.com/foodierank/foodierank-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const rankingTopKey = "ranking:restaurants:top"

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client = nil
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance (nil if not initialized)
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// BlacklistToken adds a token to the blacklist
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	if client == nil {
		return nil
	}

	key := fmt.Sprintf("blacklist:%s", token)
	if err := client.Set(ctx, key, "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}
	return nil
}

// IsTokenBlacklisted checks if a token is in the blacklist
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if client == nil {
		return false, nil
	}

	key := fmt.Sprintf("blacklist:%s", token)
	_, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// 랭킹 리더보드 캐시
// 파생 데이터이므로 캐시 실패는 조회 경로를 막지 않는다.

// GetCachedRanking reads the cached leaderboard into dest.
// Returns false on cache miss or when Redis is unavailable.
func GetCachedRanking(ctx context.Context, dest interface{}) (bool, error) {
	if client == nil {
		return false, nil
	}

	raw, err := client.Get(ctx, rankingTopKey).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		// 손상된 캐시 엔트리는 버린다
		client.Del(ctx, rankingTopKey)
		return false, nil
	}
	return true, nil
}

// SetCachedRanking stores the leaderboard with the given TTL
func SetCachedRanking(ctx context.Context, value interface{}, ttl time.Duration) error {
	if client == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, rankingTopKey, raw, ttl).Err()
}

// InvalidateRanking drops the cached leaderboard after a score change
func InvalidateRanking(ctx context.Context) {
	if client == nil {
		return
	}
	if err := client.Del(ctx, rankingTopKey).Err(); err != nil {
		logger.Warn("Failed to invalidate ranking cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
