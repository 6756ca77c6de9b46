package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisRequestIDStore shares idempotency records between API replicas
type RedisRequestIDStore struct {
	client *redis.Client
}

func NewRedisRequestIDStore(client *redis.Client) *RedisRequestIDStore {
	return &RedisRequestIDStore{client: client}
}

func (s *RedisRequestIDStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, inFlightMarker, ttl).Result()
}

func (s *RedisRequestIDStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *RedisRequestIDStore) Store(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, response, ttl).Err()
}

func (s *RedisRequestIDStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRequestIDNotFound
	}
	return value, err
}

func (s *RedisRequestIDStore) Close() error {
	return s.client.Close()
}

// NewRequestIDStore connects to Redis and falls back to an in-memory store
// when Redis does not answer a ping.
func NewRequestIDStore(cfg *config.Config, logger *zap.Logger) RequestIDStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Failed to connect to Redis, using in-memory idempotency store",
			zap.String("host", cfg.RedisHost),
			zap.String("port", cfg.RedisPort),
			zap.Error(err),
		)
		_ = rdb.Close()
		return NewInMemoryRequestIDStore()
	}

	logger.Info("Redis idempotency store initialized",
		zap.String("host", cfg.RedisHost),
		zap.String("port", cfg.RedisPort),
	)
	return NewRedisRequestIDStore(rdb)
}
