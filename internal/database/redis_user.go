package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/greet-service/internal/config"
)

type RedisUserStore struct {
	client   *redis.Client
	fallback *MemoryUserStore
	logger   *slog.Logger
}

// NewRedisClient builds a client from cfg. It does not dial; see Open.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.ConnectTimeout,
	})
}

// NewRedisUserStore wraps client. Writes that fail against redis land in
// fallback, and reads that fail are served from it.
func NewRedisUserStore(client *redis.Client, fallback *MemoryUserStore, logger *slog.Logger) *RedisUserStore {
	if fallback == nil {
		fallback = NewMemoryUserStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisUserStore{client: client, fallback: fallback, logger: logger}
}

func (s *RedisUserStore) GetUser(ctx context.Context) (User, error) {
	data, err := s.client.Get(ctx, UserKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Error getting user from redis, reading in-memory copy",
			slog.String("key", UserKey), slog.Any("error", err))
		return s.fallback.GetUser(ctx)
	}

	u, err := decodeUser(data)
	if err != nil {
		s.logger.Error("Discarding undecodable user record",
			slog.String("key", UserKey), slog.Any("error", err))
		return nil, nil
	}
	return u, nil
}

func (s *RedisUserStore) StoreUser(ctx context.Context, u User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	if err := s.client.Set(ctx, UserKey, data, 0).Err(); err != nil {
		s.logger.Error("Error storing user in redis, keeping it in memory",
			slog.String("key", UserKey), slog.Any("error", err))
		return s.fallback.StoreUser(ctx, u)
	}
	return nil
}

func (s *RedisUserStore) Backend() Backend {
	return BackendRedis
}

func (s *RedisUserStore) Close() error {
	return s.client.Close()
}
