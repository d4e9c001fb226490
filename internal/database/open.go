package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/greet-service/internal/config"
)

const defaultConnectTimeout = time.Second

// Open picks the backend for the life of the process. Redis is pinged once
// under cfg.ConnectTimeout; if that fails the in-memory store is returned
// and the failure is only logged.
func Open(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) UserStore {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	client := NewRedisClient(cfg)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Could not connect to Redis, falling back to in-memory storage",
			slog.String("addr", cfg.Addr()), slog.Any("error", err))
		if cerr := client.Close(); cerr != nil {
			logger.Debug("Closing unused redis client", slog.Any("error", cerr))
		}
		return NewMemoryUserStore()
	}

	logger.Info("Successfully connected to Redis",
		slog.String("addr", cfg.Addr()), slog.Int("db", cfg.DB))
	return NewRedisUserStore(client, NewMemoryUserStore(), logger)
}
