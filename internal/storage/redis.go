package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/ai-dungeon-master/pkg/dungeon"
	"github.com/jwebster45206/ai-dungeon-master/pkg/save"
	"github.com/redis/go-redis/v9"
)

// RedisStorage implements the Storage interface using Redis. The save
// document lives under gamestate:{slot} with no expiry.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	slot   string
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance. redisURL may be a
// redis:// URL or host:port.
func NewRedisStorage(redisURL, slot string, logger *slog.Logger) (*RedisStorage, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis url is empty")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		opts = &redis.Options{Addr: redisURL}
	}
	if slot == "" {
		slot = "default"
	}
	return &RedisStorage{
		client: redis.NewClient(opts),
		logger: logger,
		slot:   slot,
	}, nil
}

func (r *RedisStorage) key() string {
	return "gamestate:" + r.slot
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Debug("Redis connection closed")
	return nil
}

// Save game methods

func (r *RedisStorage) SaveGame(ctx context.Context, st *save.State) error {
	data, err := save.Encode(st)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(), data, 0).Err(); err != nil {
		r.logger.Error("Failed to save game to Redis", "key", r.key(), "error", err)
		return fmt.Errorf("failed to save game: %w", err)
	}
	r.logger.Debug("Game saved", "key", r.key(), "bytes", len(data))
	return nil
}

func (r *RedisStorage) LoadGame(ctx context.Context, opts ...dungeon.Option) (*save.State, error) {
	data, err := r.client.Get(ctx, r.key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", save.ErrNoSavedState, r.key())
		}
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	st, err := save.Decode(data, opts...)
	if err != nil {
		r.logger.Error("Stored game is invalid", "key", r.key(), "error", err)
		return nil, err
	}
	return st, nil
}

func (r *RedisStorage) DeleteGame(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key()).Err(); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}
