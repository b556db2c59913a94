// Package storage persists save games. Every backend stores the same
// versioned JSON document produced by the save package, one document per
// save slot.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/ai-dungeon-master/internal/config"
	"github.com/jwebster45206/ai-dungeon-master/pkg/dungeon"
	"github.com/jwebster45206/ai-dungeon-master/pkg/save"
)

// Storage defines the interface for save game persistence
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// SaveGame replaces the stored game for this slot.
	SaveGame(ctx context.Context, st *save.State) error

	// LoadGame returns the stored game, or save.ErrNoSavedState when the
	// slot is empty. Graph options apply to the rebuilt dungeon.
	LoadGame(ctx context.Context, opts ...dungeon.Option) (*save.State, error)

	// DeleteGame empties the slot. Deleting an empty slot is not an error.
	DeleteGame(ctx context.Context) error
}

// Open builds the backend named by cfg.SaveBackend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Storage, error) {
	switch cfg.SaveBackend {
	case config.BackendFile:
		return NewFileStorage(cfg.SavePath, logger), nil
	case config.BackendRedis:
		rs, err := NewRedisStorage(cfg.RedisURL, cfg.SaveSlot, logger)
		if err != nil {
			return nil, err
		}
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, err
		}
		return rs, nil
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath, cfg.SaveSlot, logger)
	default:
		return nil, fmt.Errorf("unknown save backend %q", cfg.SaveBackend)
	}
}
