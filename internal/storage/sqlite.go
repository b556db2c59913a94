package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/jwebster45206/ai-dungeon-master/pkg/dungeon"
	"github.com/jwebster45206/ai-dungeon-master/pkg/save"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS saves (
	slot     TEXT PRIMARY KEY,
	version  INTEGER NOT NULL,
	data     BLOB NOT NULL,
	saved_at INTEGER NOT NULL
)`

// SQLiteStorage keeps save slots in a SQLite database.
type SQLiteStorage struct {
	db     *sql.DB
	slot   string
	logger *slog.Logger
}

// Ensure SQLiteStorage implements Storage interface
var _ Storage = (*SQLiteStorage)(nil)

// OpenSQLite opens (or creates) the database at path and ensures the saves
// table exists.
func OpenSQLite(ctx context.Context, path, slot string, logger *slog.Logger) (*SQLiteStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if slot == "" {
		slot = "default"
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create saves table: %w", err)
	}
	return &SQLiteStorage{db: db, slot: slot, logger: logger}, nil
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStorage) SaveGame(ctx context.Context, st *save.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := save.Encode(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saves (slot, version, data, saved_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET version = excluded.version, data = excluded.data, saved_at = excluded.saved_at`,
		s.slot, save.CurrentVersion, data, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	s.logger.Debug("Game saved", "slot", s.slot, "bytes", len(data))
	return nil
}

func (s *SQLiteStorage) LoadGame(ctx context.Context, opts ...dungeon.Option) (*save.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM saves WHERE slot = ?`, s.slot).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: slot %s", save.ErrNoSavedState, s.slot)
		}
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	return save.Decode(data, opts...)
}

func (s *SQLiteStorage) DeleteGame(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, s.slot); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}
