package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jwebster45206/ai-dungeon-master/pkg/dungeon"
	"github.com/jwebster45206/ai-dungeon-master/pkg/save"
)

// FileStorage keeps the game in a single JSON file.
type FileStorage struct {
	path   string
	logger *slog.Logger
}

// Ensure FileStorage implements Storage interface
var _ Storage = (*FileStorage)(nil)

// NewFileStorage stores the game at path (save.DefaultPath when empty).
func NewFileStorage(path string, logger *slog.Logger) *FileStorage {
	if path == "" {
		path = save.DefaultPath
	}
	return &FileStorage{path: path, logger: logger}
}

// Path is the save file location.
func (f *FileStorage) Path() string { return f.path }

func (f *FileStorage) Ping(ctx context.Context) error { return nil }

func (f *FileStorage) Close() error { return nil }

func (f *FileStorage) SaveGame(ctx context.Context, st *save.State) error {
	if err := save.SaveFile(f.path, st); err != nil {
		return err
	}
	f.logger.Debug("Game saved", "path", f.path)
	return nil
}

func (f *FileStorage) LoadGame(ctx context.Context, opts ...dungeon.Option) (*save.State, error) {
	st, err := save.LoadFile(f.path, opts...)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("Game loaded", "path", f.path, "rooms", st.Graph.Len())
	return st, nil
}

func (f *FileStorage) DeleteGame(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete save file %s: %w", f.path, err)
	}
	return nil
}
