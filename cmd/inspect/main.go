package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jwebster45206/ai-dungeon-master/internal/config"
	"github.com/jwebster45206/ai-dungeon-master/internal/logger"
	"github.com/jwebster45206/ai-dungeon-master/internal/storage"
	"github.com/jwebster45206/ai-dungeon-master/pkg/save"
)

const clearFlag = "--clear"

// inspect validates a saved game and prints a summary of it. With a file
// argument it reads that file; otherwise it reads the configured backend.
// With --clear it empties the configured backend's slot instead.
func main() {
	if len(os.Args) > 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [game_state.json | %s]\n", os.Args[0], clearFlag)
		os.Exit(1)
	}

	ctx := context.Background()
	if len(os.Args) == 2 && os.Args[1] == clearFlag {
		if err := withBackend(ctx, clearSlot); err != nil {
			fmt.Fprintf(os.Stderr, "Clear failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var (
		st     *save.State
		source string
		err    error
	)
	if len(os.Args) == 2 {
		source = os.Args[1]
		fmt.Printf("Validating %s...\n", source)
		st, err = save.LoadFile(source)
	} else {
		err = withBackend(ctx, func(ctx context.Context, store storage.Storage, src string) error {
			source = src
			fmt.Printf("Validating %s...\n", source)
			var lerr error
			st, lerr = store.LoadGame(ctx)
			return lerr
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	inspector := &SaveInspector{}
	inspector.Check(st)

	fmt.Println(Summary(st))
	fmt.Println(RoomTable(st))

	if len(inspector.warnings) > 0 {
		fmt.Fprintf(os.Stderr, "Warnings in %s:\n%s\n", source, inspector.Report())
	}
	fmt.Println("Save is valid!")
}

// withBackend opens the configured storage backend for the length of fn.
func withBackend(ctx context.Context, fn func(ctx context.Context, store storage.Storage, source string) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log := logger.Setup(cfg, os.Stderr)

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.SaveBackend, err)
	}
	defer func() {
		_ = store.Close() // Ignore error in defer
	}()

	return fn(ctx, store, sourceLabel(cfg, store))
}

// sourceLabel names where a backend keeps the save, for messages.
func sourceLabel(cfg *config.Config, store storage.Storage) string {
	if fs, ok := store.(*storage.FileStorage); ok {
		return fmt.Sprintf("%s backend (%s)", cfg.SaveBackend, fs.Path())
	}
	return fmt.Sprintf("%s backend (slot %s)", cfg.SaveBackend, cfg.SaveSlot)
}

// clearSlot removes the save so the console starts from an empty slot. It
// is the way out when a save no longer validates.
func clearSlot(ctx context.Context, store storage.Storage, source string) error {
	if err := store.DeleteGame(ctx); err != nil {
		return fmt.Errorf("failed to clear %s: %w", source, err)
	}
	fmt.Printf("Cleared %s\n", source)
	return nil
}
