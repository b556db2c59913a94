package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/ai-dungeon-master/internal/config"
	"github.com/jwebster45206/ai-dungeon-master/internal/game"
	"github.com/jwebster45206/ai-dungeon-master/internal/logger"
	"github.com/jwebster45206/ai-dungeon-master/internal/narration"
	"github.com/jwebster45206/ai-dungeon-master/internal/services"
	"github.com/jwebster45206/ai-dungeon-master/internal/storage"
	"github.com/jwebster45206/ai-dungeon-master/internal/telemetry"
	"github.com/jwebster45206/ai-dungeon-master/pkg/actor"
)

const defaultPlayerName = "Adventurer"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logFile, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", cfg.LogFile, err)
		os.Exit(1)
	}
	defer func() {
		_ = logFile.Close() // Ignore error in defer
	}()
	log := logger.Setup(cfg, logFile)

	log.Info("Starting dungeon console",
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"save_backend", cfg.SaveBackend,
		"narrative_cache", cfg.NarrativeCache)

	ctx := context.Background()

	tracer := telemetry.NoopTracer()
	if cfg.TracingEnabled() {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			log.Warn("Tracing disabled", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Warn("Failed to flush traces", "error", err)
				}
			}()
			tracer = telemetry.Tracer("console")
		}
	}

	llm, err := services.NewLLMService(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize LLM provider: %v\n", err)
		os.Exit(1)
	}
	if c, ok := llm.(io.Closer); ok {
		defer func() {
			_ = c.Close() // Ignore error in defer
		}()
	}

	cache, err := services.NewCache(ctx, cfg, log)
	if err != nil {
		// Narration still works uncached.
		log.Warn("Narrative cache unavailable", "backend", cfg.NarrativeCache, "error", err)
	}
	if cache != nil {
		defer func() {
			_ = cache.Close() // Ignore error in defer
		}()
	}

	narratorOpts := []narration.Option{
		narration.WithTimeout(cfg.NarrativeTimeout),
		narration.WithContentRating(cfg.ContentRating),
		narration.WithTracer(tracer),
	}
	if cache != nil {
		narratorOpts = append(narratorOpts, narration.WithCache(cache))
	}
	narrator := narration.New(llm, log, narratorOpts...)

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open %s save storage: %v\n", cfg.SaveBackend, err)
		os.Exit(1)
	}
	defer func() {
		_ = store.Close() // Ignore error in defer
	}()

	deps := game.Deps{
		Storage:  store,
		Narrator: narrator,
		Logger:   log,
		Tracer:   tracer,
	}
	if cfg.Seed != 0 {
		roller := actor.NewRandRoller(cfg.Seed)
		deps.Roller = roller
		deps.Rand = roller
		log.Info("Using fixed seed", "seed", cfg.Seed)
	}

	engine, err := game.NewEngine(deps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start game engine: %v\n", err)
		os.Exit(1)
	}

	name := promptName(os.Stdin, os.Stdout)

	p := tea.NewProgram(NewConsoleUI(ctx, engine, name, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// promptName asks for the player's name before the UI takes over the screen.
func promptName(in io.Reader, out io.Writer) string {
	fmt.Fprint(out, "Enter your name: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return defaultPlayerName
	}
	return playerName(line)
}

func playerName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return defaultPlayerName
	}
	return name
}

