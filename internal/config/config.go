package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the console's runtime settings, read from the environment
// after an optional .env file.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	RawLogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE" envDefault:"dungeon.log"`
	LogLevel    slog.Level

	LLMProvider      string        `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIModel      string        `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	OllamaURL        string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	OllamaModel      string        `env:"OLLAMA_MODEL" envDefault:"llama3"`
	GeminiAPIKey     string        `env:"GEMINI_API_KEY"`
	GeminiModel      string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	NarrativeTimeout time.Duration `env:"NARRATIVE_TIMEOUT" envDefault:"20s"`
	NarrativeCache   string        `env:"NARRATIVE_CACHE" envDefault:"memory"`
	ContentRating    string        `env:"CONTENT_RATING" envDefault:"PG13"`

	SaveBackend string `env:"SAVE_BACKEND" envDefault:"file"`
	SavePath    string `env:"SAVE_PATH" envDefault:"game_state.json"`
	SaveSlot    string `env:"SAVE_SLOT" envDefault:"default"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"dungeon.db"`

	// Seed fixes the dungeon and dice rolls when non-zero.
	Seed uint64 `env:"SEED"`
}

const (
	ProviderOpenAI  = "openai"
	ProviderOllama  = "ollama"
	ProviderGemini  = "gemini"
	ProviderOffline = "offline"

	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"

	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv parses the process environment without touching .env.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.RawLogLevel)
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.SaveBackend = strings.ToLower(strings.TrimSpace(cfg.SaveBackend))
	cfg.NarrativeCache = strings.ToLower(strings.TrimSpace(cfg.NarrativeCache))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown enumerations and unusable values.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI, ProviderOllama, ProviderGemini, ProviderOffline:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	switch c.SaveBackend {
	case BackendFile, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("unknown SAVE_BACKEND %q", c.SaveBackend)
	}
	switch c.NarrativeCache {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("unknown NARRATIVE_CACHE %q", c.NarrativeCache)
	}
	if c.NarrativeTimeout <= 0 {
		return fmt.Errorf("NARRATIVE_TIMEOUT must be positive, got %s", c.NarrativeTimeout)
	}
	if c.SaveSlot == "" {
		return fmt.Errorf("SAVE_SLOT cannot be empty")
	}
	return nil
}

// TracingEnabled reports whether an OTLP endpoint is configured.
func (c *Config) TracingEnabled() bool {
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
