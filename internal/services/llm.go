package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/ai-dungeon-master/internal/config"
	"github.com/jwebster45206/ai-dungeon-master/pkg/chat"
)

// NarrativeMaxTokens caps every completion; room descriptions are short.
const NarrativeMaxTokens = 100

const ollamaReadyTimeout = 5 * time.Second

// ErrOffline is returned by the offline provider for every request.
var ErrOffline = errors.New("narrative generation is offline")

// LLMService defines the interface for interacting with a language model.
type LLMService interface {
	// GetChatResponse sends one conversation and returns the model's reply.
	// Implementations make a single attempt and never retry.
	GetChatResponse(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)
}

// NewLLMService builds the provider named by cfg.LLMProvider. A provider
// whose credentials are missing degrades to offline with a warning, since
// the game is playable without narration.
func NewLLMService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (LLMService, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			logger.Warn("OPENAI_API_KEY not set, narration is offline")
			return OfflineService{}, nil
		}
		return NewChatGPTService(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	case config.ProviderOllama:
		svc := NewOllamaService(cfg.OllamaURL, cfg.OllamaModel, logger)
		readyCtx, cancel := context.WithTimeout(ctx, ollamaReadyTimeout)
		defer cancel()
		ready, err := svc.IsModelReady(readyCtx)
		if err != nil {
			logger.Warn("Ollama unreachable, narration is offline", "url", cfg.OllamaURL, "error", err)
			return OfflineService{}, nil
		}
		if !ready {
			logger.Warn("Ollama model not pulled, narration is offline", "model", cfg.OllamaModel)
			return OfflineService{}, nil
		}
		return svc, nil
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			logger.Warn("GEMINI_API_KEY not set, narration is offline")
			return OfflineService{}, nil
		}
		return NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.ProviderOffline:
		return OfflineService{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

// OfflineService never reaches a model. Every caller gets its fallback text.
type OfflineService struct{}

var _ LLMService = OfflineService{}

func (OfflineService) GetChatResponse(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	return nil, ErrOffline
}
