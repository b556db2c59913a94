package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/jwebster45206/ai-dungeon-master/pkg/chat"
	"google.golang.org/api/option"
)

// GeminiService implements LLMService on Google's Gemini API
type GeminiService struct {
	client    *genai.Client
	modelName string
}

var _ LLMService = (*GeminiService)(nil)

// NewGeminiService opens a Gemini client. Close it when done.
func NewGeminiService(ctx context.Context, apiKey, modelName string) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiService{client: client, modelName: modelName}, nil
}

// Close releases the client connection.
func (g *GeminiService) Close() error {
	return g.client.Close()
}

// GetChatResponse folds system messages into the system instruction and
// sends the rest as a single prompt.
func (g *GeminiService) GetChatResponse(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	system, prompt := splitForGemini(messages)
	if prompt == "" {
		return nil, fmt.Errorf("no messages provided")
	}

	model := g.client.GenerativeModel(g.modelName)
	model.SetMaxOutputTokens(NarrativeMaxTokens)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content returned from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("unexpected response type from Gemini")
	}

	return &chat.ChatResponse{Message: sb.String(), Model: g.modelName}, nil
}

func splitForGemini(messages []chat.ChatMessage) (system, prompt string) {
	var sys, rest []string
	for _, m := range messages {
		if m.Role == chat.ChatRoleSystem {
			sys = append(sys, m.Content)
			continue
		}
		rest = append(rest, m.Content)
	}
	return strings.Join(sys, "\n\n"), strings.Join(rest, "\n\n")
}
