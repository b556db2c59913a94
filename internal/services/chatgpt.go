package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jwebster45206/ai-dungeon-master/pkg/chat"
)

const (
	chatGPTBaseURL = "https://api.openai.com/v1"
)

// ChatGPTService implements LLMService for OpenAI's chat completions API
type ChatGPTService struct {
	apiKey     string
	modelName  string
	baseURL    string
	httpClient *http.Client
}

var _ LLMService = (*ChatGPTService)(nil)

// ChatGPTRequest is the chat completions request body
type ChatGPTRequest struct {
	Model       string             `json:"model"`
	Messages    []chat.ChatMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
}

// ChatGPTResponse is the subset of the chat completions response we read
type ChatGPTResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewChatGPTService creates a new ChatGPT service
func NewChatGPTService(apiKey string, modelName string) *ChatGPTService {
	return &ChatGPTService{
		apiKey:    apiKey,
		modelName: modelName,
		baseURL:   chatGPTBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// WithBaseURL points the client at another OpenAI-compatible endpoint.
func (c *ChatGPTService) WithBaseURL(url string) *ChatGPTService {
	c.baseURL = url
	return c
}

// GetChatResponse requests a single completion
func (c *ChatGPTService) GetChatResponse(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}

	reqBody, err := json.Marshal(ChatGPTRequest{
		Model:       c.modelName,
		Messages:    messages,
		MaxTokens:   NarrativeMaxTokens,
		Temperature: 0.8,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var out ChatGPTResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("API error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned from API")
	}

	msg := out.Choices[0].Message
	if msg.Refusal != "" {
		return nil, fmt.Errorf("model refused to respond: %s", msg.Refusal)
	}
	if msg.Content == "" {
		return nil, fmt.Errorf("no text content found in response")
	}

	return &chat.ChatResponse{
		Message: msg.Content,
		Model:   out.Model,
	}, nil
}
