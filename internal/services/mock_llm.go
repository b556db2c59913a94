package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/ai-dungeon-master/pkg/chat"
)

// MockLLMAPI is a mock implementation of LLMService for testing
type MockLLMAPI struct {
	GetChatResponseFunc func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)

	// Track calls for testing
	GetChatResponseCalls []GetChatResponseCall

	mu sync.Mutex // protects all fields above
}

var _ LLMService = (*MockLLMAPI)(nil)

type GetChatResponseCall struct {
	Messages []chat.ChatMessage
}

// NewMockLLMAPI creates a new mock LLM service
func NewMockLLMAPI() *MockLLMAPI {
	return &MockLLMAPI{
		GetChatResponseCalls: make([]GetChatResponseCall, 0),
	}
}

// GetChatResponse mocks response generation
func (m *MockLLMAPI) GetChatResponse(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetChatResponseCalls = append(m.GetChatResponseCalls, GetChatResponseCall{
		Messages: messages,
	})

	if m.GetChatResponseFunc != nil {
		return m.GetChatResponseFunc(ctx, messages)
	}

	return &chat.ChatResponse{
		Message: "Mock response",
	}, nil
}

// SetResponse makes every call return message
func (m *MockLLMAPI) SetResponse(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetChatResponseFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return &chat.ChatResponse{Message: message}, nil
	}
}

// SetGetChatResponseError sets up the mock to return an error on every call
func (m *MockLLMAPI) SetGetChatResponseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetChatResponseFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return nil, err
	}
}

// CallCount returns how many times GetChatResponse ran
func (m *MockLLMAPI) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GetChatResponseCalls)
}

// Calls returns a copy of the call tracking data in a thread-safe way
func (m *MockLLMAPI) Calls() []GetChatResponseCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GetChatResponseCall, len(m.GetChatResponseCalls))
	copy(out, m.GetChatResponseCalls)
	return out
}

// Reset clears all call tracking
func (m *MockLLMAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetChatResponseCalls = make([]GetChatResponseCall, 0)
}
