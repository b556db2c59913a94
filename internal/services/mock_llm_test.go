package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jwebster45206/ai-dungeon-master/pkg/chat"
)

func TestMockLLMAPI(t *testing.T) {
	mock := NewMockLLMAPI()
	messages := []chat.ChatMessage{chat.UserMessage("Hello")}

	resp, err := mock.GetChatResponse(context.Background(), messages)
	if err != nil {
		t.Fatalf("GetChatResponse failed: %v", err)
	}
	if resp.Message != "Mock response" {
		t.Errorf("Expected 'Mock response', got '%s'", resp.Message)
	}

	mock.SetResponse("A dusty vault.")
	resp, _ = mock.GetChatResponse(context.Background(), messages)
	if resp.Message != "A dusty vault." {
		t.Errorf("Expected custom response, got '%s'", resp.Message)
	}

	boom := errors.New("boom")
	mock.SetGetChatResponseError(boom)
	if _, err := mock.GetChatResponse(context.Background(), messages); !errors.Is(err, boom) {
		t.Errorf("Expected configured error, got %v", err)
	}

	if mock.CallCount() != 3 {
		t.Errorf("Expected 3 calls, got %d", mock.CallCount())
	}
	if calls := mock.Calls(); calls[0].Messages[0].Content != "Hello" {
		t.Errorf("Recorded messages = %+v", calls[0].Messages)
	}

	mock.Reset()
	if mock.CallCount() != 0 {
		t.Error("Reset did not clear calls")
	}
}
