package chat

import (
	"fmt"
	"strings"
)

const (
	ChatRoleUser   = "user"      // Player or prompt
	ChatRoleAgent  = "assistant" // Model reply
	ChatRoleSystem = "system"    // Narrator instructions
)

// ChatMessage represents a single chat message in the conversation.
// The shape follows the OpenAI and Ollama chat APIs.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatResponse is the provider-neutral result of one completion.
type ChatResponse struct {
	Message string `json:"message,omitempty"`
	Model   string `json:"model,omitempty"`
}

// Validate checks that a message has a known role and some content.
func (m ChatMessage) Validate() error {
	switch m.Role {
	case ChatRoleUser, ChatRoleAgent, ChatRoleSystem:
	default:
		return fmt.Errorf("unknown chat role %q", m.Role)
	}
	if strings.TrimSpace(m.Content) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	return nil
}

// UserMessage is shorthand for a single user-role message.
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: ChatRoleUser, Content: content}
}
