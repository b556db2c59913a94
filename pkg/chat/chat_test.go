package chat

import "testing"

func TestChatMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     ChatMessage
		wantErr bool
	}{
		{"user message", UserMessage("Describe the hall."), false},
		{"system message", ChatMessage{Role: ChatRoleSystem, Content: "You narrate."}, false},
		{"blank content", ChatMessage{Role: ChatRoleUser, Content: "  "}, true},
		{"unknown role", ChatMessage{Role: "npc", Content: "hi"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
