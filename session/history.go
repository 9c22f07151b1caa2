package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Roles recorded in a conversation
const (
	RoleUser    = "user"
	RoleAgent   = "agent"
	RoleSystem  = "system"
	RoleContext = "context" // Text injected into the agent's working context
)

// Message represents a single message in the conversation
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// History maintains the transcript of a chat session
type History struct {
	messages    []Message
	maxMessages int // 0 = unlimited
	mu          sync.RWMutex
}

// NewHistory creates a new conversation history keeping at most maxMessages entries
func NewHistory(maxMessages int) *History {
	return &History{
		messages:    make([]Message, 0),
		maxMessages: maxMessages,
	}
}

// AddMessage appends a message, dropping the oldest when over capacity
func (h *History) AddMessage(role, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = append(h.messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})

	if h.maxMessages > 0 && len(h.messages) > h.maxMessages {
		h.messages = h.messages[len(h.messages)-h.maxMessages:]
	}
}

// InjectContextualMemory records text as agent context
func (h *History) InjectContextualMemory(_ context.Context, text string) error {
	h.AddMessage(RoleContext, text)
	return nil
}

// GetMessages returns a copy of all messages
func (h *History) GetMessages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Message(nil), h.messages...)
}

// ByRole returns messages with the given role, oldest first
func (h *History) ByRole(role string) []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []Message
	for _, m := range h.messages {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

// GetMessageCount returns the number of messages in history
func (h *History) GetMessageCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Clear removes all messages from the history
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}

// GetSummary returns a brief summary of the conversation history
func (h *History) GetSummary() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.messages) == 0 {
		return "No conversation history"
	}

	return fmt.Sprintf("%d messages, started %s",
		len(h.messages), h.messages[0].Timestamp.Format("15:04:05"))
}
