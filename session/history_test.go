package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryAddAndGet(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, "No conversation history", h.GetSummary())

	h.AddMessage(RoleUser, "/search golang generics")
	h.AddMessage(RoleAgent, `[SEARCH] "rust ownership rules"`)

	msgs := h.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, RoleAgent, msgs[1].Role)
	assert.Equal(t, 2, h.GetMessageCount())
	assert.Contains(t, h.GetSummary(), "2 messages")

	// The returned slice is a copy
	msgs[0].Content = "changed"
	assert.Equal(t, "/search golang generics", h.GetMessages()[0].Content)
}

func TestHistoryCapacity(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.AddMessage(RoleUser, fmt.Sprintf("msg-%d", i))
	}

	msgs := h.GetMessages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "msg-2", msgs[0].Content)
	assert.Equal(t, "msg-4", msgs[2].Content)
}

func TestHistoryInjectContextualMemory(t *testing.T) {
	h := NewHistory(0)
	h.AddMessage(RoleSystem, "✅ Search results added to context")
	require.NoError(t, h.InjectContextualMemory(context.Background(), "[Web Search: \"x\"]\nNo results.\n"))

	ctxMsgs := h.ByRole(RoleContext)
	require.Len(t, ctxMsgs, 1)
	assert.Contains(t, ctxMsgs[0].Content, "[Web Search:")
	assert.Empty(t, h.ByRole(RoleAgent))
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(0)
	h.AddMessage(RoleUser, "hello")
	h.Clear()
	assert.Equal(t, 0, h.GetMessageCount())
}
