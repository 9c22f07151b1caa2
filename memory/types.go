package memory

import (
	"time"
)

// Memory is a block of text injected into an agent session's context
type Memory struct {
	ID        int64     `json:"id"`
	Session   string    `json:"session"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// SourceSearch marks memories produced by approved searches
const SourceSearch = "search"
