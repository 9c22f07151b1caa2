package types

import (
	"context"
)

// InitiatorKind says who asked for a search. It decides where results go.
type InitiatorKind string

const (
	InitiatorAI   InitiatorKind = "ai"   // Results are injected into the agent's context
	InitiatorUser InitiatorKind = "user" // Results are rendered to the human-visible feed
)

// ActorClass keys cooldown rules
type ActorClass string

const (
	ActorUserDirect ActorClass = "user-direct"
	ActorAgentGated ActorClass = "agent-gated"
)

// Message is an inbound text event delivered by the host
type Message struct {
	ID      string // Optional; used to drop redeliveries
	Content string
	Author  string // Optional
	Channel string // Optional; conversation or session the message came from
}

// NotificationKind tags the semantic payload of an outbound notification
type NotificationKind string

const (
	NotifyPrompt    NotificationKind = "prompt"
	NotifyInvalidID NotificationKind = "invalid_id"
	NotifyExpired   NotificationKind = "expired"
	NotifySuccess   NotificationKind = "success"
	NotifyResults   NotificationKind = "results"
	NotifyFailure   NotificationKind = "failure"
	NotifyRejected  NotificationKind = "rejected"
	NotifyCooldown  NotificationKind = "cooldown"
)

// Notification is an outbound message requested from the host
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Content   string           `json:"content"`
	IsSystem  bool             `json:"is_system"`
	Author    string           `json:"author,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
	Query     string           `json:"query,omitempty"`
	Channel   string           `json:"channel,omitempty"`
}

// SearchResult is a single hit returned by a provider
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SearchProvider performs the external search
type SearchProvider interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// Messenger delivers outbound notifications
type Messenger interface {
	SendMessage(ctx context.Context, n Notification) error
}

// ContextSink receives text meant for the agent's working context.
// Delivery is best effort.
type ContextSink interface {
	InjectContextualMemory(ctx context.Context, text string) error
}
