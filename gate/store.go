package gate

import (
	"sort"
	"sync"
	"time"
)

// PendingRequest is an agent search waiting for human confirmation.
// It is never modified after creation.
type PendingRequest struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Channel   string    `json:"channel,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Age returns how long the request has been pending at now
func (p PendingRequest) Age(now time.Time) time.Duration {
	return now.Sub(p.CreatedAt)
}

type pendingEntry struct {
	req      PendingRequest
	consumed bool // Handed to the executor; invisible to lookups until removed
}

// Store holds pending requests keyed by id.
// Every read-modify-write happens under one lock so confirmations cannot race.
type Store struct {
	mu      sync.Mutex
	entries map[string]*pendingEntry
	ttl     time.Duration
}

// NewStore creates a store whose entries stop being confirmable after ttl
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]*pendingEntry),
		ttl:     ttl,
	}
}

// TTL returns the confirmation window
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Add inserts a new pending request
func (s *Store) Add(req PendingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[req.ID]; exists {
		return ErrDuplicateID
	}
	s.entries[req.ID] = &pendingEntry{req: req}
	return nil
}

// Get looks up a request without changing it.
// Missing and consumed ids report ErrNotFound; entries past the TTL report ErrExpired.
func (s *Store) Get(id string, now time.Time) (PendingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.consumed {
		return PendingRequest{}, ErrNotFound
	}
	if e.req.Age(now) > s.ttl {
		return e.req, ErrExpired
	}
	return e.req, nil
}

// Claim atomically resolves a confirmation for id.
//
// If allow is non-nil and rejects the entry, ErrNotFound is returned and the entry is left alone.
// An expired entry is removed and ErrExpired returned. Otherwise the entry is marked consumed
// and returned; it stays in the map until Remove is called but no later lookup or claim sees it.
func (s *Store) Claim(id string, now time.Time, allow func(PendingRequest) bool) (PendingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.consumed {
		return PendingRequest{}, ErrNotFound
	}
	if allow != nil && !allow(e.req) {
		return PendingRequest{}, ErrNotFound
	}
	if e.req.Age(now) > s.ttl {
		delete(s.entries, id)
		return e.req, ErrExpired
	}

	e.consumed = true
	return e.req, nil
}

// Remove deletes id. Removing an unknown id is a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// Sweep removes unconsumed entries older than the TTL and returns their ids
func (s *Store) Sweep(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for id, e := range s.entries {
		if !e.consumed && e.req.Age(now) > s.ttl {
			delete(s.entries, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// Len returns the number of entries still awaiting confirmation
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.entries {
		if !e.consumed {
			n++
		}
	}
	return n
}

// List returns the entries still awaiting confirmation, oldest first.
// Entries past the TTL are included until a lookup or sweep removes them.
func (s *Store) List() []PendingRequest {
	s.mu.Lock()
	out := make([]PendingRequest, 0, len(s.entries))
	for _, e := range s.entries {
		if !e.consumed {
			out = append(out, e.req)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
