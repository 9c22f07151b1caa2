package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeT0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestRequest(id string, createdAt time.Time) PendingRequest {
	return PendingRequest{ID: id, Query: "rust ownership rules", Channel: "terminal", CreatedAt: createdAt}
}

func TestStoreAddAndGet(t *testing.T) {
	s := NewStore(time.Minute)
	req := newTestRequest("ai-1", storeT0)

	require.NoError(t, s.Add(req))
	assert.ErrorIs(t, s.Add(req), ErrDuplicateID)

	got, err := s.Get("ai-1", storeT0.Add(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, req, got)
	assert.Equal(t, 1, s.Len())

	_, err = s.Get("missing", storeT0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreExpiryBoundary(t *testing.T) {
	s := NewStore(time.Minute)
	require.NoError(t, s.Add(newTestRequest("ai-1", storeT0)))

	_, err := s.Get("ai-1", storeT0.Add(time.Minute))
	assert.NoError(t, err, "age equal to the timeout is still confirmable")

	_, err = s.Get("ai-1", storeT0.Add(time.Minute+time.Millisecond))
	assert.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, 1, s.Len(), "Get never removes")
}

func TestStoreClaimIsSingleUse(t *testing.T) {
	s := NewStore(time.Minute)
	require.NoError(t, s.Add(newTestRequest("ai-1", storeT0)))

	req, err := s.Claim("ai-1", storeT0.Add(time.Second), nil)
	require.NoError(t, err)
	assert.Equal(t, "ai-1", req.ID)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.List())

	_, err = s.Claim("ai-1", storeT0.Add(2*time.Second), nil)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get("ai-1", storeT0.Add(2*time.Second))
	assert.ErrorIs(t, err, ErrNotFound)

	assert.True(t, s.Remove("ai-1"))
	assert.False(t, s.Remove("ai-1"), "Remove is idempotent")

	_, err = s.Claim("ai-1", storeT0.Add(3*time.Second), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreClaimExpiredRemoves(t *testing.T) {
	s := NewStore(time.Minute)
	require.NoError(t, s.Add(newTestRequest("ai-1", storeT0)))

	req, err := s.Claim("ai-1", storeT0.Add(61*time.Second), nil)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, "rust ownership rules", req.Query)
	assert.False(t, s.Remove("ai-1"), "expired claim already removed the entry")

	_, err = s.Claim("ai-1", storeT0.Add(62*time.Second), nil)
	assert.ErrorIs(t, err, ErrNotFound, "an expired id is never re-matched")
}

func TestStoreClaimRejectedByAllow(t *testing.T) {
	s := NewStore(time.Minute)
	require.NoError(t, s.Add(newTestRequest("ai-1", storeT0)))

	deny := func(PendingRequest) bool { return false }
	_, err := s.Claim("ai-1", storeT0, deny)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, s.Len(), "a rejected claim leaves the entry pending")

	_, err = s.Claim("ai-1", storeT0, func(r PendingRequest) bool { return r.Channel == "terminal" })
	assert.NoError(t, err)
}

func TestStoreSweep(t *testing.T) {
	s := NewStore(time.Minute)
	require.NoError(t, s.Add(newTestRequest("old", storeT0)))
	require.NoError(t, s.Add(newTestRequest("claimed", storeT0)))
	require.NoError(t, s.Add(newTestRequest("fresh", storeT0.Add(30*time.Second))))

	_, err := s.Claim("claimed", storeT0, nil)
	require.NoError(t, err)

	removed := s.Sweep(storeT0.Add(80 * time.Second))
	assert.Equal(t, []string{"old"}, removed)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Remove("claimed"), "consumed entries belong to the executor")
}

func TestStoreListOrder(t *testing.T) {
	s := NewStore(time.Minute)
	require.NoError(t, s.Add(newTestRequest("c", storeT0.Add(2*time.Second))))
	require.NoError(t, s.Add(newTestRequest("b", storeT0)))
	require.NoError(t, s.Add(newTestRequest("a", storeT0)))

	var ids []string
	for _, r := range s.List() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
