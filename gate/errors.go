package gate

import (
	"errors"
	"fmt"
	"time"

	"searchgate/core/types"
)

var (
	// ErrNotFound means the id is unknown, already consumed, or not confirmable from this channel
	ErrNotFound = errors.New("search request not found")

	// ErrExpired means the id was found but its confirmation window had passed
	ErrExpired = errors.New("search request expired")

	// ErrDuplicateID is returned when a store insert collides with a live id
	ErrDuplicateID = errors.New("search request id already pending")

	ErrTooShort = errors.New("query too short")
	ErrTooLong  = errors.New("query too long")
	ErrCooldown = errors.New("search cooldown active")
)

// ValidationError reports a query outside the configured length bounds.
// It unwraps to ErrTooShort or ErrTooLong.
type ValidationError struct {
	Reason error
	Length int
	Limit  int
}

func (e *ValidationError) Error() string {
	if errors.Is(e.Reason, ErrTooShort) {
		return fmt.Sprintf("Query too short (minimum %d characters)", e.Limit)
	}
	return fmt.Sprintf("Query too long (maximum %d characters)", e.Limit)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// CooldownError reports a direct search attempted inside the cooldown window
type CooldownError struct {
	Class     types.ActorClass
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("Please wait %s before searching again", formatWait(e.Remaining))
}

func (e *CooldownError) Unwrap() error {
	return ErrCooldown
}

// ProviderError wraps any failure of the external search call
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// formatWait rounds a wait up to whole seconds so "0s" is never shown
func formatWait(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("%ds", secs)
}
