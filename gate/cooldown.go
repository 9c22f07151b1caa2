package gate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"searchgate/core/types"
)

// CooldownGate throttles direct searches. Each actor class gets a burst-1 limiter
// refilling once per cooldown, so an admission is only possible cooldown after the last one.
type CooldownGate struct {
	mu       sync.Mutex
	cooldown time.Duration
	limiters map[types.ActorClass]*rate.Limiter
}

// NewCooldownGate creates a gate with the given minimum spacing
func NewCooldownGate(cooldown time.Duration) *CooldownGate {
	return &CooldownGate{
		cooldown: cooldown,
		limiters: make(map[types.ActorClass]*rate.Limiter),
	}
}

// Admit returns nil and records the invocation, or a *CooldownError with the remaining wait.
// Reserve and cancel happen under one lock; a rejected attempt leaves the window unchanged.
func (g *CooldownGate) Admit(class types.ActorClass, now time.Time) error {
	if g.cooldown <= 0 {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	lim, ok := g.limiters[class]
	if !ok {
		lim = rate.NewLimiter(rate.Every(g.cooldown), 1)
		g.limiters[class] = lim
	}

	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return &CooldownError{Class: class, Remaining: g.cooldown}
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return &CooldownError{Class: class, Remaining: delay}
	}
	return nil
}
