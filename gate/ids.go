package gate

import (
	"fmt"
	"sync/atomic"
	"time"
)

// IDGenerator mints request ids of the form <prefix>-<unix millis>-<sequence>.
// The sequence keeps ids distinct when several are minted in the same millisecond.
type IDGenerator struct {
	prefix string
	seq    atomic.Uint64
	now    func() time.Time
}

// NewIDGenerator creates a generator; now defaults to time.Now
func NewIDGenerator(prefix string, now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{prefix: prefix, now: now}
}

// Next returns a fresh id
func (g *IDGenerator) Next() string {
	return fmt.Sprintf("%s-%d-%d", g.prefix, g.now().UnixMilli(), g.seq.Add(1))
}
