package resilience

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// Pacer spaces outbound calls by a randomized interval. The schedule is
// shared, so concurrent callers collectively stay under one request per
// interval no matter how many goroutines fetch.
type Pacer struct {
	mu     sync.Mutex
	next   time.Time
	base   time.Duration
	jitter time.Duration
	now    func() time.Time
}

func NewPacer(base, jitter time.Duration) *Pacer {
	if base < 0 {
		base = 0
	}
	if jitter < 0 {
		jitter = 0
	}

	return &Pacer{
		base:   base,
		jitter: jitter,
		now:    time.Now,
	}
}

// Wait blocks until the caller's reserved slot comes up. A nil or
// zero-interval pacer returns immediately.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || (p.base <= 0 && p.jitter <= 0) {
		return ctx.Err()
	}

	interval := p.base
	if p.jitter > 0 {
		interval += time.Duration(rand.Float64() * float64(p.jitter))
	}

	p.mu.Lock()
	now := p.now()
	slot := p.next
	if slot.Before(now) {
		slot = now
	}
	p.next = slot.Add(interval)
	p.mu.Unlock()

	if !sleepContext(ctx, slot.Sub(now)) {
		return ctx.Err()
	}

	return nil
}
