package storage

import (
	"context"
	"sync"
	"time"

	"github.com/your-org/lpr/internal/observability"
)

// Pacer enforces a minimum interval between remote store calls. It is a
// gentle global pacing guard, not a rate limiter: each caller reserves
// the next free slot and sleeps until it arrives.
type Pacer struct {
	mu          sync.Mutex
	minInterval time.Duration
	next        time.Time
}

func NewPacer(minInterval time.Duration) *Pacer {
	return &Pacer{minInterval: minInterval}
}

// Wait blocks until the caller's slot arrives or ctx is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.minInterval <= 0 {
		return nil
	}

	p.mu.Lock()
	now := time.Now()
	if p.next.Before(now) {
		p.next = now
	}
	wait := p.next.Sub(now)
	p.next = p.next.Add(p.minInterval)
	p.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	observability.ThrottleWait.Observe(wait.Seconds())

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
