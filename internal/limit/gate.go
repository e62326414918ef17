// Package limit provides per-provider outbound concurrency caps. Public
// geocoding services publish politeness limits (Nominatim allows one
// request at a time); a Gate enforces that across resolve calls without
// ever parallelizing the registry walk itself.
package limit

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tilebound/geomux/internal/types"
)

// Gate is a channel semaphore admitting at most maxConcurrent requests.
type Gate struct {
	maxConcurrent int
	maxWait       time.Duration
	semaphore     chan struct{}

	activeCount  atomic.Int32
	waitingCount atomic.Int32
	admitted     atomic.Int64
	rejected     atomic.Int64
}

// New creates a gate admitting maxConcurrent requests at once. Admission
// that cannot proceed within maxWait fails with ErrGateTimeout; maxWait <= 0
// refuses to wait at all and fails with ErrGateFull. maxConcurrent <= 0
// means unlimited.
func New(maxConcurrent int, maxWait time.Duration) *Gate {
	g := &Gate{
		maxConcurrent: maxConcurrent,
		maxWait:       maxWait,
	}
	if maxConcurrent > 0 {
		g.semaphore = make(chan struct{}, maxConcurrent)
	}
	return g
}

// Do runs fn inside an admission slot.
func (g *Gate) Do(ctx context.Context, fn func(context.Context) error) error {
	if g.semaphore != nil {
		if err := g.acquire(ctx); err != nil {
			return err
		}
		defer g.release()
	}

	g.admitted.Add(1)
	g.activeCount.Add(1)
	defer g.activeCount.Add(-1)

	return fn(ctx)
}

func (g *Gate) acquire(ctx context.Context) error {
	select {
	case g.semaphore <- struct{}{}:
		return nil
	default:
	}

	if g.maxWait <= 0 {
		g.rejected.Add(1)
		return types.ErrGateFull
	}

	g.waitingCount.Add(1)
	defer g.waitingCount.Add(-1)

	timeoutCtx, cancel := context.WithTimeout(ctx, g.maxWait)
	defer cancel()

	select {
	case g.semaphore <- struct{}{}:
		return nil
	case <-timeoutCtx.Done():
		g.rejected.Add(1)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return types.ErrGateTimeout
	}
}

func (g *Gate) release() {
	<-g.semaphore
}

// ActiveCount returns the number of requests currently inside the gate.
func (g *Gate) ActiveCount() int {
	return int(g.activeCount.Load())
}

// WaitingCount returns the number of requests waiting for a slot.
func (g *Gate) WaitingCount() int {
	return int(g.waitingCount.Load())
}

// Stats returns gate counters.
func (g *Gate) Stats() Stats {
	return Stats{
		MaxConcurrent: g.maxConcurrent,
		Active:        int(g.activeCount.Load()),
		Waiting:       int(g.waitingCount.Load()),
		Admitted:      g.admitted.Load(),
		Rejected:      g.rejected.Load(),
	}
}

// Stats contains gate counters.
type Stats struct {
	MaxConcurrent int
	Active        int
	Waiting       int
	Admitted      int64
	Rejected      int64
}
