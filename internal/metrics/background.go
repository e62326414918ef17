package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tilebound/geomux/pkg/geomux"
)

// BackgroundPublisher publishes dispatch statistics at regular intervals
// with context-based cancellation support.
type BackgroundPublisher struct {
	publisher   geomux.Publisher
	logger      *slog.Logger
	getSnapshot func() *geomux.DispatchStats
	cancel      context.CancelFunc
	ctx         context.Context
	wg          sync.WaitGroup
	interval    time.Duration
}

// NewBackgroundPublisher creates a new background publisher.
// The snapshotFn is called on each interval to get the current statistics.
func NewBackgroundPublisher(
	publisher geomux.Publisher,
	interval time.Duration,
	snapshotFn func() *geomux.DispatchStats,
	logger *slog.Logger,
) *BackgroundPublisher {
	if logger == nil {
		logger = slog.Default()
	}

	return &BackgroundPublisher{
		publisher:   publisher,
		interval:    interval,
		logger:      logger.With("component", "metrics-background"),
		getSnapshot: snapshotFn,
	}
}

// NewTrackerPublisher creates a background publisher fed by a tracker.
func NewTrackerPublisher(
	tracker *Tracker,
	publisher geomux.Publisher,
	interval time.Duration,
	logger *slog.Logger,
) *BackgroundPublisher {
	return NewBackgroundPublisher(
		publisher,
		interval,
		func() *geomux.DispatchStats {
			snapshot := tracker.Snapshot()
			return &snapshot
		},
		logger,
	)
}

// Start begins the background publishing loop.
// The provided context controls the lifecycle of the background goroutine.
func (b *BackgroundPublisher) Start(ctx context.Context) {
	b.ctx, b.cancel = context.WithCancel(ctx)
	b.wg.Add(1)
	go b.run()
	b.logger.Info("Background metrics publisher started", "interval", b.interval)
}

// Stop cancels the background context and waits for shutdown.
func (b *BackgroundPublisher) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
	b.logger.Info("Background metrics publisher stopped")
}

func (b *BackgroundPublisher) run() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.ctx.Done():
			// Final publish before stopping
			b.publish()
			return
		case <-ticker.C:
			b.publish()
		}
	}
}

func (b *BackgroundPublisher) publish() {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in metrics publisher", "panic", r)
		}
	}()

	if b.getSnapshot == nil {
		return
	}

	snapshot := b.getSnapshot()
	if snapshot != nil {
		b.publisher.PublishSnapshot(snapshot)
	}
}

// PublishNow triggers an immediate metrics publish.
func (b *BackgroundPublisher) PublishNow() {
	b.publish()
}
