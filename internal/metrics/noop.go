package metrics

import (
	"time"

	"github.com/tilebound/geomux/internal/types"
	"github.com/tilebound/geomux/pkg/geomux"
)

// NoOpTracker is a no-operation metrics tracker for testing.
type NoOpTracker struct{}

// NewNoOpTracker creates a new no-op tracker.
func NewNoOpTracker() *NoOpTracker {
	return &NoOpTracker{}
}

// RecordCacheHit does nothing.
func (t *NoOpTracker) RecordCacheHit(query string, latency time.Duration) {}

// RecordCacheMiss does nothing.
func (t *NoOpTracker) RecordCacheMiss(query string, latency time.Duration) {}

// RecordAttempt does nothing.
func (t *NoOpTracker) RecordAttempt(geocoder string, latency time.Duration, err error) {}

// RecordResolve does nothing.
func (t *NoOpTracker) RecordResolve(geocoder string, results int, latency time.Duration) {}

// Snapshot returns empty statistics.
func (t *NoOpTracker) Snapshot() types.DispatchStats { return types.DispatchStats{} }

// Reset does nothing.
func (t *NoOpTracker) Reset() {}

// NoOpPublisher is a no-operation metrics publisher for testing or when disabled.
type NoOpPublisher struct{}

// NewNoOpPublisher creates a new no-op publisher.
func NewNoOpPublisher() *NoOpPublisher {
	return &NoOpPublisher{}
}

// Gauge does nothing.
func (p *NoOpPublisher) Gauge(name string, value float64, tags ...string) {}

// Incr does nothing.
func (p *NoOpPublisher) Incr(name string, tags ...string) {}

// Count does nothing.
func (p *NoOpPublisher) Count(name string, value int64, tags ...string) {}

// Histogram does nothing.
func (p *NoOpPublisher) Histogram(name string, value float64, tags ...string) {}

// Timing does nothing.
func (p *NoOpPublisher) Timing(name string, duration time.Duration, tags ...string) {}

// Event does nothing.
func (p *NoOpPublisher) Event(title, text, alertType string, tags ...string) {}

// PublishSnapshot does nothing.
func (p *NoOpPublisher) PublishSnapshot(s *geomux.DispatchStats) {}

// Close does nothing.
func (p *NoOpPublisher) Close() error { return nil }

// Ensure interfaces are implemented
var _ types.MetricsRecorder = (*NoOpTracker)(nil)
var _ geomux.Publisher = (*NoOpPublisher)(nil)
