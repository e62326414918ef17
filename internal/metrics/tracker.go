// Package metrics provides dispatch metrics collection and publishing.
package metrics

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tilebound/geomux/internal/types"
)

const (
	defaultLatencyBufferSize = 10000
)

// Tracker accumulates dispatch events: cache hits and misses, backend
// attempts with their latencies, and walk outcomes.
type Tracker struct {
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64

	attempts      atomic.Int64
	attemptErrors atomic.Int64
	resolved      atomic.Int64
	unresolved    atomic.Int64

	gateRejected atomic.Int64

	byGeocoderMu sync.Mutex
	byGeocoder   map[string]int64

	latencyMu     sync.RWMutex
	latencyBuffer []time.Duration
	latencyIndex  int
	latencyCount  int
}

func NewTracker() *Tracker {
	return &Tracker{
		byGeocoder:    make(map[string]int64),
		latencyBuffer: make([]time.Duration, defaultLatencyBufferSize),
	}
}

func (t *Tracker) RecordCacheHit(query string, latency time.Duration) {
	t.cacheHits.Add(1)
}

func (t *Tracker) RecordCacheMiss(query string, latency time.Duration) {
	t.cacheMisses.Add(1)
}

// RecordAttempt records one backend invocation. Gate admission failures are
// counted separately from other errors.
func (t *Tracker) RecordAttempt(geocoder string, latency time.Duration, err error) {
	t.attempts.Add(1)
	if err != nil {
		t.attemptErrors.Add(1)
		if types.IsGateLimited(err) {
			t.gateRejected.Add(1)
		}
	}

	t.byGeocoderMu.Lock()
	t.byGeocoder[geocoder]++
	t.byGeocoderMu.Unlock()

	t.recordLatency(latency)
}

// RecordResolve records the outcome of a registry walk. A walk that produced
// no results counts as unresolved.
func (t *Tracker) RecordResolve(geocoder string, results int, latency time.Duration) {
	if results > 0 {
		t.resolved.Add(1)
	} else {
		t.unresolved.Add(1)
	}
}

// recordLatency adds a latency measurement using a circular buffer.
// This is O(1) time complexity with no memory allocations.
func (t *Tracker) recordLatency(latency time.Duration) {
	t.latencyMu.Lock()
	t.latencyBuffer[t.latencyIndex] = latency
	t.latencyIndex = (t.latencyIndex + 1) % len(t.latencyBuffer)
	if t.latencyCount < len(t.latencyBuffer) {
		t.latencyCount++
	}
	t.latencyMu.Unlock()
}

// Snapshot returns current metrics snapshot.
func (t *Tracker) Snapshot() types.DispatchStats {
	// Use RLock for reading - allows concurrent snapshots
	t.latencyMu.RLock()
	count := t.latencyCount
	latencyCopy := make([]time.Duration, count)
	// Copy from circular buffer in correct order
	if count > 0 {
		if count < len(t.latencyBuffer) {
			// Buffer not full yet - data starts at 0
			copy(latencyCopy, t.latencyBuffer[:count])
		} else {
			// Buffer is full - oldest data starts at latencyIndex
			firstPart := len(t.latencyBuffer) - t.latencyIndex
			copy(latencyCopy[:firstPart], t.latencyBuffer[t.latencyIndex:])
			copy(latencyCopy[firstPart:], t.latencyBuffer[:t.latencyIndex])
		}
	}
	t.latencyMu.RUnlock()

	t.byGeocoderMu.Lock()
	byGeocoder := make(map[string]int64, len(t.byGeocoder))
	for name, n := range t.byGeocoder {
		byGeocoder[name] = n
	}
	t.byGeocoderMu.Unlock()

	snapshot := types.DispatchStats{
		Timestamp:          time.Now(),
		CacheHits:          t.cacheHits.Load(),
		CacheMisses:        t.cacheMisses.Load(),
		Attempts:           t.attempts.Load(),
		AttemptErrors:      t.attemptErrors.Load(),
		Resolved:           t.resolved.Load(),
		Unresolved:         t.unresolved.Load(),
		GateRejected:       t.gateRejected.Load(),
		AttemptsByGeocoder: byGeocoder,
	}

	// Calculate latency percentiles
	if len(latencyCopy) > 0 {
		snapshot.AvgLatencyMs = float64(avgDuration(latencyCopy).Milliseconds())
		snapshot.P50LatencyMs = float64(percentile(latencyCopy, 50).Milliseconds())
		snapshot.P95LatencyMs = float64(percentile(latencyCopy, 95).Milliseconds())
		snapshot.P99LatencyMs = float64(percentile(latencyCopy, 99).Milliseconds())
	}

	return snapshot
}

// Reset clears all metrics.
func (t *Tracker) Reset() {
	t.cacheHits.Store(0)
	t.cacheMisses.Store(0)
	t.attempts.Store(0)
	t.attemptErrors.Store(0)
	t.resolved.Store(0)
	t.unresolved.Store(0)
	t.gateRejected.Store(0)

	t.byGeocoderMu.Lock()
	t.byGeocoder = make(map[string]int64)
	t.byGeocoderMu.Unlock()

	t.latencyMu.Lock()
	t.latencyIndex = 0
	t.latencyCount = 0
	t.latencyMu.Unlock()
}

// Helper functions for latency calculations

func avgDuration(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	return total / time.Duration(len(durations))
}

func percentile(durations []time.Duration, p int) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	// Sort a copy
	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	slices.Sort(sorted)

	idx := (len(sorted) - 1) * p / 100
	return sorted[idx]
}

// Ensure Tracker implements MetricsRecorder
var _ types.MetricsRecorder = (*Tracker)(nil)
