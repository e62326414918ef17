package types

import "time"

// DispatchStats contains a point-in-time view of dispatcher metrics.
//
//nolint:govet // Metrics struct with many counters - grouping by category improves readability
type DispatchStats struct {
	Timestamp time.Time
	// Cache counters
	CacheHits   int64
	CacheMisses int64
	// Walk counters
	Attempts      int64
	AttemptErrors int64
	Resolved      int64
	Unresolved    int64

	// Backend invocation latency (milliseconds)
	AvgLatencyMs float64
	P50LatencyMs float64
	P95LatencyMs float64
	P99LatencyMs float64

	// Attempts broken down by backend name
	AttemptsByGeocoder map[string]int64

	// Gate rejections observed among attempt errors
	GateRejected int64
}

// StoreStats contains counters a store tracks about itself.
type StoreStats struct {
	Hits      int64
	Misses    int64
	Sets      int64
	Evictions int64
}

// HitRatio calculates the store hit ratio.
func (s StoreStats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// CacheHitRatio calculates the cache hit ratio.
func (s *DispatchStats) CacheHitRatio() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// ResolveRatio calculates the share of registry walks that produced a result.
func (s *DispatchStats) ResolveRatio() float64 {
	total := s.Resolved + s.Unresolved
	if total == 0 {
		return 0
	}
	return float64(s.Resolved) / float64(total)
}
