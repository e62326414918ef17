package types

import (
	"context"
	"encoding/json"
	"time"
)

// Geocoder is the backend capability contract. Geocode resolves a location
// string into zero or more raw candidate records, exactly as the upstream
// service returned them; normalization is the dispatcher's job. Failures are
// ordinary error values, never panics.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, query string) ([]json.RawMessage, error)
}

// TransportCarrier is implemented by backends that accept the shared HTTP
// transport handle.
type TransportCarrier interface {
	SetTransport(t *Transport)
}

// Store is the query-keyed result cache. Get returns ErrCacheMiss for
// unknown keys. The contract has no delete and no clear; entries live for
// the store's lifetime.
type Store interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	EntryCount() int
	Close() error
}

// StoreStatsProvider is implemented by stores that track their own counters.
type StoreStatsProvider interface {
	Stats() StoreStats
}

type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, dest interface{}) error
}

// MetricsRecorder receives dispatch events.
type MetricsRecorder interface {
	RecordCacheHit(query string, latency time.Duration)
	RecordCacheMiss(query string, latency time.Duration)
	RecordAttempt(geocoder string, latency time.Duration, err error)
	RecordResolve(geocoder string, results int, latency time.Duration)
}

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
