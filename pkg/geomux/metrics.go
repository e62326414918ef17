package geomux

import (
	"time"

	"github.com/tilebound/geomux/internal/types"
)

type (
	// DispatchStats is a point-in-time view of dispatch metrics.
	DispatchStats = types.DispatchStats

	// StoreStats contains cache store counters.
	StoreStats = types.StoreStats

	// MetricsRecorder receives dispatch events as they happen. The tracker
	// in internal/metrics is the standard implementation; wire one in with
	// WithMetrics.
	MetricsRecorder = types.MetricsRecorder
)

// Publisher ships metric values and snapshots to an external sink, statsd
// style. geomux ships a logging publisher, a DataDog publisher and a no-op
// publisher.
type Publisher interface {
	Gauge(name string, value float64, tags ...string)
	Incr(name string, tags ...string)
	Count(name string, value int64, tags ...string)
	Histogram(name string, value float64, tags ...string)
	Timing(name string, duration time.Duration, tags ...string)
	Event(title, text, alertType string, tags ...string)
	PublishSnapshot(s *DispatchStats)
	Close() error
}
