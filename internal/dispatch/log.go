package dispatch

import (
	"sync"

	"github.com/tilebound/geomux/internal/types"
)

// attemptLog is the append-only record of backend invocations and cache hits.
// It grows until flushed.
type attemptLog struct {
	mu      sync.Mutex
	records []types.Attempt
}

func newAttemptLog() *attemptLog {
	return &attemptLog{}
}

func (l *attemptLog) Append(a types.Attempt) {
	l.mu.Lock()
	l.records = append(l.records, a)
	l.mu.Unlock()
}

// Snapshot returns a deep copy of the records in append order.
func (l *attemptLog) Snapshot() []types.Attempt {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]types.Attempt, len(l.records))
	for i, a := range l.records {
		out[i] = a.Clone()
	}
	return out
}

// Flush discards all records.
func (l *attemptLog) Flush() {
	l.mu.Lock()
	l.records = nil
	l.mu.Unlock()
}
