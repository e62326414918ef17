package store

import (
	"context"
	"log/slog"
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tilebound/geomux/internal/types"
)

// Unbounded is the default query cache: entries live for the process's
// lifetime with no TTL, no janitor, and no size cap. Long-running
// deployments that cannot afford that pick the bounded store instead.
type Unbounded struct {
	cache  *gocache.Cache
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64

	closed atomic.Bool
}

// NewUnbounded creates the process-lifetime store.
func NewUnbounded(logger *slog.Logger) *Unbounded {
	if logger == nil {
		logger = slog.Default()
	}

	return &Unbounded{
		cache:  gocache.New(gocache.NoExpiration, 0),
		logger: logger.With("component", "store-unbounded"),
	}
}

// Name returns the store name.
func (s *Unbounded) Name() string {
	return "unbounded"
}

// Get retrieves a cached value. Unknown keys return ErrCacheMiss.
func (s *Unbounded) Get(ctx context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, types.ErrStoreClosed
	}

	v, found := s.cache.Get(key)
	if !found {
		s.misses.Add(1)
		return nil, types.ErrCacheMiss
	}

	data, ok := v.([]byte)
	if !ok {
		s.misses.Add(1)
		return nil, types.ErrCacheMiss
	}

	s.hits.Add(1)
	return data, nil
}

// Set stores a value under the normalized query key, for the process's
// lifetime.
func (s *Unbounded) Set(ctx context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return types.ErrStoreClosed
	}

	s.cache.Set(key, value, gocache.NoExpiration)
	s.sets.Add(1)
	return nil
}

// EntryCount returns the number of cached queries.
func (s *Unbounded) EntryCount() int {
	return s.cache.ItemCount()
}

// Close marks the store closed. The underlying map is garbage collected
// with the store.
func (s *Unbounded) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.logger.Debug("store closed", "entries", s.cache.ItemCount())
	return nil
}

// Stats returns store counters.
func (s *Unbounded) Stats() types.StoreStats {
	return types.StoreStats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Sets:   s.sets.Load(),
	}
}

var _ types.Store = (*Unbounded)(nil)
var _ types.StoreStatsProvider = (*Unbounded)(nil)
