package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/tilebound/geomux/internal/config"
	"github.com/tilebound/geomux/internal/types"
)

// boundedLifeWindow keeps entries from aging out on their own; eviction
// under memory pressure is the only exit.
const boundedLifeWindow = 365 * 24 * time.Hour

// Bounded caps cache memory using BigCache. Opting in deviates from the
// no-eviction contract of the unbounded store, so evictions are counted
// and surfaced in logs.
type Bounded struct {
	cache  *bigcache.BigCache
	config config.CacheConfig
	logger *slog.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64

	closed atomic.Bool
}

// NewBounded creates a memory-capped store with the given configuration.
func NewBounded(cfg config.CacheConfig, logger *slog.Logger) (*Bounded, error) {
	if logger == nil {
		logger = slog.Default()
	}

	b := &Bounded{
		config: cfg,
		logger: logger.With("component", "store-bounded"),
	}

	bcConfig := bigcache.Config{
		Shards:             cfg.Shards,
		LifeWindow:         boundedLifeWindow,
		CleanWindow:        0,
		MaxEntriesInWindow: 1000 * 10 * 60, // Estimated entries in LifeWindow
		MaxEntrySize:       cfg.MaxEntrySize,
		HardMaxCacheSize:   cfg.MaxSizeMB,
		Verbose:            false,
		Logger:             &bigcacheLogger{logger: b.logger},
		OnRemoveWithReason: func(key string, entry []byte, reason bigcache.RemoveReason) {
			if reason == bigcache.NoSpace {
				b.evictions.Add(1)
				b.logger.Debug("entry evicted under memory pressure", "key", key)
			}
		},
	}

	bc, err := bigcache.New(context.Background(), bcConfig)
	if err != nil {
		return nil, err
	}

	b.cache = bc
	return b, nil
}

// Name returns the store name.
func (s *Bounded) Name() string {
	return "bounded"
}

// Get retrieves a cached value. Unknown keys return ErrCacheMiss.
func (s *Bounded) Get(ctx context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, types.ErrStoreClosed
	}

	data, err := s.cache.Get(key)
	if err != nil {
		if err == bigcache.ErrEntryNotFound {
			s.misses.Add(1)
			return nil, types.ErrCacheMiss
		}
		return nil, fmt.Errorf("bounded store get %q: %w", key, err)
	}

	s.hits.Add(1)
	return data, nil
}

// Set stores a value under the normalized query key.
func (s *Bounded) Set(ctx context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return types.ErrStoreClosed
	}

	if err := s.cache.Set(key, value); err != nil {
		return fmt.Errorf("bounded store set %q: %w", key, err)
	}

	s.sets.Add(1)
	return nil
}

// EntryCount returns the number of cached queries.
func (s *Bounded) EntryCount() int {
	return s.cache.Len()
}

// Close releases BigCache resources.
func (s *Bounded) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	s.logger.Info("store closed",
		"entries", s.cache.Len(),
		"evictions", s.evictions.Load(),
	)
	return s.cache.Close()
}

// Stats returns store counters, eviction count included.
func (s *Bounded) Stats() types.StoreStats {
	return types.StoreStats{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Sets:      s.sets.Load(),
		Evictions: s.evictions.Load(),
	}
}

type bigcacheLogger struct {
	logger *slog.Logger
}

func (l *bigcacheLogger) Printf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf("bigcache: "+format, args...))
}

var _ types.Store = (*Bounded)(nil)
var _ types.StoreStatsProvider = (*Bounded)(nil)
