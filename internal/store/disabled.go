package store

import (
	"context"

	"github.com/tilebound/geomux/internal/types"
)

// Disabled is the no-op store twin: every Get misses and every Set
// succeeds, so each resolve walks the registry.
type Disabled struct{}

// NewDisabled creates a new disabled store.
func NewDisabled() *Disabled {
	return &Disabled{}
}

// Name returns the store name.
func (s *Disabled) Name() string { return "disabled" }

// Get returns ErrCacheMiss as this store is disabled.
func (s *Disabled) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, types.ErrCacheMiss
}

// Set does nothing as this store is disabled.
func (s *Disabled) Set(ctx context.Context, key string, value []byte) error {
	return nil
}

// EntryCount returns 0 as this store is disabled.
func (s *Disabled) EntryCount() int { return 0 }

// Close does nothing as this store is disabled.
func (s *Disabled) Close() error { return nil }

// Stats returns empty counters as this store is disabled.
func (s *Disabled) Stats() types.StoreStats { return types.StoreStats{} }

var _ types.Store = (*Disabled)(nil)
var _ types.StoreStatsProvider = (*Disabled)(nil)
