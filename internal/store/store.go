// Package store provides the query-keyed result cache behind the dispatcher.
// Three implementations share the types.Store contract: unbounded (the
// default, process-lifetime), bounded (hard memory cap), and disabled.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tilebound/geomux/internal/config"
	"github.com/tilebound/geomux/internal/types"
)

// FromConfig builds the store the cache mode selects. An empty mode means
// unbounded.
func FromConfig(cfg config.CacheConfig, logger *slog.Logger) (types.Store, error) {
	switch cfg.Mode {
	case config.CacheModeOff:
		return NewDisabled(), nil
	case config.CacheModeBounded:
		return NewBounded(cfg, logger)
	case config.CacheModeUnbounded, "":
		return NewUnbounded(logger), nil
	default:
		return nil, fmt.Errorf("unknown cache mode %q", cfg.Mode)
	}
}

// JSONSerializer implements Serializer using JSON encoding.
type JSONSerializer struct{}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

// Marshal serializes a value to JSON bytes.
func (s *JSONSerializer) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal deserializes JSON bytes into the destination.
func (s *JSONSerializer) Unmarshal(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}

var _ types.Serializer = (*JSONSerializer)(nil)
