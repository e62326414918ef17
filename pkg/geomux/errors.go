package geomux

import (
	"github.com/tilebound/geomux/internal/types"
)

// GeocodeError is the structured error describing a failed backend operation.
type GeocodeError = types.GeocodeError

var (
	// ErrCacheMiss indicates that a query is not cached.
	ErrCacheMiss = types.ErrCacheMiss
	// ErrStoreClosed indicates that the cache store has been closed.
	ErrStoreClosed = types.ErrStoreClosed
	// ErrDispatcherClosed indicates that the dispatcher has been closed.
	ErrDispatcherClosed = types.ErrDispatcherClosed
	// ErrGateFull indicates that a provider's concurrency gate is at capacity.
	ErrGateFull = types.ErrGateFull
	// ErrGateTimeout indicates that no gate slot opened within the wait deadline.
	ErrGateTimeout = types.ErrGateTimeout
	// ErrMissingAPIKey indicates that a provider got no API key.
	ErrMissingAPIKey = types.ErrMissingAPIKey
	// ErrUnknownScheme indicates that no provider is registered for the URI scheme.
	ErrUnknownScheme = types.ErrUnknownScheme
)

// NewGeocodeError creates a structured geocode error with operation,
// geocoder, query, and underlying error.
func NewGeocodeError(op, geocoder, query string, err error) *GeocodeError {
	return types.NewGeocodeError(op, geocoder, query, err)
}

// IsCacheMiss returns true if the error is a cache miss.
func IsCacheMiss(err error) bool {
	return types.IsCacheMiss(err)
}

// IsDispatcherClosed returns true if the error indicates a closed dispatcher.
func IsDispatcherClosed(err error) bool {
	return types.IsDispatcherClosed(err)
}

// IsGateLimited returns true if the error came from a provider's concurrency
// gate, full or timed out.
func IsGateLimited(err error) bool {
	return types.IsGateLimited(err)
}

// IsMissingAPIKey returns true if the error indicates a missing credential.
func IsMissingAPIKey(err error) bool {
	return types.IsMissingAPIKey(err)
}

// IsUnknownScheme returns true if the error indicates an unregistered
// provider scheme.
func IsUnknownScheme(err error) bool {
	return types.IsUnknownScheme(err)
}
