package types

import (
	"errors"
	"fmt"
)

var (
	ErrCacheMiss        = errors.New("geomux: query not cached")
	ErrStoreClosed      = errors.New("geomux: store closed")
	ErrDispatcherClosed = errors.New("geomux: dispatcher closed")
	ErrGateFull         = errors.New("geomux: gate at capacity")
	ErrGateTimeout      = errors.New("geomux: gate admission timeout")
	ErrMissingAPIKey    = errors.New("geomux: missing API key")
	ErrUnknownScheme    = errors.New("geomux: unknown provider scheme")
)

type GeocodeError struct {
	Op       string
	Geocoder string
	Query    string
	Err      error
}

func (e *GeocodeError) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("geocode %s on %s [%s]: %v", e.Op, e.Geocoder, e.Query, e.Err)
	}
	return fmt.Sprintf("geocode %s on %s: %v", e.Op, e.Geocoder, e.Err)
}

func (e *GeocodeError) Unwrap() error {
	return e.Err
}

func NewGeocodeError(op, geocoder, query string, err error) *GeocodeError {
	return &GeocodeError{
		Op:       op,
		Geocoder: geocoder,
		Query:    query,
		Err:      err,
	}
}

func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

func IsDispatcherClosed(err error) bool {
	return errors.Is(err, ErrDispatcherClosed)
}

// IsGateLimited reports whether err came from a gate that could not admit
// the request, either immediately full or timed out waiting.
func IsGateLimited(err error) bool {
	return errors.Is(err, ErrGateFull) || errors.Is(err, ErrGateTimeout)
}

func IsMissingAPIKey(err error) bool {
	return errors.Is(err, ErrMissingAPIKey)
}

func IsUnknownScheme(err error) bool {
	return errors.Is(err, ErrUnknownScheme)
}
