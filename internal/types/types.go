// Package types provides shared types for the geomux geocoding library.
// This package breaks import cycles between pkg/geomux and the internal packages.
package types

import (
	"net/http"
	"time"
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry is the coordinate envelope of a canonical result.
type Geometry struct {
	Location LatLng `json:"location"`
}

// Address holds the address fields promoted from a raw candidate, when the
// backend supplied any.
type Address struct {
	Country  string `json:"country,omitempty"`
	State    string `json:"state,omitempty"`
	City     string `json:"city,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}

// Result is the canonical record every backend shape normalizes into.
// Geocoder names the backend that produced the result; it is populated only
// on results fresh from a backend and stripped before a cache hit is handed
// to the caller.
type Result struct {
	Geometry Geometry `json:"geometry"`
	Address  *Address `json:"address,omitempty"`
	Geocoder string   `json:"geocoder,omitempty"`
}

// Clone returns a copy whose Address does not alias the receiver's.
func (r Result) Clone() Result {
	out := r
	if r.Address != nil {
		addr := *r.Address
		out.Address = &addr
	}
	return out
}

// CloneResults deep-copies a result slice. A nil input stays nil.
func CloneResults(results []Result) []Result {
	if results == nil {
		return nil
	}
	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = r.Clone()
	}
	return out
}

// Attempt is one dispatch log record: a single backend invocation, or a
// synthetic zero-elapsed record for a cache hit.
type Attempt struct {
	Location string        `json:"location"`
	Geocoder string        `json:"geocoder,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
	Err      string        `json:"err,omitempty"`
	Results  []Result      `json:"results,omitempty"`
}

// CacheHit reports whether the record was served from the cache rather than
// a backend invocation. Cache hits carry no geocoder name.
func (a Attempt) CacheHit() bool {
	return a.Geocoder == ""
}

// Failed reports whether the invocation ended in an error.
func (a Attempt) Failed() bool {
	return a.Err != ""
}

// Clone returns a copy whose Results do not alias the receiver's.
func (a Attempt) Clone() Attempt {
	out := a
	out.Results = CloneResults(a.Results)
	return out
}

// Transport is the shared HTTP handle propagated to backends that carry one.
type Transport struct {
	Client    *http.Client
	UserAgent string
}
