package geomux

import (
	"github.com/tilebound/geomux/internal/dispatch"
	"github.com/tilebound/geomux/internal/types"
)

type (
	// Dispatcher resolves location strings against an ordered registry of
	// geocoding backends.
	Dispatcher = dispatch.Dispatcher

	// Geocoder is the backend capability contract.
	Geocoder = types.Geocoder

	// TransportCarrier is implemented by backends that accept the shared
	// transport handle.
	TransportCarrier = types.TransportCarrier

	// Entry pairs a backend with its eligibility predicate.
	Entry = types.Entry

	// Predicate decides whether an entry handles a normalized query.
	Predicate = types.Predicate

	// Result is the canonical geocoding result.
	Result = types.Result

	// LatLng is a WGS84 coordinate pair.
	LatLng = types.LatLng

	// Geometry wraps the coordinate of a result.
	Geometry = types.Geometry

	// Address carries the promoted address fields of a result.
	Address = types.Address

	// Attempt is one record of the dispatch log.
	Attempt = types.Attempt

	// Transport bundles the HTTP client and User-Agent shared by providers.
	Transport = types.Transport

	// Store is the cache contract behind the dispatcher.
	Store = types.Store

	// Serializer encodes cached batches.
	Serializer = types.Serializer

	// Logger is the minimal leveled logging contract.
	Logger = types.Logger

	// SecretString holds a credential that redacts itself when printed.
	SecretString = types.SecretString
)

// Unconditional wraps a backend into an entry that handles every query.
func Unconditional(g Geocoder) Entry {
	return types.Unconditional(g)
}

// Conditional wraps a backend into an entry gated by a predicate.
func Conditional(p Predicate, g Geocoder) Entry {
	return types.Conditional(p, g)
}

// NormalizeQuery collapses whitespace runs to single spaces and trims the
// ends. Cache keys and predicates see queries in this form.
func NormalizeQuery(query string) string {
	return types.NormalizeQuery(query)
}

// NewSecretString wraps a credential value.
func NewSecretString(value string) SecretString {
	return types.NewSecretString(value)
}
