// Package geomux provides a geocoding multiplexer: one lookup API over an
// ordered registry of geocoding backends with heterogeneous response shapes.
//
// A dispatcher tries its backends in registration order, optionally gated by
// per-backend predicates, normalizes the first usable response batch into a
// canonical coordinate schema, caches the outcome per normalized query, and
// records every backend invocation in an append-only log.
//
// # Features
//
//   - Ordered Fallback: Backends are tried in priority order; the first usable
//     batch wins and later backends are never invoked
//   - Conditional Routing: Entries carry predicates (regexp or arbitrary
//     functions) so queries can be steered to specialist backends
//   - Shape Normalization: Nominatim, Google, Photon, positionstack and
//     GeoJSON response shapes all map onto one canonical result schema
//   - Query Cache: Results are cached under the whitespace-normalized query;
//     repeat lookups never touch a backend
//   - Attempt Log: Every invocation, failure, and cache hit is recorded and
//     inspectable
//   - Observability: Pluggable metrics recording with logging and DataDog
//     publishers
//
// # Quick Start
//
// Create a dispatcher, register a provider, and resolve:
//
//	d, err := geomux.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer d.Close()
//
//	nominatim, err := geomux.NewProvider(ctx, "nominatim://?email=ops@example.org")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	d.Register(geomux.Unconditional(nominatim))
//
//	result := d.ResolveOne(ctx, "350 5th Ave, New York")
//	if result != nil {
//	    fmt.Println(result.Geometry.Location.Lat, result.Geometry.Location.Lng)
//	}
//
// # Registering Backends
//
// Any type implementing Geocoder can be registered. Entries are tried in
// registration order; Conditional entries only when their predicate accepts
// the normalized query:
//
//	de := regexp.MustCompile(`(?i)\b(berlin|hamburg|münchen)\b`)
//	d.Register(geomux.Conditional(de.MatchString, german)).
//	    Register(geomux.Unconditional(global))
//
// # Resolve Modes
//
// ResolveOne returns the single best result, ResolveAll the full candidate
// batch of the winning backend. Both return empty when no backend resolves
// the query; neither returns an error. The attempt log tells the two cases
// apart.
//
// # Caching
//
// Results are cached under the normalized query ("  Oslo ,  Norway " and
// "Oslo , Norway" share one entry) for the dispatcher's lifetime. Cached
// results come back without backend attribution. Cache modes: unbounded (the
// default), bounded (hard memory cap), off.
//
// # The Attempt Log
//
// Log returns a snapshot of every backend invocation with elapsed time,
// error text, and result payloads; cache hits appear with a zero elapsed
// time and no backend name. Flush clears the log without touching the cache.
//
// # Configuration
//
// Dispatchers can be built from configuration, with providers named by URI:
//
//	cfg := geomux.Config()
//	cfg.Providers = []config.ProviderConfig{
//	    {URI: "nominatim://?limit=3", Match: `(?i)\bberlin\b`},
//	    {URI: "google://?region=us"},
//	}
//	d, err := geomux.NewFromConfig(ctx, cfg)
//
// Or from a JSON file plus GEOMUX_* environment overrides:
//
//	d, err := geomux.NewFromFile(ctx, "geomux.json")
//
// # Observability
//
// Wire a metrics recorder in at construction:
//
//	tracker := metrics.NewTracker()
//	d, err := geomux.New(geomux.WithMetrics(tracker))
//
// # Thread Safety
//
// All dispatcher operations are safe for concurrent use. Concurrent resolves
// of the same query share one registry walk.
package geomux
