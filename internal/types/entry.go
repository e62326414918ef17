package types

// Predicate restricts which queries a conditional registry entry may handle.
// It receives the normalized query text.
type Predicate func(query string) bool

// Entry is one backend in the dispatch order, optionally guarded by a routing
// predicate. Fields are unexported so Unconditional and Conditional are the
// only two inhabitants.
type Entry struct {
	geocoder  Geocoder
	predicate Predicate
}

// Unconditional returns an entry eligible for every query.
func Unconditional(g Geocoder) Entry {
	return Entry{geocoder: g}
}

// Conditional returns an entry consulted only when p accepts the query.
func Conditional(p Predicate, g Geocoder) Entry {
	return Entry{geocoder: g, predicate: p}
}

// Geocoder returns the underlying backend.
func (e Entry) Geocoder() Geocoder {
	return e.geocoder
}

// Eligible reports whether the entry may handle the normalized query.
// Unconditional entries accept everything.
func (e Entry) Eligible(query string) bool {
	if e.predicate == nil {
		return true
	}
	return e.predicate(query)
}
