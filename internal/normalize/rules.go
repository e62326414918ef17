package normalize

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"

	"github.com/tilebound/geomux/internal/types"
)

// Rule maps one recognized candidate shape onto canonical coordinates.
// Extract reports ok only when both coordinates are present; zero is a
// valid coordinate.
type Rule struct {
	Name    string
	Extract func(raw []byte) (types.LatLng, bool)
}

// DefaultRules returns the recognized shape table in evaluation order.
// First match wins, so narrower shapes sit above broader ones.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "nested-object", Extract: pathPair("geometry.location.lat", "geometry.location.lng")},
		{Name: "flat-latlng", Extract: pathPair("lat", "lng")},
		{Name: "flat-latlon", Extract: pathPair("lat", "lon")},
		{Name: "flat-verbose", Extract: pathPair("latitude", "longitude")},
		{Name: "flat-legacy", Extract: pathPair("latt", "longt")},
		{Name: "geojson", Extract: extractGeoJSON},
		{Name: "nested-first-match", Extract: pathPair("results.0.locations.0.latLng.lat", "results.0.locations.0.latLng.lng")},
		{Name: "bare-pair", Extract: extractBarePair},
	}
}

// pathPair builds an extractor probing one gjson path per coordinate.
func pathPair(latPath, lngPath string) func([]byte) (types.LatLng, bool) {
	return func(raw []byte) (types.LatLng, bool) {
		lat, ok := coord(gjson.GetBytes(raw, latPath))
		if !ok {
			return types.LatLng{}, false
		}
		lng, ok := coord(gjson.GetBytes(raw, lngPath))
		if !ok {
			return types.LatLng{}, false
		}
		return types.LatLng{Lat: lat, Lng: lng}, true
	}
}

// coord accepts JSON numbers and numeric strings ("52.51"). Presence is
// what matters, not truthiness.
func coord(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// extractGeoJSON decodes a GeoJSON Feature and accepts Point geometries.
func extractGeoJSON(raw []byte) (types.LatLng, bool) {
	if gjson.GetBytes(raw, "type").String() != "Feature" {
		return types.LatLng{}, false
	}
	feature, err := geojson.UnmarshalFeature(raw)
	if err != nil {
		return types.LatLng{}, false
	}
	point, ok := feature.Geometry.(orb.Point)
	if !ok {
		return types.LatLng{}, false
	}
	return types.LatLng{Lat: point.Lat(), Lng: point.Lon()}, true
}

// extractBarePair accepts a two-element numeric array in GeoJSON position
// order, [lng, lat].
func extractBarePair(raw []byte) (types.LatLng, bool) {
	parsed := gjson.ParseBytes(raw)
	if !parsed.IsArray() {
		return types.LatLng{}, false
	}
	elems := parsed.Array()
	if len(elems) != 2 {
		return types.LatLng{}, false
	}
	lng, ok := coord(elems[0])
	if !ok {
		return types.LatLng{}, false
	}
	lat, ok := coord(elems[1])
	if !ok {
		return types.LatLng{}, false
	}
	return types.LatLng{Lat: lat, Lng: lng}, true
}
