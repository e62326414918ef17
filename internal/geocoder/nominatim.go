package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/tilebound/geomux/internal/limit"
	"github.com/tilebound/geomux/internal/types"
)

const (
	nominatimName     = "nominatim"
	nominatimEndpoint = "https://nominatim.openstreetmap.org/search"

	// The public instance's usage policy allows one request at a time.
	nominatimMaxConcurrent = 1
	nominatimGateWait      = 10 * time.Second
)

func init() {
	ctx := context.Background()
	err := Register(ctx, nominatimName, NewNominatim)
	if err != nil {
		panic(err)
	}
}

// Nominatim queries the OpenStreetMap Nominatim search API.
type Nominatim struct {
	transportHolder
	endpoint string
	email    string
	limit    int
	gate     *limit.Gate
}

// NewNominatim constructs the provider from a nominatim:// URI. Parameters:
// endpoint, email, limit, max_concurrent (default 1).
func NewNominatim(ctx context.Context, uri string) (types.Geocoder, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URI: %w", err)
	}

	q := u.Query()

	endpoint := nominatimEndpoint
	if v := q.Get("endpoint"); v != "" {
		endpoint = v
	}

	maxResults := 0
	if v := q.Get("limit"); v != "" {
		maxResults, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid limit %q: %w", v, err)
		}
	}

	maxConcurrent := nominatimMaxConcurrent
	if v := q.Get("max_concurrent"); v != "" {
		maxConcurrent, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid max_concurrent %q: %w", v, err)
		}
	}

	return &Nominatim{
		endpoint: endpoint,
		email:    q.Get("email"),
		limit:    maxResults,
		gate:     limit.New(maxConcurrent, nominatimGateWait),
	}, nil
}

// Name returns the provider name.
func (g *Nominatim) Name() string {
	return nominatimName
}

// Geocode searches Nominatim and returns the response array's elements. A
// non-array body (Nominatim reports errors as a bare object) comes back as a
// single-candidate batch so the dispatcher's error-field rule applies.
func (g *Nominatim) Geocode(ctx context.Context, query string) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	if g.limit > 0 {
		params.Set("limit", strconv.Itoa(g.limit))
	}
	if g.email != "" {
		params.Set("email", g.email)
	}

	var body []byte
	err := g.gate.Do(ctx, func(ctx context.Context) error {
		var ferr error
		body, ferr = fetch(ctx, g.currentTransport(), g.endpoint+"?"+params.Encode())
		return ferr
	})
	if err != nil {
		return nil, types.NewGeocodeError("search", nominatimName, query, err)
	}

	var batch []json.RawMessage
	if err := json.Unmarshal(body, &batch); err != nil {
		return []json.RawMessage{json.RawMessage(body)}, nil
	}
	return batch, nil
}

var (
	_ types.Geocoder         = (*Nominatim)(nil)
	_ types.TransportCarrier = (*Nominatim)(nil)
)
