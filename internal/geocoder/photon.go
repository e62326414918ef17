package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tilebound/geomux/internal/types"
)

const (
	photonName     = "photon"
	photonEndpoint = "https://photon.komoot.io/api"
)

func init() {
	ctx := context.Background()
	err := Register(ctx, photonName, NewPhoton)
	if err != nil {
		panic(err)
	}
}

// Photon queries the Komoot Photon API. Candidates are GeoJSON features.
type Photon struct {
	transportHolder
	endpoint string
	lang     string
	limit    int
}

// NewPhoton constructs the provider from a photon:// URI. Parameters:
// endpoint, limit, lang.
func NewPhoton(ctx context.Context, uri string) (types.Geocoder, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URI: %w", err)
	}

	q := u.Query()

	endpoint := photonEndpoint
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

	return &Photon{
		endpoint: endpoint,
		lang:     q.Get("lang"),
		limit:    maxResults,
	}, nil
}

// Name returns the provider name.
func (g *Photon) Name() string {
	return photonName
}

type photonResponse struct {
	Features []json.RawMessage `json:"features"`
}

// Geocode searches Photon and returns the FeatureCollection's features.
func (g *Photon) Geocode(ctx context.Context, query string) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("q", query)
	if g.limit > 0 {
		params.Set("limit", strconv.Itoa(g.limit))
	}
	if g.lang != "" {
		params.Set("lang", g.lang)
	}

	body, err := fetch(ctx, g.currentTransport(), g.endpoint+"?"+params.Encode())
	if err != nil {
		return nil, types.NewGeocodeError("search", photonName, query, err)
	}

	var envelope photonResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, types.NewGeocodeError("decode", photonName, query, err)
	}

	return envelope.Features, nil
}

var (
	_ types.Geocoder         = (*Photon)(nil)
	_ types.TransportCarrier = (*Photon)(nil)
)
