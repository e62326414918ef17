package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/tilebound/geomux/internal/types"
)

const (
	googleName     = "google"
	googleEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"
	googleKeyEnv   = "GOOGLE_MAPS_API_KEY"
)

func init() {
	ctx := context.Background()
	err := Register(ctx, googleName, NewGoogle)
	if err != nil {
		panic(err)
	}
}

// Google queries the Google Maps Geocoding API.
type Google struct {
	transportHolder
	endpoint string
	key      types.SecretString
	region   string
}

// NewGoogle constructs the provider from a google:// URI. Parameters:
// endpoint, key (falls back to GOOGLE_MAPS_API_KEY), region.
func NewGoogle(ctx context.Context, uri string) (types.Geocoder, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URI: %w", err)
	}

	q := u.Query()

	endpoint := googleEndpoint
	if v := q.Get("endpoint"); v != "" {
		endpoint = v
	}

	key := q.Get("key")
	if key == "" {
		key = os.Getenv(googleKeyEnv)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: google needs key or %s", types.ErrMissingAPIKey, googleKeyEnv)
	}

	return &Google{
		endpoint: endpoint,
		key:      types.NewSecretString(key),
		region:   q.Get("region"),
	}, nil
}

// Name returns the provider name.
func (g *Google) Name() string {
	return googleName
}

type googleResponse struct {
	Results      []json.RawMessage `json:"results"`
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message"`
}

// Geocode resolves the query through the Geocoding API envelope. OK yields
// the results array, ZERO_RESULTS an empty batch, any other status an error
// carrying error_message.
func (g *Google) Geocode(ctx context.Context, query string) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("address", query)
	params.Set("key", g.key.Value())
	if g.region != "" {
		params.Set("region", g.region)
	}

	body, err := fetch(ctx, g.currentTransport(), g.endpoint+"?"+params.Encode())
	if err != nil {
		return nil, types.NewGeocodeError("search", googleName, query, err)
	}

	var envelope googleResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, types.NewGeocodeError("decode", googleName, query, err)
	}

	switch envelope.Status {
	case "OK":
		return envelope.Results, nil
	case "ZERO_RESULTS":
		return nil, nil
	default:
		msg := envelope.Status
		if envelope.ErrorMessage != "" {
			msg = fmt.Sprintf("%s: %s", envelope.Status, envelope.ErrorMessage)
		}
		return nil, types.NewGeocodeError("search", googleName, query, errors.New(msg))
	}
}

var (
	_ types.Geocoder         = (*Google)(nil)
	_ types.TransportCarrier = (*Google)(nil)
)
