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
	positionstackName     = "positionstack"
	positionstackEndpoint = "http://api.positionstack.com/v1/forward"
	positionstackKeyEnv   = "POSITIONSTACK_API_KEY"
)

func init() {
	ctx := context.Background()
	err := Register(ctx, positionstackName, NewPositionStack)
	if err != nil {
		panic(err)
	}
}

// PositionStack queries the positionstack forward geocoding API.
type PositionStack struct {
	transportHolder
	endpoint  string
	accessKey types.SecretString
}

// NewPositionStack constructs the provider from a positionstack:// URI.
// Parameters: endpoint, access_key (falls back to POSITIONSTACK_API_KEY).
func NewPositionStack(ctx context.Context, uri string) (types.Geocoder, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URI: %w", err)
	}

	q := u.Query()

	endpoint := positionstackEndpoint
	if v := q.Get("endpoint"); v != "" {
		endpoint = v
	}

	key := q.Get("access_key")
	if key == "" {
		key = os.Getenv(positionstackKeyEnv)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: positionstack needs access_key or %s", types.ErrMissingAPIKey, positionstackKeyEnv)
	}

	return &PositionStack{
		endpoint:  endpoint,
		accessKey: types.NewSecretString(key),
	}, nil
}

// Name returns the provider name.
func (g *PositionStack) Name() string {
	return positionstackName
}

type positionstackResponse struct {
	Data  []json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Geocode searches positionstack and returns the data array. The API reports
// failures in an error envelope alongside HTTP 200, so that becomes an
// invocation error here.
func (g *PositionStack) Geocode(ctx context.Context, query string) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("access_key", g.accessKey.Value())

	body, err := fetch(ctx, g.currentTransport(), g.endpoint+"?"+params.Encode())
	if err != nil {
		return nil, types.NewGeocodeError("search", positionstackName, query, err)
	}

	var envelope positionstackResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, types.NewGeocodeError("decode", positionstackName, query, err)
	}

	if envelope.Error != nil {
		msg := envelope.Error.Message
		if msg == "" {
			msg = envelope.Error.Code
		}
		return nil, types.NewGeocodeError("search", positionstackName, query, errors.New(msg))
	}

	return envelope.Data, nil
}

var (
	_ types.Geocoder         = (*PositionStack)(nil)
	_ types.TransportCarrier = (*PositionStack)(nil)
)
