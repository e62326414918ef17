// Package geocoder provides the HTTP geocoding providers that ship with
// geomux and the scheme registry that constructs them. Each provider
// registers itself under a URI scheme in init(); NewGeocoder picks the
// constructor by scheme and hands it the full URI, so all provider
// configuration rides query parameters (nominatim://?limit=3&email=...).
package geocoder

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/aaronland/go-roster"

	"github.com/tilebound/geomux/internal/types"
)

// InitializeFunc constructs a provider from its configuration URI.
type InitializeFunc func(ctx context.Context, uri string) (types.Geocoder, error)

var geocoders roster.Roster

func ensureRoster() error {
	if geocoders == nil {
		r, err := roster.NewDefaultRoster()
		if err != nil {
			return fmt.Errorf("failed to create geocoder roster: %w", err)
		}
		geocoders = r
	}
	return nil
}

// Register associates a URI scheme with a provider constructor. Providers
// call this from init; registering a scheme twice is an error.
func Register(ctx context.Context, scheme string, f InitializeFunc) error {
	if err := ensureRoster(); err != nil {
		return err
	}
	return geocoders.Register(ctx, scheme, f)
}

// NewGeocoder constructs the provider the URI's scheme names.
func NewGeocoder(ctx context.Context, uri string) (types.Geocoder, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URI: %w", err)
	}

	if err := ensureRoster(); err != nil {
		return nil, err
	}

	i, err := geocoders.Driver(ctx, u.Scheme)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownScheme, u.Scheme)
	}

	f, ok := i.(InitializeFunc)
	if !ok {
		return nil, fmt.Errorf("invalid constructor registered for scheme %q", u.Scheme)
	}

	return f(ctx, uri)
}

// Schemes returns the registered provider schemes in scheme:// form, sorted.
func Schemes() []string {
	ctx := context.Background()
	schemes := []string{}

	if err := ensureRoster(); err != nil {
		return schemes
	}

	for _, dr := range geocoders.Drivers(ctx) {
		schemes = append(schemes, fmt.Sprintf("%s://", strings.ToLower(dr)))
	}

	sort.Strings(schemes)
	return schemes
}
