package geomux

import (
	"context"
	"fmt"
	"regexp"

	"github.com/tilebound/geomux/internal/config"
	"github.com/tilebound/geomux/internal/dispatch"
	"github.com/tilebound/geomux/internal/geocoder"
	"github.com/tilebound/geomux/internal/types"
)

// New creates an empty dispatcher with default configuration. Backends are
// added with Register.
func New(opts ...Option) (*Dispatcher, error) {
	return NewFromConfig(context.Background(), config.DefaultConfig(), opts...)
}

// NewFromConfig creates a dispatcher from configuration. The configuration is
// validated, the shared transport is built unless one was supplied, and each
// configured provider is constructed from its URI and registered in order. A
// Match pattern wraps its provider in a conditional entry.
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Dispatcher, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dispatcherOpts := &types.DispatcherOptions{}
	for _, opt := range opts {
		opt(dispatcherOpts)
	}

	if dispatcherOpts.Transport == nil {
		transport, err := geocoder.NewTransport(cfg.Transport)
		if err != nil {
			return nil, err
		}
		dispatcherOpts.Transport = transport
	}

	d, err := dispatch.NewDispatcher(cfg, dispatcherOpts)
	if err != nil {
		return nil, err
	}

	for _, pc := range cfg.Providers {
		g, err := geocoder.NewGeocoder(ctx, pc.URI)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("provider %q: %w", pc.URI, err)
		}

		if pc.Match != "" {
			re, err := regexp.Compile(pc.Match)
			if err != nil {
				d.Close()
				return nil, fmt.Errorf("provider %q: invalid match pattern: %w", pc.URI, err)
			}
			d.Register(Conditional(re.MatchString, g))
		} else {
			d.Register(Unconditional(g))
		}
	}

	return d, nil
}

// NewFromFile creates a dispatcher from a JSON configuration file with
// GEOMUX_* environment overrides applied.
func NewFromFile(ctx context.Context, path string, opts ...Option) (*Dispatcher, error) {
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(ctx, cfg, opts...)
}

// NewProvider constructs a provider from its configuration URI, for example
// "nominatim://?limit=3&email=ops@example.org". Schemes lists what is
// registered.
func NewProvider(ctx context.Context, uri string) (Geocoder, error) {
	return geocoder.NewGeocoder(ctx, uri)
}

// ProviderInitializeFunc constructs a provider from its configuration URI.
type ProviderInitializeFunc = geocoder.InitializeFunc

// RegisterProvider associates a URI scheme with a provider constructor, so
// configuration files can name custom backends by URI.
func RegisterProvider(ctx context.Context, scheme string, f ProviderInitializeFunc) error {
	return geocoder.Register(ctx, scheme, f)
}

// Schemes returns the registered provider schemes in scheme:// form, sorted.
func Schemes() []string {
	return geocoder.Schemes()
}

// Config returns a default configuration that can be modified before creating
// a dispatcher.
func Config() *config.Config {
	return config.DefaultConfig()
}

// TestConfig returns a configuration suitable for unit tests.
func TestConfig() *config.Config {
	return config.ForTesting()
}
