package geomux_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilebound/geomux/internal/config"
	"github.com/tilebound/geomux/pkg/geomux"
)

// TestNew tests the zero-config constructor.
func TestNew(t *testing.T) {
	t.Run("resolves through a registered backend", func(t *testing.T) {
		d, err := geomux.New()
		require.NoError(t, err)
		defer d.Close()

		backend := &stubBackend{name: "stub", payload: `{"lat": 40.7, "lng": -74.0}`}
		d.Register(geomux.Unconditional(backend))

		result := d.ResolveOne(context.Background(), "new york")
		require.NotNil(t, result)
		assert.Equal(t, 40.7, result.Geometry.Location.Lat)
		assert.Equal(t, "stub", result.Geocoder)
	})

	t.Run("caches by normalized query", func(t *testing.T) {
		d, err := geomux.New()
		require.NoError(t, err)
		defer d.Close()

		backend := &stubBackend{name: "stub", payload: `{"lat": 40.7, "lng": -74.0}`}
		d.Register(geomux.Unconditional(backend))

		ctx := context.Background()
		d.ResolveOne(ctx, "New York City")
		cached := d.ResolveOne(ctx, "  New   York\tCity ")

		assert.EqualValues(t, 1, backend.calls.Load())
		require.NotNil(t, cached)
		assert.Empty(t, cached.Geocoder)
		assert.Equal(t, 1, d.CacheEntryCount())
	})

	t.Run("WithoutCache disables caching", func(t *testing.T) {
		d, err := geomux.New(geomux.WithoutCache())
		require.NoError(t, err)
		defer d.Close()

		backend := &stubBackend{name: "stub", payload: `{"lat": 40.7, "lng": -74.0}`}
		d.Register(geomux.Unconditional(backend))

		ctx := context.Background()
		d.ResolveOne(ctx, "new york")
		d.ResolveOne(ctx, "new york")

		assert.EqualValues(t, 2, backend.calls.Load())
		assert.Equal(t, 0, d.CacheEntryCount())
	})

	t.Run("WithLogger routes dispatcher logs", func(t *testing.T) {
		logger := &fakeLogger{}
		d, err := geomux.New(geomux.WithLogger(logger))
		require.NoError(t, err)

		require.NoError(t, d.Close())
		assert.True(t, logger.contains("Closing dispatcher"))
	})

	t.Run("WithStore wires a custom store", func(t *testing.T) {
		store := &fakeStore{}
		d, err := geomux.New(geomux.WithStore(store))
		require.NoError(t, err)
		defer d.Close()

		backend := &stubBackend{name: "stub", payload: `{"lat": 40.7, "lng": -74.0}`}
		d.Register(geomux.Unconditional(backend))

		d.ResolveOne(context.Background(), "new york")
		assert.EqualValues(t, 1, store.sets.Load())
	})

	t.Run("WithMetrics wires a recorder", func(t *testing.T) {
		recorder := &fakeRecorder{}
		d, err := geomux.New(geomux.WithMetrics(recorder))
		require.NoError(t, err)
		defer d.Close()

		backend := &stubBackend{name: "stub", payload: `{"lat": 40.7, "lng": -74.0}`}
		d.Register(geomux.Unconditional(backend))

		d.ResolveOne(context.Background(), "new york")
		assert.EqualValues(t, 1, recorder.attempts.Load())
	})
}

// TestNewFromConfig tests configuration-driven construction.
func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("builds and registers providers in order", func(t *testing.T) {
		srv := newNominatimServer(t, `[{"lat": "40.7128", "lon": "-74.0060"}]`)
		defer srv.Close()

		cfg := geomux.TestConfig()
		cfg.Providers = []config.ProviderConfig{
			{URI: "nominatim://?endpoint=" + url.QueryEscape(srv.URL)},
		}

		d, err := geomux.NewFromConfig(ctx, cfg)
		require.NoError(t, err)
		defer d.Close()

		require.Equal(t, []string{"nominatim"}, d.Providers())

		result := d.ResolveOne(ctx, "new york")
		require.NotNil(t, result)
		assert.Equal(t, "nominatim", result.Geocoder)
		assert.InDelta(t, 40.7128, result.Geometry.Location.Lat, 1e-9)
	})

	t.Run("match patterns gate their providers", func(t *testing.T) {
		berlinSrv := newNominatimServer(t, `[{"lat": "52.5170", "lon": "13.3889"}]`)
		defer berlinSrv.Close()
		worldSrv := newNominatimServer(t, `[{"lat": "48.8566", "lon": "2.3522"}]`)
		defer worldSrv.Close()

		cfg := geomux.TestConfig()
		cfg.Providers = []config.ProviderConfig{
			{URI: "nominatim://?endpoint=" + url.QueryEscape(berlinSrv.URL), Match: `(?i)\bberlin\b`},
			{URI: "nominatim://?endpoint=" + url.QueryEscape(worldSrv.URL)},
		}

		d, err := geomux.NewFromConfig(ctx, cfg)
		require.NoError(t, err)
		defer d.Close()

		berlin := d.ResolveOne(ctx, "Berlin Mitte")
		require.NotNil(t, berlin)
		assert.InDelta(t, 52.5170, berlin.Geometry.Location.Lat, 1e-9)

		paris := d.ResolveOne(ctx, "paris")
		require.NotNil(t, paris)
		assert.InDelta(t, 48.8566, paris.Geometry.Location.Lat, 1e-9)
	})

	t.Run("rejects invalid configuration", func(t *testing.T) {
		cfg := geomux.TestConfig()
		cfg.Cache.Mode = "sideways"

		_, err := geomux.NewFromConfig(ctx, cfg)
		require.Error(t, err)
	})

	t.Run("rejects unknown provider schemes", func(t *testing.T) {
		cfg := geomux.TestConfig()
		cfg.Providers = []config.ProviderConfig{{URI: "carrierpigeon://"}}

		_, err := geomux.NewFromConfig(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "carrierpigeon")
	})

	t.Run("WithTransport overrides the configured transport", func(t *testing.T) {
		var gotUserAgent string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserAgent = r.Header.Get("User-Agent")
			fmt.Fprint(w, `[]`)
		}))
		defer srv.Close()

		cfg := geomux.TestConfig()
		cfg.Providers = []config.ProviderConfig{
			{URI: "nominatim://?endpoint=" + url.QueryEscape(srv.URL)},
		}

		d, err := geomux.NewFromConfig(ctx, cfg, geomux.WithTransport(&geomux.Transport{
			Client:    srv.Client(),
			UserAgent: "custom-agent/0.1",
		}))
		require.NoError(t, err)
		defer d.Close()

		d.ResolveOne(ctx, "new york")
		assert.Equal(t, "custom-agent/0.1", gotUserAgent)
	})
}

// TestNewFromFile tests file-driven construction.
func TestNewFromFile(t *testing.T) {
	ctx := context.Background()

	t.Run("loads providers from a JSON file", func(t *testing.T) {
		srv := newNominatimServer(t, `[{"lat": "51.5074", "lon": "-0.1278"}]`)
		defer srv.Close()

		path := filepath.Join(t.TempDir(), "geomux.json")
		doc := fmt.Sprintf(`{
			"providers": [{"uri": "nominatim://?endpoint=%s"}],
			"cache": {"mode": "unbounded"}
		}`, url.QueryEscape(srv.URL))
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		d, err := geomux.NewFromFile(ctx, path)
		require.NoError(t, err)
		defer d.Close()

		result := d.ResolveOne(ctx, "london")
		require.NotNil(t, result)
		assert.InDelta(t, 51.5074, result.Geometry.Location.Lat, 1e-9)
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		d, err := geomux.NewFromFile(ctx, filepath.Join(t.TempDir(), "absent.json"))
		require.NoError(t, err)
		defer d.Close()

		assert.Empty(t, d.Providers())
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "geomux.json")
		require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

		_, err := geomux.NewFromFile(ctx, path)
		require.Error(t, err)
	})
}

// TestProviders tests the provider construction surface.
func TestProviders(t *testing.T) {
	ctx := context.Background()

	t.Run("NewProvider constructs by scheme", func(t *testing.T) {
		g, err := geomux.NewProvider(ctx, "photon://?lang=en")
		require.NoError(t, err)
		assert.Equal(t, "photon", g.Name())
	})

	t.Run("NewProvider rejects unknown schemes", func(t *testing.T) {
		_, err := geomux.NewProvider(ctx, "carrierpigeon://")
		require.Error(t, err)
		assert.True(t, geomux.IsUnknownScheme(err))
	})

	t.Run("RegisterProvider adds a custom scheme", func(t *testing.T) {
		stub := &stubBackend{name: "inhouse"}
		err := geomux.RegisterProvider(ctx, "inhouse", func(context.Context, string) (geomux.Geocoder, error) {
			return stub, nil
		})
		require.NoError(t, err)

		g, err := geomux.NewProvider(ctx, "inhouse://")
		require.NoError(t, err)
		assert.Same(t, stub, g)
		assert.Contains(t, geomux.Schemes(), "inhouse://")
	})

	t.Run("Schemes lists the shipped providers", func(t *testing.T) {
		schemes := geomux.Schemes()
		for _, want := range []string{"google://", "nominatim://", "photon://", "positionstack://"} {
			assert.Contains(t, schemes, want)
		}
	})
}

// TestConfigHelpers tests the configuration passthroughs.
func TestConfigHelpers(t *testing.T) {
	cfg := geomux.Config()
	require.NotNil(t, cfg)
	assert.Equal(t, config.CacheModeUnbounded, cfg.Cache.Mode)
	assert.NoError(t, cfg.Validate())

	testCfg := geomux.TestConfig()
	require.NotNil(t, testCfg)
	assert.NoError(t, testCfg.Validate())
}

// Helper functions and fakes

// newNominatimServer serves a fixed Nominatim-shaped response.
func newNominatimServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload)
	}))
}

// stubBackend is a scripted backend implementing the public contract.
type stubBackend struct {
	name    string
	payload string
	calls   atomic.Int64
}

func (s *stubBackend) Name() string {
	return s.name
}

func (s *stubBackend) Geocode(ctx context.Context, query string) ([]json.RawMessage, error) {
	s.calls.Add(1)
	if s.payload == "" {
		return nil, nil
	}
	return []json.RawMessage{json.RawMessage(s.payload)}, nil
}

// fakeLogger records messages for assertion.
type fakeLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *fakeLogger) record(msg string) {
	l.mu.Lock()
	l.messages = append(l.messages, msg)
	l.mu.Unlock()
}

func (l *fakeLogger) contains(msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if m == msg {
			return true
		}
	}
	return false
}

func (l *fakeLogger) Debug(msg string, args ...any) { l.record(msg) }
func (l *fakeLogger) Info(msg string, args ...any)  { l.record(msg) }
func (l *fakeLogger) Warn(msg string, args ...any)  { l.record(msg) }
func (l *fakeLogger) Error(msg string, args ...any) { l.record(msg) }

// fakeStore counts writes and never hits.
type fakeStore struct {
	sets atomic.Int64
}

func (s *fakeStore) Name() string { return "fake" }

func (s *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, geomux.ErrCacheMiss
}

func (s *fakeStore) Set(ctx context.Context, key string, value []byte) error {
	s.sets.Add(1)
	return nil
}

func (s *fakeStore) EntryCount() int { return int(s.sets.Load()) }

func (s *fakeStore) Close() error { return nil }

// fakeRecorder counts attempt records.
type fakeRecorder struct {
	attempts atomic.Int64
}

func (r *fakeRecorder) RecordCacheHit(query string, latency time.Duration)  {}
func (r *fakeRecorder) RecordCacheMiss(query string, latency time.Duration) {}

func (r *fakeRecorder) RecordAttempt(geocoder string, latency time.Duration, err error) {
	r.attempts.Add(1)
}

func (r *fakeRecorder) RecordResolve(geocoder string, results int, latency time.Duration) {}

var (
	_ geomux.Geocoder        = (*stubBackend)(nil)
	_ geomux.Logger          = (*fakeLogger)(nil)
	_ geomux.Store           = (*fakeStore)(nil)
	_ geomux.MetricsRecorder = (*fakeRecorder)(nil)
)
