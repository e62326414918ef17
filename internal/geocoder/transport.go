package geocoder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/tilebound/geomux/internal/config"
	"github.com/tilebound/geomux/internal/types"
)

const defaultUserAgent = "geomux/1.0"

// DefaultTransport returns the transport providers fall back to when none
// has been propagated.
func DefaultTransport() *types.Transport {
	return &types.Transport{
		Client:    &http.Client{Timeout: 10 * time.Second},
		UserAgent: defaultUserAgent,
	}
}

// NewTransport builds a shared transport from configuration. An empty proxy
// means direct connections.
func NewTransport(cfg config.TransportConfig) (*types.Transport, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &types.Transport{
		Client:    client,
		UserAgent: userAgent,
	}, nil
}

// transportHolder holds the propagated transport for a provider. The zero
// value serves DefaultTransport until one arrives.
type transportHolder struct {
	transport atomic.Pointer[types.Transport]
}

// SetTransport stores the shared transport handle.
func (h *transportHolder) SetTransport(t *types.Transport) {
	h.transport.Store(t)
}

func (h *transportHolder) currentTransport() *types.Transport {
	if t := h.transport.Load(); t != nil {
		return t
	}
	return DefaultTransport()
}

// fetch issues a GET through the transport and returns the body of a 200
// response.
func fetch(ctx context.Context, t *types.Transport, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
