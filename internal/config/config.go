// Package config provides configuration management for geomux.
package config

import (
	"strings"
	"time"
)

// Cache modes accepted by CacheConfig.Mode. An empty mode is treated as
// unbounded.
const (
	CacheModeUnbounded = "unbounded"
	CacheModeBounded   = "bounded"
	CacheModeOff       = "off"
)

// Config contains all configuration for a geomux dispatcher.
//
//nolint:govet // Configuration struct - logical grouping prioritized over alignment
type Config struct {
	Providers []ProviderConfig `json:"providers" env:"PROVIDERS"`
	Cache     CacheConfig      `json:"cache" envPrefix:"CACHE_"`
	Transport TransportConfig  `json:"transport" envPrefix:"TRANSPORT_"`
	Metrics   MetricsConfig    `json:"metrics" envPrefix:"METRICS_"`
	Logging   LoggingConfig    `json:"logging" envPrefix:"LOG_"`
}

// ProviderConfig declares one backend in dispatch order. URI names the
// provider scheme and carries its parameters, for example
// "nominatim://?email=ops@example.com&limit=3". Match, when set, is a
// regular expression applied to the normalized query; the backend is
// consulted only for queries it accepts.
type ProviderConfig struct {
	URI   string `json:"uri"`
	Match string `json:"match,omitempty"`
}

// UnmarshalText lets a provider list ride a comma-separated environment
// variable as bare URIs. Entries set this way carry no Match expression.
func (p *ProviderConfig) UnmarshalText(text []byte) error {
	p.URI = strings.TrimSpace(string(text))
	p.Match = ""
	return nil
}

// CacheConfig contains configuration for the query-keyed result store.
// MaxSizeMB, Shards and MaxEntrySize apply to the bounded mode only.
type CacheConfig struct {
	Mode         string `json:"mode" env:"MODE"`
	MaxSizeMB    int    `json:"maxSizeMB" env:"MAX_SIZE_MB"`
	Shards       int    `json:"shards" env:"SHARDS"`
	MaxEntrySize int    `json:"maxEntrySize" env:"MAX_ENTRY_SIZE"`
}

// TransportConfig contains configuration for the shared HTTP transport
// handed to backends.
type TransportConfig struct {
	Timeout   time.Duration `json:"timeout" env:"TIMEOUT"`
	UserAgent string        `json:"userAgent" env:"USER_AGENT"`
	Proxy     string        `json:"proxy,omitempty" env:"PROXY"`
}

// MetricsConfig contains configuration for metrics publishing.
//
//nolint:govet // Small config struct - minimal alignment benefit
type MetricsConfig struct {
	PublishInterval time.Duration `json:"publishInterval" env:"PUBLISH_INTERVAL"`
	DataDog         DataDogConfig `json:"datadog" envPrefix:"DATADOG_"`
	Enabled         bool          `json:"enabled" env:"ENABLED"`
}

// DataDogConfig contains configuration for DataDog metrics publishing.
//
//nolint:govet // Small config struct - minimal alignment benefit
type DataDogConfig struct {
	Tags      []string `json:"tags" env:"TAGS"`
	AgentHost string   `json:"agentHost" env:"AGENT_HOST"`
	Prefix    string   `json:"prefix" env:"PREFIX"`
	Port      int      `json:"port" env:"PORT"`
	Enabled   bool     `json:"enabled" env:"ENABLED"`
}

// LoggingConfig contains configuration for structured logging.
type LoggingConfig struct {
	Level string `json:"level" env:"LEVEL"`
}
