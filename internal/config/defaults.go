package config

import "time"

// DefaultConfig returns a configuration with sensible defaults: no providers
// registered, an unbounded result cache and a 10 second HTTP timeout.
func DefaultConfig() *Config {
	return &Config{
		Providers: nil,
		Cache: CacheConfig{
			Mode:         CacheModeUnbounded,
			MaxSizeMB:    64,
			Shards:       1024,
			MaxEntrySize: 64 * 1024, // 64KB
		},
		Transport: TransportConfig{
			Timeout:   10 * time.Second,
			UserAgent: "geomux/1.0",
		},
		Metrics: MetricsConfig{
			Enabled:         false,
			PublishInterval: 30 * time.Second,
			DataDog: DataDogConfig{
				Enabled:   false,
				AgentHost: "127.0.0.1",
				Port:      8125,
				Prefix:    "geomux",
				Tags:      []string{},
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ForTesting returns a minimal configuration suitable for unit tests.
func ForTesting() *Config {
	return &Config{
		Cache: CacheConfig{
			Mode:         CacheModeUnbounded,
			MaxSizeMB:    16,
			Shards:       64,
			MaxEntrySize: 1024, // 1KB
		},
		Transport: TransportConfig{
			Timeout:   1 * time.Second,
			UserAgent: "geomux/1.0",
		},
		Metrics: MetricsConfig{
			Enabled:         false,
			PublishInterval: 1 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "debug",
		},
	}
}
