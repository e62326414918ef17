package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is the prefix shared by every geomux environment variable.
const EnvPrefix = "GEOMUX_"

// Load loads configuration from a JSON file.
// If the file doesn't exist, returns default configuration.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, use defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithEnv loads configuration from a JSON file and applies environment
// overrides. GEOMUX_PROVIDERS replaces the provider list wholesale with
// comma-separated URIs; the remaining GEOMUX_* variables override individual
// fields. The DataDog agent convention variables (DD_AGENT_HOST and friends)
// are honored on top of those.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}
	applyDataDogEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDataDogEnv honors the DataDog agent's own environment convention.
// Setting DD_AGENT_HOST enables publishing outright.
func applyDataDogEnv(cfg *Config) {
	if v := os.Getenv("DD_AGENT_HOST"); v != "" {
		cfg.Metrics.DataDog.AgentHost = v
		cfg.Metrics.DataDog.Enabled = true
	}
	if v := os.Getenv("DD_DOGSTATSD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.DataDog.Port = port
		}
	}
	if v := os.Getenv("DD_SERVICE"); v != "" {
		cfg.Metrics.DataDog.Prefix = v
	}
	if v := os.Getenv("DD_ENV"); v != "" {
		cfg.Metrics.DataDog.Tags = append(cfg.Metrics.DataDog.Tags, "env:"+v)
	}
	if v := os.Getenv("DD_VERSION"); v != "" {
		cfg.Metrics.DataDog.Tags = append(cfg.Metrics.DataDog.Tags, "version:"+v)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Cache.Mode {
	case "", CacheModeUnbounded, CacheModeOff:
	case CacheModeBounded:
		if c.Cache.MaxSizeMB <= 0 {
			return fmt.Errorf("cache.maxSizeMB must be positive")
		}
		if c.Cache.Shards <= 0 || (c.Cache.Shards&(c.Cache.Shards-1)) != 0 {
			return fmt.Errorf("cache.shards must be a positive power of 2")
		}
		if c.Cache.MaxEntrySize <= 0 {
			return fmt.Errorf("cache.maxEntrySize must be positive")
		}
	default:
		return fmt.Errorf("cache.mode must be one of %q, %q, %q",
			CacheModeUnbounded, CacheModeBounded, CacheModeOff)
	}

	if c.Transport.Timeout <= 0 {
		return fmt.Errorf("transport.timeout must be positive")
	}
	if c.Transport.Proxy != "" {
		u, err := url.Parse(c.Transport.Proxy)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("transport.proxy must be an absolute URL")
		}
	}

	for i, p := range c.Providers {
		u, err := url.Parse(p.URI)
		if err != nil || u.Scheme == "" {
			return fmt.Errorf("providers[%d].uri must be a scheme-qualified URI", i)
		}
		if p.Match != "" {
			if _, err := regexp.Compile(p.Match); err != nil {
				return fmt.Errorf("providers[%d].match is not a valid regular expression: %w", i, err)
			}
		}
	}

	if c.Metrics.Enabled {
		if c.Metrics.PublishInterval <= 0 {
			return fmt.Errorf("metrics.publishInterval must be positive")
		}
		if c.Metrics.DataDog.Enabled {
			if c.Metrics.DataDog.AgentHost == "" {
				return fmt.Errorf("metrics.datadog.agentHost is required when datadog is enabled")
			}
			if c.Metrics.DataDog.Port <= 0 || c.Metrics.DataDog.Port > 65535 {
				return fmt.Errorf("metrics.datadog.port must be between 1 and 65535")
			}
		}
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}

	return nil
}
