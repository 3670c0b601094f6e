// Package common provides shared utilities for finsight
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for finsight
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Clients     ClientsConfig `toml:"clients"`
	Cache       CacheConfig   `toml:"cache"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EDGAR EDGARConfig `toml:"edgar"`
	Yahoo YahooConfig `toml:"yahoo"`
	FMP   FMPConfig   `toml:"fmp"`
}

// EDGARConfig holds SEC EDGAR API configuration.
// The SEC requires a descriptive User-Agent identifying the caller.
type EDGARConfig struct {
	BaseURL     string `toml:"base_url"`
	DataBaseURL string `toml:"data_base_url"`
	UserAgent   string `toml:"user_agent"`
	RateLimit   int    `toml:"rate_limit"`
	Timeout     string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EDGARConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// YahooConfig holds Yahoo Finance API configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// FMPConfig holds Financial Modeling Prep API configuration.
// An empty APIKey is a valid state: the client is not constructed and
// every dependent code path falls through to the next provider.
type FMPConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *FMPConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// CacheConfig holds TTL configuration for the in-memory caches.
type CacheConfig struct {
	IdentityTTL string `toml:"identity_ttl"` // filer-identity reference table
	FactsTTL    string `toml:"facts_ttl"`    // per-issuer structured-facts documents
	FactsSize   int    `toml:"facts_size"`   // max cached facts documents
}

// GetIdentityTTL parses and returns the identity table TTL
func (c *CacheConfig) GetIdentityTTL() time.Duration {
	d, err := time.ParseDuration(c.IdentityTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// GetFactsTTL parses and returns the facts document TTL
func (c *CacheConfig) GetFactsTTL() time.Duration {
	d, err := time.ParseDuration(c.FactsTTL)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Clients: ClientsConfig{
			EDGAR: EDGARConfig{
				BaseURL:     "https://www.sec.gov",
				DataBaseURL: "https://data.sec.gov",
				UserAgent:   "finsight/1.0 (ops@finsight.io)",
				RateLimit:   10,
				Timeout:     "30s",
			},
			Yahoo: YahooConfig{
				BaseURL:   "https://query2.finance.yahoo.com",
				RateLimit: 5,
				Timeout:   "15s",
			},
			FMP: FMPConfig{
				BaseURL:   "https://financialmodelingprep.com/api/v3",
				RateLimit: 5,
				Timeout:   "15s",
			},
		},
		Cache: CacheConfig{
			IdentityTTL: "24h",
			FactsTTL:    "15m",
			FactsSize:   128,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINSIGHT_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FINSIGHT_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FINSIGHT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FINSIGHT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if ua := os.Getenv("FINSIGHT_EDGAR_USER_AGENT"); ua != "" {
		config.Clients.EDGAR.UserAgent = ua
	}

	// FMP key: generic env name first, then the prefixed override
	for _, name := range []string{"FMP_API_KEY", "FINSIGHT_FMP_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			config.Clients.FMP.APIKey = key
			break
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
