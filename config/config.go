// ABOUTME: This file handles configuration management for the Inoreader MCP service
// ABOUTME: Loads environment variables and validates Inoreader API credentials

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the Inoreader MCP service
type Config struct {
	// Service configuration
	ServiceName string
	LogLevel    string

	// Inoreader API configuration
	Inoreader InoreaderConfig

	// Response cache configuration
	Cache CacheConfig

	// HTTP client configuration
	HTTP HTTPConfig
}

// InoreaderConfig holds Inoreader API credentials and endpoints
type InoreaderConfig struct {
	BaseURL               string
	LoginURL              string
	AppID                 string
	AppKey                string
	Username              string
	Password              string
	MaxArticlesPerRequest int
}

// CacheConfig holds settings for the process-wide result cache
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// HTTPConfig holds HTTP client settings
type HTTPConfig struct {
	RequestTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServiceName: getEnvOrDefault("SERVICE_NAME", "inoreader-mcp"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),

		Inoreader: InoreaderConfig{
			BaseURL:  getEnvOrDefault("INOREADER_BASE_URL", "https://www.inoreader.com/reader/api/0"),
			LoginURL: getEnvOrDefault("INOREADER_LOGIN_URL", "https://www.inoreader.com/accounts/ClientLogin"),
			AppID:    os.Getenv("INOREADER_APP_ID"),   // Required
			AppKey:   os.Getenv("INOREADER_APP_KEY"),  // Required
			Username: os.Getenv("INOREADER_USERNAME"), // Required
			Password: os.Getenv("INOREADER_PASSWORD"), // Required
		},

		Cache: CacheConfig{
			TTL:        5 * time.Minute,
			MaxEntries: 100,
		},

		HTTP: HTTPConfig{
			RequestTimeout: 10 * time.Second,
		},
	}

	// Parse integer configurations
	if maxArticles := os.Getenv("MAX_ARTICLES_PER_REQUEST"); maxArticles != "" {
		if val, err := strconv.Atoi(maxArticles); err == nil {
			cfg.Inoreader.MaxArticlesPerRequest = val
		} else {
			cfg.Inoreader.MaxArticlesPerRequest = 50 // Default
		}
	} else {
		cfg.Inoreader.MaxArticlesPerRequest = 50
	}

	// Parse duration configurations
	if ttl := os.Getenv("CACHE_TTL"); ttl != "" {
		if seconds, err := strconv.Atoi(ttl); err == nil {
			cfg.Cache.TTL = time.Duration(seconds) * time.Second
		}
	}

	if timeout := os.Getenv("REQUEST_TIMEOUT"); timeout != "" {
		if seconds, err := strconv.Atoi(timeout); err == nil {
			cfg.HTTP.RequestTimeout = time.Duration(seconds) * time.Second
		}
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration. All missing required variables are
// reported together so a misconfigured deployment fails once, not field by field.
func (c *Config) Validate() error {
	var missing []string

	if c.Inoreader.AppID == "" {
		missing = append(missing, "INOREADER_APP_ID")
	}
	if c.Inoreader.AppKey == "" {
		missing = append(missing, "INOREADER_APP_KEY")
	}
	if c.Inoreader.Username == "" {
		missing = append(missing, "INOREADER_USERNAME")
	}
	if c.Inoreader.Password == "" {
		missing = append(missing, "INOREADER_PASSWORD")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
