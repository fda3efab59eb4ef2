// ABOUTME: This file tests configuration loading and validation
// ABOUTME: Ensures required credentials are validated before any network call

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := map[string]struct {
		envVars     map[string]string
		expectError bool
		validate    func(t *testing.T, cfg *Config)
	}{
		"valid_full_config": {
			envVars: map[string]string{
				"SERVICE_NAME":             "test-mcp",
				"LOG_LEVEL":                "debug",
				"INOREADER_APP_ID":         "test_app_id",
				"INOREADER_APP_KEY":        "test_app_key",
				"INOREADER_USERNAME":       "user@example.com",
				"INOREADER_PASSWORD":       "secret",
				"MAX_ARTICLES_PER_REQUEST": "25",
				"CACHE_TTL":                "120",
				"REQUEST_TIMEOUT":          "5",
			},
			expectError: false,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "test-mcp", cfg.ServiceName)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "test_app_id", cfg.Inoreader.AppID)
				assert.Equal(t, "test_app_key", cfg.Inoreader.AppKey)
				assert.Equal(t, "user@example.com", cfg.Inoreader.Username)
				assert.Equal(t, "secret", cfg.Inoreader.Password)
				assert.Equal(t, 25, cfg.Inoreader.MaxArticlesPerRequest)
				assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
				assert.Equal(t, 5*time.Second, cfg.HTTP.RequestTimeout)
			},
		},
		"default_values": {
			envVars: map[string]string{
				"INOREADER_APP_ID":   "test_app_id",
				"INOREADER_APP_KEY":  "test_app_key",
				"INOREADER_USERNAME": "user@example.com",
				"INOREADER_PASSWORD": "secret",
			},
			expectError: false,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "inoreader-mcp", cfg.ServiceName)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "https://www.inoreader.com/reader/api/0", cfg.Inoreader.BaseURL)
				assert.Equal(t, "https://www.inoreader.com/accounts/ClientLogin", cfg.Inoreader.LoginURL)
				assert.Equal(t, 50, cfg.Inoreader.MaxArticlesPerRequest)
				assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
				assert.Equal(t, 100, cfg.Cache.MaxEntries)
				assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
			},
		},
		"missing_app_id": {
			envVars: map[string]string{
				"INOREADER_APP_KEY":  "test_app_key",
				"INOREADER_USERNAME": "user@example.com",
				"INOREADER_PASSWORD": "secret",
			},
			expectError: true,
		},
		"missing_app_key": {
			envVars: map[string]string{
				"INOREADER_APP_ID":   "test_app_id",
				"INOREADER_USERNAME": "user@example.com",
				"INOREADER_PASSWORD": "secret",
			},
			expectError: true,
		},
		"missing_username": {
			envVars: map[string]string{
				"INOREADER_APP_ID":   "test_app_id",
				"INOREADER_APP_KEY":  "test_app_key",
				"INOREADER_PASSWORD": "secret",
			},
			expectError: true,
		},
		"missing_password": {
			envVars: map[string]string{
				"INOREADER_APP_ID":   "test_app_id",
				"INOREADER_APP_KEY":  "test_app_key",
				"INOREADER_USERNAME": "user@example.com",
			},
			expectError: true,
		},
		"missing_everything": {
			envVars:     map[string]string{},
			expectError: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{
				"SERVICE_NAME", "LOG_LEVEL",
				"INOREADER_BASE_URL", "INOREADER_LOGIN_URL",
				"INOREADER_APP_ID", "INOREADER_APP_KEY",
				"INOREADER_USERNAME", "INOREADER_PASSWORD",
				"MAX_ARTICLES_PER_REQUEST", "CACHE_TTL", "REQUEST_TIMEOUT",
			} {
				t.Setenv(key, "")
			}
			for key, value := range tc.envVars {
				t.Setenv(key, value)
			}

			cfg, err := LoadConfig()

			if tc.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tc.validate != nil {
				tc.validate(t, cfg)
			}
		})
	}
}

func TestValidate_ReportsAllMissingFields(t *testing.T) {
	cfg := &Config{}

	err := cfg.Validate()
	require.Error(t, err)

	for _, want := range []string{
		"INOREADER_APP_ID", "INOREADER_APP_KEY",
		"INOREADER_USERNAME", "INOREADER_PASSWORD",
	} {
		assert.Contains(t, err.Error(), want)
	}
}
