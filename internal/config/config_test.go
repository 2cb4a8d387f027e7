package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillfit/internal/engine"
)

func validTestConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			Timeout:     time.Minute,
			MaxRetries:  3,
			Temperature: 0.7,
		},
		Engine: EngineConfig{
			Matcher: MatcherConfig{
				Mode:   "rules",
				Reload: RulesReloadConfig{Enabled: true, DebounceDelay: time.Second},
			},
			Scoring: engine.DefaultCalculatorConfig(),
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: "8080",
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxFileSize:      1024 * 1024,
		},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*Config)
		expectError   bool
		errorContains string
	}{
		{
			name:   "valid rules config",
			mutate: func(*Config) {},
		},
		{
			name: "ai matcher requires api key",
			mutate: func(c *Config) {
				c.Engine.Matcher.Mode = "ai"
			},
			expectError:   true,
			errorContains: "API key is required",
		},
		{
			name: "ai matcher with key is valid",
			mutate: func(c *Config) {
				c.Engine.Matcher.Mode = "ai"
				c.AI.APIKey = "test-key"
			},
		},
		{
			name: "ai matcher with operation key is valid",
			mutate: func(c *Config) {
				c.Engine.Matcher.Mode = "ai"
				c.AI.Match.APIKey = "op-key"
			},
		},
		{
			name: "unknown matcher mode",
			mutate: func(c *Config) {
				c.Engine.Matcher.Mode = "embedding"
			},
			expectError:   true,
			errorContains: "invalid matcher mode",
		},
		{
			name: "bad scoring weights",
			mutate: func(c *Config) {
				c.Engine.Scoring.TechnicalWeight = 0.9
			},
			expectError:   true,
			errorContains: "scoring configuration error",
		},
		{
			name: "zero debounce with reload enabled",
			mutate: func(c *Config) {
				c.Engine.Matcher.Reload.DebounceDelay = 0
			},
			expectError:   true,
			errorContains: "debounce",
		},
		{
			name: "missing server port",
			mutate: func(c *Config) {
				c.Server.Port = ""
			},
			expectError:   true,
			errorContains: "server port",
		},
		{
			name: "default format not in supported list",
			mutate: func(c *Config) {
				c.App.DefaultFormat = "xml"
			},
			expectError:   true,
			errorContains: "invalid default format",
		},
		{
			name: "non-positive ai timeout",
			mutate: func(c *Config) {
				c.AI.Timeout = 0
			},
			expectError:   true,
			errorContains: "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validTestConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetMatchConfigFallbacks(t *testing.T) {
	config := validTestConfig()
	config.AI.APIKey = "global-key"

	matchConfig := config.GetMatchConfig()

	assert.Equal(t, "gemini", matchConfig.Provider)
	assert.Equal(t, "gemini-2.0-flash", matchConfig.Model)
	assert.Equal(t, "global-key", matchConfig.APIKey)
	require.NotNil(t, matchConfig.Timeout)
	assert.Equal(t, time.Minute, *matchConfig.Timeout)
	require.NotNil(t, matchConfig.MaxRetries)
	assert.Equal(t, 3, *matchConfig.MaxRetries)
	require.NotNil(t, matchConfig.Temperature)
	assert.InDelta(t, 0.7, float64(*matchConfig.Temperature), 1e-6)
}

func TestGetMatchConfigOperationOverrides(t *testing.T) {
	opTimeout := 10 * time.Second
	opRetries := 5

	config := validTestConfig()
	config.AI.APIKey = "global-key"
	config.AI.Match = OperationAIConfig{
		Model:      "gemini-2.5-pro",
		Timeout:    &opTimeout,
		APIKey:     "op-key",
		MaxRetries: &opRetries,
	}

	matchConfig := config.GetMatchConfig()

	assert.Equal(t, "gemini-2.5-pro", matchConfig.Model)
	assert.Equal(t, "op-key", matchConfig.APIKey)
	assert.Equal(t, opTimeout, *matchConfig.Timeout)
	assert.Equal(t, 5, *matchConfig.MaxRetries)
	// provider still falls back to the global value
	assert.Equal(t, "gemini", matchConfig.Provider)
}
