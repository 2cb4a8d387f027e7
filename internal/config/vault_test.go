package config

import (
	"testing"

	"skillfit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *errors.Logger {
	logger, _ := errors.New("debug")
	return logger
}

// Test parseVersionValue function
func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       interface{}
		path        string
		expected    int64
		expectError bool
	}{
		{
			name:     "int64 value",
			input:    int64(42),
			path:     "test/path",
			expected: 42,
		},
		{
			name:     "float64 value",
			input:    float64(42.0),
			path:     "test/path",
			expected: 42,
		},
		{
			name:     "string value",
			input:    "42",
			path:     "test/path",
			expected: 42,
		},
		{
			name:        "invalid string value",
			input:       "not-a-number",
			path:        "test/path",
			expectError: true,
		},
		{
			name:        "unsupported type",
			input:       []string{"42"},
			path:        "test/path",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, tt.path)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

// Disabled Vault config must return a nil client without error
func TestNewVaultClientDisabled(t *testing.T) {
	client, err := NewVaultClient(VaultConfig{Enabled: false}, newTestLogger())
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewVaultClientRequiresToken(t *testing.T) {
	_, err := resolveVaultToken(VaultConfig{Enabled: true}, newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault token is required")
}

func TestResolveVaultTokenFromConfig(t *testing.T) {
	token, err := resolveVaultToken(VaultConfig{Enabled: true, Token: "s.testtoken"}, newTestLogger())
	require.NoError(t, err)
	assert.Equal(t, "s.testtoken", token)
}

func TestGetSecretV2NilClient(t *testing.T) {
	var client *VaultClient
	_, err := client.GetSecretV2("secret/data/skillfit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	config := &Config{}
	err := ApplyVaultSecrets(config, newTestLogger())
	assert.NoError(t, err)
	assert.Empty(t, config.AI.APIKey)
}
