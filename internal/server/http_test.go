package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skillfit/internal/config"
	"skillfit/internal/errors"
	"skillfit/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *errors.Logger {
	logger, _ := errors.New("debug")
	return logger
}

func TestNewServer(t *testing.T) {
	cfg := ServerConfig{
		Host:           "127.0.0.1",
		Port:           "8080",
		Version:        "test",
		APIKeys:        []string{"key-one", "", "key-two"},
		MaxRequestSize: 1024,
	}

	srv := NewServer(&config.Config{}, cfg, newTestLogger())

	assert.Equal(t, "127.0.0.1", srv.Host)
	assert.Equal(t, "8080", srv.Port)
	assert.Len(t, srv.APIKeys, 2, "empty API keys should be dropped")
	assert.True(t, srv.APIKeys["key-one"])
	assert.True(t, srv.APIKeys["key-two"])
	assert.Nil(t, srv.RateLimiter, "rate limiter should not start without config")
}

func TestNewServerWithRateLimit(t *testing.T) {
	cfg := ServerConfig{
		Host: "127.0.0.1",
		Port: "8080",
		RateLimit: &config.RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 60,
			BurstCapacity:  10,
		},
	}

	srv := NewServer(&config.Config{}, cfg, newTestLogger())
	require.NotNil(t, srv.RateLimiter)
	defer srv.RateLimiter.Close()

	stats := srv.RateLimiter.GetStats()
	assert.Equal(t, 10, stats["burst_capacity"])
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		expected string
	}{
		{name: "short key fully masked", apiKey: "short", expected: "****"},
		{name: "eight chars fully masked", apiKey: "12345678", expected: "****"},
		{name: "long key shows prefix", apiKey: "1234567890abcdef", expected: "12345678****"},
		{name: "empty key", apiKey: "", expected: "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.apiKey))
		})
	}
}

func TestValidateSkillPair(t *testing.T) {
	valid := &types.SkillSet{
		TechnicalSkills: []string{"Go"},
		SoftSkills:      []string{"Communication"},
		DomainKeywords:  []string{"Fintech"},
	}

	tests := []struct {
		name      string
		cv        *types.SkillSet
		jd        *types.SkillSet
		wantField string
	}{
		{name: "both present", cv: valid, jd: valid},
		{name: "empty cv still accepted", cv: &types.SkillSet{}, jd: valid},
		{name: "empty jd still accepted", cv: valid, jd: &types.SkillSet{}},
		{name: "missing cv", cv: nil, jd: valid, wantField: "cvSkills"},
		{name: "missing jd", cv: valid, jd: nil, wantField: "jdSkills"},
		{name: "both empty", cv: &types.SkillSet{}, jd: &types.SkillSet{}, wantField: "cvSkills"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, err := validateSkillPair(tt.cv, tt.jd)
			if tt.wantField == "" {
				assert.NoError(t, err)
				assert.Empty(t, field)
			} else {
				assert.Error(t, err)
				assert.Equal(t, tt.wantField, field)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv := NewServer(&config.Config{}, ServerConfig{
		APIKeys: []string{"valid-key-12345678"},
	}, newTestLogger())

	handler := srv.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
	}{
		{
			name:       "missing key",
			headers:    nil,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid key",
			headers:    map[string]string{"X-API-Key": "wrong"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid header key",
			headers:    map[string]string{"X-API-Key": "valid-key-12345678"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid bearer token",
			headers:    map[string]string{"Authorization": "Bearer valid-key-12345678"},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/compare", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			handler(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAuthMiddlewareNoKeysConfigured(t *testing.T) {
	srv := NewServer(&config.Config{}, ServerConfig{}, newTestLogger())

	handler := srv.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/compare", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "auth should be skipped when no keys are set")
}

func TestParseJSONRequest(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		expectError bool
	}{
		{
			name:        "valid JSON",
			contentType: "application/json",
			body:        `{"cvSkills":{"technicalSkills":["Go"]}}`,
		},
		{
			name:        "wrong content type",
			contentType: "text/plain",
			body:        `{}`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			contentType: "application/json",
			body:        `{not json`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/compare", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			var parsed CompareRequest
			err := parseJSONRequest(req, &parsed)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWriteErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	writeErrorResponse(rec, "Invalid request", "cvSkills field is required", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Invalid request")
	assert.Contains(t, rec.Body.String(), "cvSkills field is required")
}
