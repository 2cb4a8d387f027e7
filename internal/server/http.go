package server

import (
	"time"

	"skillfit/internal/ai"
	"skillfit/internal/config"
	"skillfit/internal/engine"
	skillfitErrors "skillfit/internal/errors"
	"skillfit/internal/types"
)

// CompareRequest represents the request body for the compare endpoint
// ScoreRequest represents the request body for the score endpoint
// ErrorResponse represents an error response
type CompareRequest struct {
	CVSkills *types.SkillSet `json:"cvSkills"`
	JDSkills *types.SkillSet `json:"jdSkills"`
}

type ScoreRequest struct {
	CVSkills *types.SkillSet       `json:"cvSkills"`
	JDSkills *types.SkillSet       `json:"jdSkills"`
	Analysis *types.AnalysisBundle `json:"analysis,omitempty"`
}

type RecommendRequest struct {
	CVSkills *types.SkillSet       `json:"cvSkills"`
	JDSkills *types.SkillSet       `json:"jdSkills"`
	Analysis *types.AnalysisBundle `json:"analysis,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Scoring engine, built once at startup
	engine      *engine.Engine
	ruleMatcher *engine.RuleMatcher // non-nil only in rules mode
	aiMatcher   *ai.Matcher         // non-nil only in ai mode

	// Rules hot reload
	rulesWatcher *RulesWatcher

	// Logger
	Logger *skillfitErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
// (Refactored to reduce long parameter list in NewServer)
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *skillfitErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
