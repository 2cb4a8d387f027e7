package ai

import (
	"context"
	"fmt"
	"slices"
	"time"

	"skillfit/internal/config"
	"skillfit/internal/engine"
	"skillfit/internal/errors"
	"skillfit/internal/types"
)

// Service handles AI operations for skill matching
type Service struct {
	Provider AIProvider // Exported for access from server package
	config   *config.OperationAIConfig
	logger   *errors.Logger
}

// NewService creates a new AI service instance with configuration for a specific operation
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (*Service, error) {
	var provider AIProvider
	var err error

	// Debug logging for service initialization
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries)

	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, operationType, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}, nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) any {
	return s.Provider.GetModelInfo(ctx)
}

// Matcher adapts the AI service to the engine's SemanticMatcher interface.
// It applies the operation timeout per request and rejects proposals that
// stray outside the offered candidate list or the known tiers.
type Matcher struct {
	service *Service
	report  UsageFunc
}

// UsageFunc receives token usage and the outcome of each AI match call
type UsageFunc func(usage *TokenUsage, err error, duration time.Duration)

// Ensure Matcher implements engine.SemanticMatcher
var _ engine.SemanticMatcher = (*Matcher)(nil)

// NewMatcher wraps an AI service as a semantic matcher
func NewMatcher(service *Service) *Matcher {
	return &Matcher{service: service}
}

// SetUsageReporter installs a callback invoked after every provider call.
// Used by the server to record AI request metrics.
func (m *Matcher) SetUsageReporter(fn UsageFunc) {
	m.report = fn
}

// Close releases the underlying provider connection
func (m *Matcher) Close() error {
	return m.service.Provider.Close()
}

// validMatchTypes are the tiers the engine understands
var validMatchTypes = []types.MatchType{
	types.MatchExact,
	types.MatchSynonym,
	types.MatchHierarchical,
	types.MatchDomainContext,
	types.MatchTransferable,
}

// Match implements engine.SemanticMatcher
func (m *Matcher) Match(ctx context.Context, req engine.MatchRequest) (*engine.MatchProposal, error) {
	if m.service.config.Timeout != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *m.service.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	output, usage, err := m.service.Provider.MatchSkill(ctx, MatchSkillInput{
		Category:     req.Category,
		JDSkill:      req.JDSkill,
		CVCandidates: req.CVCandidates,
	})
	if m.report != nil {
		m.report(usage, err, time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	if !output.Matched {
		return &engine.MatchProposal{Matched: false, Reasoning: output.Reasoning}, nil
	}

	matchType := types.MatchType(output.MatchType)
	if !slices.Contains(validMatchTypes, matchType) {
		return nil, errors.NewAIError(errors.ErrCodeAIParseFailed,
			fmt.Sprintf("AI proposed unknown match type: %s", output.MatchType), nil)
	}

	if !slices.Contains(req.CVCandidates, output.CVEquivalent) {
		return nil, errors.NewAIError(errors.ErrCodeAIParseFailed,
			fmt.Sprintf("AI proposed a CV skill outside the candidate list: %s", output.CVEquivalent), nil)
	}

	return &engine.MatchProposal{
		Matched:      true,
		CVEquivalent: output.CVEquivalent,
		MatchType:    matchType,
		Reasoning:    output.Reasoning,
	}, nil
}
