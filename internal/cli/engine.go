package cli

import (
	"fmt"

	"skillfit/internal/ai"
	"skillfit/internal/config"
	"skillfit/internal/engine"
	"skillfit/internal/errors"
)

// buildMatcher selects the semantic matcher from configuration. Rule-based
// matching is the default; AI matching requires a configured provider.
func buildMatcher(cfg *config.Config, logger *errors.Logger) (engine.SemanticMatcher, error) {
	switch cfg.Engine.Matcher.Mode {
	case "ai":
		matchCfg := cfg.GetMatchConfig()
		aiService, err := ai.NewService(&matchCfg, "match", logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create AI matcher: %w", err)
		}
		return ai.NewMatcher(aiService), nil
	default:
		if cfg.Engine.Matcher.RulesFile != "" {
			matcher, err := engine.NewRuleMatcherFromFile(cfg.Engine.Matcher.RulesFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load matcher rules: %w", err)
			}
			return matcher, nil
		}
		return engine.NewRuleMatcher(), nil
	}
}

// buildEngine assembles the scoring engine from configuration
func buildEngine(cfg *config.Config, logger *errors.Logger) (*engine.Engine, error) {
	matcher, err := buildMatcher(cfg, logger)
	if err != nil {
		return nil, err
	}
	return engine.New(matcher, cfg.Engine.Scoring, logger)
}
