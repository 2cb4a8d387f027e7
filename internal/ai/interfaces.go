package ai

import (
	"context"
)

// MatchSkillInput carries one JD requirement and the unconsumed CV skills the
// provider may pick from
type MatchSkillInput struct {
	Category     string
	JDSkill      string
	CVCandidates []string
}

// MatchSkillOutput mirrors the structured response schema for skill matching
type MatchSkillOutput struct {
	Matched      bool   `json:"matched"`
	CVEquivalent string `json:"cvEquivalent"`
	MatchType    string `json:"matchType"`
	Reasoning    string `json:"reasoning"`
}

// AIProvider interface for different AI implementations
// All methods return token usage information - callers can ignore it if not needed
type AIProvider interface {
	MatchSkill(ctx context.Context, input MatchSkillInput) (MatchSkillOutput, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
