package ai

import (
	"context"
	"testing"

	"skillfit/internal/config"
	"skillfit/internal/engine"
	"skillfit/internal/errors"
	"skillfit/internal/types"
)

// stubProvider returns canned outputs for Matcher tests
type stubProvider struct {
	output MatchSkillOutput
	err    error
}

func (s *stubProvider) MatchSkill(_ context.Context, _ MatchSkillInput) (MatchSkillOutput, *TokenUsage, error) {
	if s.err != nil {
		return MatchSkillOutput{}, nil, s.err
	}
	return s.output, nil, nil
}

func (s *stubProvider) GetModelInfo(_ context.Context) *ModelInfo {
	return &ModelInfo{Name: "stub", Available: true}
}

func (s *stubProvider) Close() error { return nil }

func newQuietLogger() *errors.Logger {
	logger, _ := errors.New("error")
	return logger
}

func newStubMatcher(output MatchSkillOutput, err error) *Matcher {
	return NewMatcher(&Service{
		Provider: &stubProvider{output: output, err: err},
		config:   &config.OperationAIConfig{Provider: "stub", Model: "stub"},
		logger:   newQuietLogger(),
	})
}

func TestMatcherProposal(t *testing.T) {
	req := engine.MatchRequest{
		Category:     "technical",
		JDSkill:      "kubernetes",
		CVCandidates: []string{"docker", "k8s administration"},
	}

	tests := []struct {
		name        string
		output      MatchSkillOutput
		wantErr     bool
		wantMatched bool
		wantType    types.MatchType
	}{
		{
			name: "valid synonym proposal",
			output: MatchSkillOutput{
				Matched:      true,
				CVEquivalent: "k8s administration",
				MatchType:    "hierarchical",
				Reasoning:    "k8s administration implies kubernetes",
			},
			wantMatched: true,
			wantType:    types.MatchHierarchical,
		},
		{
			name: "no match",
			output: MatchSkillOutput{
				Matched:   false,
				Reasoning: "no candidate qualifies",
			},
			wantMatched: false,
		},
		{
			name: "unknown tier rejected",
			output: MatchSkillOutput{
				Matched:      true,
				CVEquivalent: "docker",
				MatchType:    "adjacent",
			},
			wantErr: true,
		},
		{
			name: "candidate outside offered list rejected",
			output: MatchSkillOutput{
				Matched:      true,
				CVEquivalent: "terraform",
				MatchType:    "synonym",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matcher := newStubMatcher(tt.output, nil)
			proposal, err := matcher.Match(context.Background(), req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if proposal.Matched != tt.wantMatched {
				t.Errorf("Matched = %v, want %v", proposal.Matched, tt.wantMatched)
			}
			if tt.wantMatched && proposal.MatchType != tt.wantType {
				t.Errorf("MatchType = %s, want %s", proposal.MatchType, tt.wantType)
			}
		})
	}
}

func TestMatcherPropagatesProviderError(t *testing.T) {
	matcher := newStubMatcher(MatchSkillOutput{}, errors.NewAIError(errors.ErrCodeAIServiceFailed, "upstream down", nil))
	_, err := matcher.Match(context.Background(), engine.MatchRequest{
		Category:     "technical",
		JDSkill:      "go",
		CVCandidates: []string{"python"},
	})
	if err == nil {
		t.Fatal("expected provider error to propagate")
	}
}
