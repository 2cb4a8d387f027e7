package engine

import (
	"testing"

	"skillfit/internal/types"
)

func TestExtractComponentScoresNilBundle(t *testing.T) {
	scores, lowConfidence := ExtractComponentScores(nil)
	if !lowConfidence {
		t.Error("nil bundle must be low confidence")
	}
	if scores != NeutralComponentScores() {
		t.Errorf("nil bundle must yield neutral scores, got %+v", scores)
	}
	if scores.RequirementsBonus != 0 {
		t.Errorf("neutral bonus = %v, want 0", scores.RequirementsBonus)
	}
}

func TestExtractComponentScoresPartialBundle(t *testing.T) {
	bundle := &types.AnalysisBundle{
		Skills: &types.SkillsFragment{
			Assessments: []types.SkillAssessment{
				{Skill: "Go", RelevanceScore: 90},
				{Skill: "SQL", RelevanceScore: 70},
			},
		},
	}

	scores, lowConfidence := ExtractComponentScores(bundle)
	if !lowConfidence {
		t.Error("missing fragments must mark the result low confidence")
	}
	if scores.SkillsRelevance != 80 {
		t.Errorf("SkillsRelevance = %v, want 80", scores.SkillsRelevance)
	}
	if scores.ExperienceAlignment != neutralScore {
		t.Errorf("absent experience fragment should stay neutral, got %v", scores.ExperienceAlignment)
	}
}

func TestExtractExperience(t *testing.T) {
	tests := []struct {
		name     string
		fragment types.ExperienceFragment
		expected float64
	}{
		{
			name:     "meets years and level",
			fragment: types.ExperienceFragment{CVYears: 6, RequiredYears: 5, CVLevel: "senior", RequiredLevel: "senior"},
			expected: 100,
		},
		{
			name:     "half the required years at level",
			fragment: types.ExperienceFragment{CVYears: 2.5, RequiredYears: 5, CVLevel: "senior", RequiredLevel: "senior"},
			expected: 70, // 0.6*50 + 0.4*100
		},
		{
			name:     "one level short with enough years",
			fragment: types.ExperienceFragment{CVYears: 8, RequiredYears: 5, CVLevel: "mid", RequiredLevel: "senior"},
			expected: 90, // 0.6*100 + 0.4*75
		},
		{
			name:     "unknown levels score neutral on level",
			fragment: types.ExperienceFragment{CVYears: 5, RequiredYears: 5, CVLevel: "wizard", RequiredLevel: "senior"},
			expected: 80, // 0.6*100 + 0.4*50
		},
		{
			name:     "no years requirement",
			fragment: types.ExperienceFragment{CVYears: 0, RequiredYears: 0, CVLevel: "junior", RequiredLevel: "junior"},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := NeutralComponentScores()
			if ok := extractExperience(&tt.fragment, &scores); !ok {
				t.Fatal("extractor rejected a present fragment")
			}
			if scores.ExperienceAlignment != tt.expected {
				t.Errorf("ExperienceAlignment = %v, want %v", scores.ExperienceAlignment, tt.expected)
			}
		})
	}
}

func TestExtractIndustry(t *testing.T) {
	fragment := &types.IndustryFragment{
		DomainOverlapPercentage: 80,
		DataFamiliarityScore:    70,
		StakeholderFitScore:     60,
		BusinessCycleAlignment:  50,
		TransitionDifficulty:    "easy",
	}

	scores := NeutralComponentScores()
	if ok := extractIndustry(fragment, &scores); !ok {
		t.Fatal("extractor rejected a present fragment")
	}
	// 0.4*80 + 0.2*70 + 0.2*60 + 0.2*50 = 68, minus easy penalty 5
	if scores.IndustryFit != 63 {
		t.Errorf("IndustryFit = %v, want 63", scores.IndustryFit)
	}
	if scores.DomainOverlapPercentage != 80 {
		t.Errorf("DomainOverlapPercentage = %v, want 80", scores.DomainOverlapPercentage)
	}
}

func TestExtractIndustryHardTransitionClampsAtZero(t *testing.T) {
	fragment := &types.IndustryFragment{
		DomainOverlapPercentage: 20,
		TransitionDifficulty:    "hard",
	}

	scores := NeutralComponentScores()
	extractIndustry(fragment, &scores)
	if scores.IndustryFit != 0 {
		t.Errorf("IndustryFit = %v, want 0 after hard transition penalty", scores.IndustryFit)
	}
}

func TestExtractSeniority(t *testing.T) {
	fragment := &types.SeniorityFragment{
		ExperienceMatchPercentage:   80,
		ResponsibilityFitPercentage: 60,
		LeadershipReadinessScore:    40,
		GrowthTrajectoryScore:       100,

		CoreSkillsMatchPercentage:   90,
		TechnicalStackFitPercentage: 70,
		ComplexityReadinessScore:    50,
		LearningAgilityScore:        30,
	}

	scores := NeutralComponentScores()
	if ok := extractSeniority(fragment, &scores); !ok {
		t.Fatal("extractor rejected a present fragment")
	}
	if scores.RoleSeniority != 70 {
		t.Errorf("RoleSeniority = %v, want 70", scores.RoleSeniority)
	}
	if scores.TechnicalDepth != 60 {
		t.Errorf("TechnicalDepth = %v, want 60", scores.TechnicalDepth)
	}
}

func TestExtractRequirements(t *testing.T) {
	tests := []struct {
		name              string
		fragment          types.RequirementsFragment
		expectedBonus     float64
		expectedRequired  float64
		expectedPreferred float64
	}{
		{
			name:              "mixed hits and misses",
			fragment:          types.RequirementsFragment{RequiredMatched: 3, RequiredMissing: 1, PreferredMatched: 2, PreferredMissing: 2},
			expectedBonus:     2.5, // 3 - 1 + 1.0 - 0.5
			expectedRequired:  75,
			expectedPreferred: 50,
		},
		{
			name:              "positive clamp",
			fragment:          types.RequirementsFragment{RequiredMatched: 15},
			expectedBonus:     10,
			expectedRequired:  100,
			expectedPreferred: 100,
		},
		{
			name:              "negative clamp",
			fragment:          types.RequirementsFragment{RequiredMissing: 20},
			expectedBonus:     -10,
			expectedRequired:  0,
			expectedPreferred: 100,
		},
		{
			name:              "empty fragment",
			fragment:          types.RequirementsFragment{},
			expectedBonus:     0,
			expectedRequired:  100,
			expectedPreferred: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := NeutralComponentScores()
			if ok := extractRequirements(&tt.fragment, &scores); !ok {
				t.Fatal("extractor rejected a present fragment")
			}
			if scores.RequirementsBonus != tt.expectedBonus {
				t.Errorf("RequirementsBonus = %v, want %v", scores.RequirementsBonus, tt.expectedBonus)
			}
			if scores.RequiredCoverage != tt.expectedRequired {
				t.Errorf("RequiredCoverage = %v, want %v", scores.RequiredCoverage, tt.expectedRequired)
			}
			if scores.PreferredCoverage != tt.expectedPreferred {
				t.Errorf("PreferredCoverage = %v, want %v", scores.PreferredCoverage, tt.expectedPreferred)
			}
		})
	}
}

func TestExtractClampsOutOfRangeInputs(t *testing.T) {
	bundle := &types.AnalysisBundle{
		Skills: &types.SkillsFragment{
			Assessments: []types.SkillAssessment{{Skill: "Go", RelevanceScore: 250}},
		},
		Seniority: &types.SeniorityFragment{
			ExperienceMatchPercentage:   150,
			ResponsibilityFitPercentage: -40,
			LeadershipReadinessScore:    50,
			GrowthTrajectoryScore:       50,
		},
	}

	scores, _ := ExtractComponentScores(bundle)
	if scores.SkillsRelevance != 100 {
		t.Errorf("SkillsRelevance = %v, want clamped 100", scores.SkillsRelevance)
	}
	if scores.ExperienceMatchPercentage != 100 || scores.ResponsibilityFitPercentage != 0 {
		t.Errorf("seniority inputs not clamped: %+v", scores)
	}
	if scores.RoleSeniority != 50 {
		t.Errorf("RoleSeniority = %v, want 50", scores.RoleSeniority)
	}
}

func TestExtractFullBundleIsHighConfidence(t *testing.T) {
	bundle := &types.AnalysisBundle{
		Skills:       &types.SkillsFragment{Assessments: []types.SkillAssessment{{Skill: "Go", RelevanceScore: 90}}},
		Experience:   &types.ExperienceFragment{CVYears: 5, RequiredYears: 5, CVLevel: "senior", RequiredLevel: "senior"},
		Industry:     &types.IndustryFragment{DomainOverlapPercentage: 80, TransitionDifficulty: "none"},
		Seniority:    &types.SeniorityFragment{},
		Requirements: &types.RequirementsFragment{RequiredMatched: 1},
	}

	_, lowConfidence := ExtractComponentScores(bundle)
	if lowConfidence {
		t.Error("complete bundle should not be low confidence")
	}
}
