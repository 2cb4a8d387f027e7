package engine

import (
	"testing"

	"skillfit/internal/types"
)

func comparisonWithRates(tech, soft, domain float64) *types.ComparisonReport {
	return &types.ComparisonReport{
		Technical: types.CategoryComparisonResult{Category: CategoryTechnical, MatchRatePercent: tech},
		Soft:      types.CategoryComparisonResult{Category: CategorySoft, MatchRatePercent: soft},
		Domain:    types.CategoryComparisonResult{Category: CategoryDomain, MatchRatePercent: domain},
	}
}

func uniformScores(v float64) types.ComponentScores {
	scores := NeutralComponentScores()
	scores.SkillsRelevance = v
	scores.ExperienceAlignment = v
	scores.IndustryFit = v
	scores.RoleSeniority = v
	scores.TechnicalDepth = v
	scores.RequirementsBonus = 0
	return scores
}

func TestCalculatorConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*CalculatorConfig)
		expectError bool
	}{
		{name: "defaults are valid", mutate: func(*CalculatorConfig) {}},
		{
			name:        "category weights must sum to one",
			mutate:      func(c *CalculatorConfig) { c.TechnicalWeight = 0.6 },
			expectError: true,
		},
		{
			name:        "analysis weights must sum to one",
			mutate:      func(c *CalculatorConfig) { c.CoreWeight = 0.6 },
			expectError: true,
		},
		{
			name:        "point pools must sum to hundred",
			mutate:      func(c *CalculatorConfig) { c.Cat1Points = 50 },
			expectError: true,
		},
		{
			name:        "negative weight rejected",
			mutate:      func(c *CalculatorConfig) { c.SoftWeight = -0.3 },
			expectError: true,
		},
		{
			name:        "thresholds must decrease",
			mutate:      func(c *CalculatorConfig) { c.GoodThreshold = 90 },
			expectError: true,
		},
		{
			name:        "negative bonus clamp rejected",
			mutate:      func(c *CalculatorConfig) { c.BonusClamp = -1 },
			expectError: true,
		},
		{
			name:        "threshold above hundred rejected",
			mutate:      func(c *CalculatorConfig) { c.ExcellentThreshold = 101 },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultCalculatorConfig()
			tt.mutate(&config)
			err := config.Validate()
			if tt.expectError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCalculatePerfectInput(t *testing.T) {
	calculator, err := NewCalculator(DefaultCalculatorConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	breakdown := calculator.Calculate(comparisonWithRates(100, 100, 100), uniformScores(100), false)

	if breakdown.Cat1Score != 40 {
		t.Errorf("Cat1Score = %v, want 40", breakdown.Cat1Score)
	}
	if breakdown.Cat2Score != 60 {
		t.Errorf("Cat2Score = %v, want 60", breakdown.Cat2Score)
	}
	if breakdown.FinalATSScore != 100 {
		t.Errorf("FinalATSScore = %v, want 100", breakdown.FinalATSScore)
	}
	if breakdown.CategoryStatus != types.FitExcellent {
		t.Errorf("CategoryStatus = %v, want excellent_fit", breakdown.CategoryStatus)
	}
	if breakdown.Recommendation == "" {
		t.Error("recommendation must not be empty")
	}
}

func TestCalculateZeroInputClampsAtZero(t *testing.T) {
	calculator, _ := NewCalculator(DefaultCalculatorConfig())

	scores := uniformScores(0)
	scores.RequirementsBonus = -10
	breakdown := calculator.Calculate(comparisonWithRates(0, 0, 0), scores, false)

	if breakdown.FinalATSScore != 0 {
		t.Errorf("FinalATSScore = %v, want 0 after clamp", breakdown.FinalATSScore)
	}
	if breakdown.CategoryStatus != types.FitPoor {
		t.Errorf("CategoryStatus = %v, want poor_fit", breakdown.CategoryStatus)
	}
}

func TestCalculateBonusCannotExceedHundred(t *testing.T) {
	calculator, _ := NewCalculator(DefaultCalculatorConfig())

	scores := uniformScores(100)
	scores.RequirementsBonus = 10
	breakdown := calculator.Calculate(comparisonWithRates(100, 100, 100), scores, false)

	if breakdown.FinalATSScore != 100 {
		t.Errorf("FinalATSScore = %v, want clamped 100", breakdown.FinalATSScore)
	}
	if breakdown.BonusPoints != 10 {
		t.Errorf("BonusPoints = %v, want 10", breakdown.BonusPoints)
	}
}

func TestCalculateStatusBoundaries(t *testing.T) {
	calculator, _ := NewCalculator(DefaultCalculatorConfig())

	tests := []struct {
		name     string
		uniform  float64
		expected types.FitStatus
	}{
		{name: "exactly excellent", uniform: 85, expected: types.FitExcellent},
		{name: "just under excellent", uniform: 84.9, expected: types.FitGood},
		{name: "exactly good", uniform: 70, expected: types.FitGood},
		{name: "just under good", uniform: 69.9, expected: types.FitModerate},
		{name: "exactly moderate", uniform: 55, expected: types.FitModerate},
		{name: "just under moderate", uniform: 54.9, expected: types.FitPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// uniform rates and scores make the final score equal the input value
			breakdown := calculator.Calculate(
				comparisonWithRates(tt.uniform, tt.uniform, tt.uniform),
				uniformScores(tt.uniform),
				false,
			)
			if breakdown.FinalATSScore != tt.uniform {
				t.Fatalf("FinalATSScore = %v, want %v", breakdown.FinalATSScore, tt.uniform)
			}
			if breakdown.CategoryStatus != tt.expected {
				t.Errorf("CategoryStatus = %v, want %v", breakdown.CategoryStatus, tt.expected)
			}
		})
	}
}

func TestCalculateHigherMatchRateNeverLowersScore(t *testing.T) {
	calculator, _ := NewCalculator(DefaultCalculatorConfig())
	scores := uniformScores(60)

	previous := -1.0
	for rate := 0.0; rate <= 100; rate += 10 {
		breakdown := calculator.Calculate(comparisonWithRates(rate, 60, 60), scores, false)
		if breakdown.FinalATSScore < previous {
			t.Fatalf("score dropped from %v to %v when technical rate rose to %v", previous, breakdown.FinalATSScore, rate)
		}
		previous = breakdown.FinalATSScore
	}
}

func TestCalculateCarriesComparisonDetails(t *testing.T) {
	calculator, _ := NewCalculator(DefaultCalculatorConfig())

	comparison := comparisonWithRates(50, 100, 0)
	comparison.Technical.Missing = []types.MissingSkill{{Skill: "Rust"}}
	comparison.Domain.Missing = []types.MissingSkill{{Skill: "fintech"}, {Skill: "payments"}}

	breakdown := calculator.Calculate(comparison, uniformScores(50), true)

	if breakdown.TechnicalMatchRate != 50 || breakdown.SoftMatchRate != 100 || breakdown.DomainMatchRate != 0 {
		t.Errorf("match rates not carried: %+v", breakdown)
	}
	if breakdown.TechnicalMissing != 1 || breakdown.SoftMissing != 0 || breakdown.DomainMissing != 2 {
		t.Errorf("missing counts not carried: %+v", breakdown)
	}
	if !breakdown.LowConfidence {
		t.Error("LowConfidence flag not carried")
	}
}

func TestCalculateCustomWeights(t *testing.T) {
	config := DefaultCalculatorConfig()
	config.TechnicalWeight = 1.0
	config.SoftWeight = 0
	config.DomainWeight = 0

	if err := config.Validate(); err == nil {
		t.Fatal("zero weights should fail validation")
	}
}
