package engine

import (
	"fmt"

	"skillfit/internal/errors"
	"skillfit/internal/types"
)

// CalculatorConfig holds the tunable weights and thresholds of the score
// calculator. The category weight triples must each sum to 1 and the two
// category point pools must sum to 100.
type CalculatorConfig struct {
	TechnicalWeight float64 `mapstructure:"technical_weight"`
	SoftWeight      float64 `mapstructure:"soft_weight"`
	DomainWeight    float64 `mapstructure:"domain_weight"`

	CoreWeight      float64 `mapstructure:"core_weight"`
	SeniorityWeight float64 `mapstructure:"seniority_weight"`
	DepthWeight     float64 `mapstructure:"depth_weight"`

	Cat1Points float64 `mapstructure:"cat1_points"`
	Cat2Points float64 `mapstructure:"cat2_points"`
	BonusClamp float64 `mapstructure:"bonus_clamp"`

	ExcellentThreshold float64 `mapstructure:"excellent_threshold"`
	GoodThreshold      float64 `mapstructure:"good_threshold"`
	ModerateThreshold  float64 `mapstructure:"moderate_threshold"`
}

// DefaultCalculatorConfig returns the production weighting: skills comparison
// carries 40 points, analysis-derived fit carries 60, and keyword bonuses swing
// at most 10 points either way before the final clamp.
func DefaultCalculatorConfig() CalculatorConfig {
	return CalculatorConfig{
		TechnicalWeight: 0.5,
		SoftWeight:      0.3,
		DomainWeight:    0.2,

		CoreWeight:      0.5,
		SeniorityWeight: 0.25,
		DepthWeight:     0.25,

		Cat1Points: 40,
		Cat2Points: 60,
		BonusClamp: 10,

		ExcellentThreshold: 85,
		GoodThreshold:      70,
		ModerateThreshold:  55,
	}
}

const weightEpsilon = 1e-9

// Validate checks the config for internally consistent weights and thresholds
func (c CalculatorConfig) Validate() error {
	check := func(name string, v float64) error {
		if v <= 0 {
			return errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("%s must be positive, got %g", name, v), nil)
		}
		return nil
	}

	for name, v := range map[string]float64{
		"technical_weight": c.TechnicalWeight,
		"soft_weight":      c.SoftWeight,
		"domain_weight":    c.DomainWeight,
		"core_weight":      c.CoreWeight,
		"seniority_weight": c.SeniorityWeight,
		"depth_weight":     c.DepthWeight,
		"cat1_points":      c.Cat1Points,
		"cat2_points":      c.Cat2Points,
	} {
		if err := check(name, v); err != nil {
			return err
		}
	}

	if sum := c.TechnicalWeight + c.SoftWeight + c.DomainWeight; sum < 1-weightEpsilon || sum > 1+weightEpsilon {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("category weights must sum to 1, got %g", sum), nil)
	}
	if sum := c.CoreWeight + c.SeniorityWeight + c.DepthWeight; sum < 1-weightEpsilon || sum > 1+weightEpsilon {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("analysis weights must sum to 1, got %g", sum), nil)
	}
	if sum := c.Cat1Points + c.Cat2Points; sum < 100-weightEpsilon || sum > 100+weightEpsilon {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("category point pools must sum to 100, got %g", sum), nil)
	}
	if c.BonusClamp < 0 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("bonus_clamp must be non-negative, got %g", c.BonusClamp), nil)
	}
	if !(c.ExcellentThreshold > c.GoodThreshold && c.GoodThreshold > c.ModerateThreshold && c.ModerateThreshold > 0) {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"status thresholds must be strictly decreasing and positive", nil)
	}
	if c.ExcellentThreshold > 100 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("excellent_threshold cannot exceed 100, got %g", c.ExcellentThreshold), nil)
	}

	return nil
}

// Calculator combines a comparison report and component scores into the final
// ATS score breakdown
type Calculator struct {
	config CalculatorConfig
}

// NewCalculator creates a calculator after validating its config
func NewCalculator(config CalculatorConfig) (*Calculator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{config: config}, nil
}

// Calculate produces the score breakdown. Skills comparison drives the first
// category, analysis components the second, and the requirements bonus shifts
// the total inside its clamp before the final 0-100 clamp.
func (c *Calculator) Calculate(comparison *types.ComparisonReport, scores types.ComponentScores, lowConfidence bool) types.ATSScoreBreakdown {
	cfg := c.config

	techRate := comparison.Technical.MatchRatePercent
	softRate := comparison.Soft.MatchRatePercent
	domainRate := comparison.Domain.MatchRatePercent

	cat1 := cfg.Cat1Points * (cfg.TechnicalWeight*techRate +
		cfg.SoftWeight*softRate +
		cfg.DomainWeight*domainRate) / 100

	core := (scores.SkillsRelevance + scores.ExperienceAlignment + scores.IndustryFit) / 3
	cat2 := cfg.Cat2Points * (cfg.CoreWeight*core +
		cfg.SeniorityWeight*scores.RoleSeniority +
		cfg.DepthWeight*scores.TechnicalDepth) / 100

	bonus := clamp(scores.RequirementsBonus, -cfg.BonusClamp, cfg.BonusClamp)

	final := round1(clamp(cat1+cat2+bonus, 0, 100))
	status := c.statusFor(final)

	return types.ATSScoreBreakdown{
		FinalATSScore:  final,
		CategoryStatus: status,
		Recommendation: recommendationFor(status),

		Cat1Score:   round1(cat1),
		Cat2Score:   round1(cat2),
		BonusPoints: round1(bonus),

		TechnicalMatchRate: techRate,
		SoftMatchRate:      softRate,
		DomainMatchRate:    domainRate,

		TechnicalMissing: len(comparison.Technical.Missing),
		SoftMissing:      len(comparison.Soft.Missing),
		DomainMissing:    len(comparison.Domain.Missing),

		LowConfidence: lowConfidence,
	}
}

func (c *Calculator) statusFor(score float64) types.FitStatus {
	switch {
	case score >= c.config.ExcellentThreshold:
		return types.FitExcellent
	case score >= c.config.GoodThreshold:
		return types.FitGood
	case score >= c.config.ModerateThreshold:
		return types.FitModerate
	default:
		return types.FitPoor
	}
}

func recommendationFor(status types.FitStatus) string {
	switch status {
	case types.FitExcellent:
		return "Strong alignment with the role. Apply after minor keyword polishing."
	case types.FitGood:
		return "Good alignment. Tailor the CV to close the listed gaps before applying."
	case types.FitModerate:
		return "Partial alignment. Substantial tailoring is needed, starting with the missing technical skills."
	default:
		return "Weak alignment. Consider roles closer to the current profile or address the core gaps first."
	}
}
