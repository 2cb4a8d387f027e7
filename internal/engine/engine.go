package engine

import (
	"context"

	"skillfit/internal/errors"
	"skillfit/internal/types"
)

// Engine wires the comparator, repair pass, extractors, and calculator into
// the scoring pipeline the CLI and server expose
type Engine struct {
	comparator *Comparator
	calculator *Calculator
	logger     *errors.Logger
}

// New assembles an engine. A nil matcher selects the built-in rule matcher.
func New(matcher SemanticMatcher, calcConfig CalculatorConfig, logger *errors.Logger) (*Engine, error) {
	calculator, err := NewCalculator(calcConfig)
	if err != nil {
		return nil, err
	}
	return &Engine{
		comparator: NewComparator(matcher, logger),
		calculator: calculator,
		logger:     logger,
	}, nil
}

// Compare runs the comparison followed by the repair pass, so callers always
// see a canonical report
func (e *Engine) Compare(ctx context.Context, cv, jd types.SkillSet) (*types.ComparisonReport, error) {
	report, err := e.comparator.Compare(ctx, cv, jd)
	if err != nil {
		return nil, err
	}

	repaired, changed := Repair(report, cv, jd)
	if changed && e.logger != nil {
		e.logger.Warn("comparison report required repair",
			"error_code", errors.ErrCodeComparisonRepaired,
			"matched", repaired.Summary.MatchedCount,
			"missing", repaired.Summary.MissingCount,
		)
	}

	return repaired, nil
}

// Score runs the full pipeline: compare, repair, extract component scores,
// and calculate the final breakdown
func (e *Engine) Score(ctx context.Context, input types.ScoreInput) (*types.ScoreResult, error) {
	report, err := e.Compare(ctx, input.CVSkills, input.JDSkills)
	if err != nil {
		return nil, err
	}

	scores, lowConfidence := ExtractComponentScores(input.Analysis)
	breakdown := e.calculator.Calculate(report, scores, lowConfidence)

	return &types.ScoreResult{
		Comparison: *report,
		Scores:     scores,
		Breakdown:  breakdown,
	}, nil
}

// Recommend scores the input and renders the recommendation prompt from the
// result
func (e *Engine) Recommend(ctx context.Context, input types.ScoreInput) (*types.RecommendationPrompt, *types.ScoreResult, error) {
	result, err := e.Score(ctx, input)
	if err != nil {
		return nil, nil, err
	}

	bundle := types.RecommendationBundle{
		Comparison: result.Comparison,
		Scores:     result.Scores,
		Breakdown:  result.Breakdown,
	}
	if input.Analysis != nil {
		bundle.StrategicAssessment = input.Analysis.StrategicAssessment
	}

	return &types.RecommendationPrompt{Prompt: AssemblePrompt(bundle)}, result, nil
}
